// Package lsp implements the editor features of a Vimscript language server
// on top of the parser: a document cache with full reparse on every change,
// diagnostics, document highlight, rename and completion. It speaks the
// protocol types but leaves the JSON-RPC transport to the caller.
package lsp

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
	"github.com/rs/zerolog/log"

	"github.com/vimlsp/vimscript/parser"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNotIdentifier    = errors.New("no identifier at position")
	ErrInvalidName      = errors.New("invalid identifier")
)

// Cache holds the open documents of a session. It is safe for concurrent
// use.
type Cache struct {
	mu      sync.RWMutex
	docs    map[protocol.DocumentURI]*Document
	options []parser.Option
}

// NewCache returns an empty cache. The options are used for every parse.
func NewCache(options ...parser.Option) *Cache {
	return &Cache{
		docs:    map[protocol.DocumentURI]*Document{},
		options: options,
	}
}

// Open parses a newly opened document and stores it, replacing any
// document with the same URI.
func (c *Cache) Open(item protocol.TextDocumentItem) *Document {
	doc := parseDocument(item, c.options)
	c.mu.Lock()
	c.docs[item.URI] = doc
	c.mu.Unlock()
	return doc
}

// Change replaces the full text of an open document and reparses it.
// Changes with a version older than the stored one are ignored.
func (c *Cache) Change(uri protocol.DocumentURI, version int32, text string) (*Document, error) {
	c.mu.RLock()
	prev, ok := c.docs[uri]
	c.mu.RUnlock()
	if !ok {
		log.Error().Err(ErrDocumentNotFound).Str("call", "Change").Str("uri", string(uri)).Msg("change to a closed document")
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}
	if version < prev.item.Version {
		log.Debug().Str("uri", string(uri)).Int32("version", version).Msg("ignoring stale change")
		return prev, nil
	}

	item := prev.item
	item.Version = version
	item.Text = text
	doc := parseDocument(item, c.options)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.docs[uri]; ok && cur.item.Version > version {
		return cur, nil
	}
	c.docs[uri] = doc
	return doc, nil
}

// Close forgets a document.
func (c *Cache) Close(uri protocol.DocumentURI) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[uri]; !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}
	delete(c.docs, uri)
	log.Debug().Str("uri", string(uri)).Msg("closed document")
	return nil
}

// Get returns the current version of a document.
func (c *Cache) Get(uri protocol.DocumentURI) (*Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}
	return doc, nil
}

// URIs returns the URIs of all open documents, sorted.
func (c *Cache) URIs() []protocol.DocumentURI {
	c.mu.RLock()
	defer c.mu.RUnlock()
	uris := make([]protocol.DocumentURI, 0, len(c.docs))
	for uri := range c.docs {
		uris = append(uris, uri)
	}
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })
	return uris
}
