package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const stdinName = "<stdin>"

// source is one input file.
type source struct {
	path string
	text string
}

func (s source) isStdin() bool { return s.path == stdinName }

// expandPaths replaces directories by the .vim files below them. Hidden
// directories are skipped.
func expandPaths(args []string) ([]string, error) {
	var (
		paths []string
		errs  *multierror.Error
	)
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != arg && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !d.IsDir() && filepath.Ext(path) == ".vim" {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, errs.ErrorOrNil()
}

// readSources reads the files named by args, or stdin when args is empty
// or "-". Unreadable files are reported together after reading the rest.
func readSources(stdin io.Reader, args []string) ([]source, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []source{{path: stdinName, text: string(data)}}, nil
	}
	paths, err := expandPaths(args)
	var errs *multierror.Error
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	var sources []source
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		sources = append(sources, source{path: path, text: string(data)})
	}
	return sources, errs.ErrorOrNil()
}
