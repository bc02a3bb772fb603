package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vimlsp/vimscript/format"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("color: never\n"), 0o644))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLintClean(t *testing.T) {
	path := writeFile(t, t.TempDir(), "clean.vim", "let s:x = 1\n")
	res := run(t, "", "lint", path)
	require.NoError(t, res.err)
	assert.Equal(t, path+": OK\n", res.stdout)
}

func TestLintErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.vim", "let s:x = 1\n")
	writeFile(t, dir, "b.vim", "let s:x ! 1\n")
	writeFile(t, dir, "notes.txt", "let x ! 1\n")

	res := run(t, "", "lint", dir)
	assert.True(t, errors.Is(res.err, errFailed))
	assert.Contains(t, res.stdout, filepath.Join(dir, "a.vim")+": OK")
	assert.Contains(t, res.stdout, filepath.Join(dir, "b.vim")+":1:9: error [syntax] expected assign operator, found `!`")
	assert.Contains(t, res.stdout, "1 error(s), 0 warning(s) in 2 files")
	assert.NotContains(t, res.stdout, "notes.txt")
}

func TestLintStdin(t *testing.T) {
	res := run(t, "let x = 1\n", "lint")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "<stdin>:1:5: warning [implicit-scope]")
}

func TestLintJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.vim", "function F()\nendfunction\n")
	res := run(t, "", "lint", "--format", "json", path)
	require.NoError(t, res.err)

	var decoded struct {
		Files []struct {
			File   string `json:"file"`
			Issues []struct {
				Rule string `json:"rule"`
			} `json:"issues"`
		} `json:"files"`
		Warnings int `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &decoded))
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, path, decoded.Files[0].File)
	assert.Equal(t, 1, decoded.Warnings)
	assert.Equal(t, "missing-abort", decoded.Files[0].Issues[0].Rule)
}

func TestLintMissingFile(t *testing.T) {
	res := run(t, "", "lint", filepath.Join(t.TempDir(), "missing.vim"))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "missing.vim")
}

func TestLintUnknownFormat(t *testing.T) {
	res := run(t, "", "lint", "--format", "xml")
	assert.EqualError(t, res.err, `unknown output format "xml" (expected text or json)`)
}

func TestFmtStdout(t *testing.T) {
	res := run(t, "if a\nlet x=1\nendif\n", "fmt")
	require.NoError(t, res.err)
	assert.Equal(t, "if a\n  let x = 1\nendif\n", res.stdout)
}

func TestFmtCheckAndWrite(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.vim", "let x = 1\n")
	bad := writeFile(t, dir, "bad.vim", "let x=1\n")

	res := run(t, "", "fmt", "--check", good, bad)
	assert.True(t, errors.Is(res.err, errFailed))
	assert.Equal(t, bad+"\n", res.stdout)

	res = run(t, "", "fmt", "-w", good, bad)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	data, err := os.ReadFile(bad)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1\n", string(data))

	res = run(t, "", "fmt", "--check", good, bad)
	require.NoError(t, res.err)

	res = run(t, "", "fmt", "--check", "-w", good)
	assert.EqualError(t, res.err, "--write and --check cannot be combined")
}

func TestFmtParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.vim", "let x ! 1\n")
	res := run(t, "", "fmt", "-w", path)
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, format.ErrHasParseErrors))
	assert.Contains(t, res.stderr, "expected assign operator, found `!`")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "let x ! 1\n", string(data))
}

func TestAST(t *testing.T) {
	res := run(t, "let x = 1\ncall F(x)\n", "ast")
	require.NoError(t, res.err)

	var stmts []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &stmts))
	assert.Len(t, stmts, 2)
}

func TestASTParseErrors(t *testing.T) {
	res := run(t, "let x ! 1\nlet y = 2\n", "ast")
	assert.True(t, errors.Is(res.err, errFailed))
	assert.Contains(t, res.stderr, "E1001")

	var stmts []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &stmts))
	assert.Len(t, stmts, 1)
}

func TestTokens(t *testing.T) {
	res := run(t, "let x = 1", "tokens")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "0:0-0:3"))
	assert.Contains(t, lines[0], `"let"`)
	assert.Contains(t, lines[3], "NUMBER")
}

func TestInvalidLogLevel(t *testing.T) {
	res := run(t, "", "--log-level", "loud", "tokens")
	assert.ErrorContains(t, res.err, "log.level")
}

func TestRules(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "color: never\nlint:\n  disable: [line-too-long]\n")

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", cfg, "rules"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "| RULE ")
	assert.Regexp(t, `\| line-too-long +\| +no +\|`, out)
	assert.Regexp(t, `\| syntax +\| +yes +\|`, out)
}
