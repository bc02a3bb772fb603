package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "H2", "h3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignRight})
	table.Append([]string{"ROW1", "ROW2", "foo bar"})
	table.Append([]string{"a", "b", "c"})
	require.NoError(t, table.Render())

	expected := `
+---------+------+---------+
| HEADER1 |  H2  |      h3 |
+---------+------+---------+
| ROW1    | ROW2 | foo bar |
| a       |    b | c       |
+---------+------+---------+
`
	assert.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestColoredTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf).
		WithHeader([]string{"RULE", "ENABLED", "DESCRIPTION"}).
		Append([]string{"\x1b[1msyntax\x1b[0m", "yes", "\x1b[32mthe file does not parse\x1b[0m"}).
		Append([]string{"line-too-long", "\x1b[31mno\x1b[0m", "long lines"})
	require.NoError(t, table.Render())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	for i, line := range lines {
		assert.Equal(t, len(lines[0]), len(stripAnsi(line)), "line %d", i)
	}
}

func TestShortRowsAndUnicode(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf).
		Append([]string{"ä", "b"}).
		Append([]string{"cc"})
	require.NoError(t, table.Render())

	expected := `
+----+---+
| ä  | b |
| cc |   |
+----+---+
`
	assert.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}
