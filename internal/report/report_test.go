package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPlain(t *testing.T) {
	d := &Diagnostic{
		Code:      "E1001",
		Message:   "expected assign operator, found `!`",
		Filename:  "plugin.vim",
		Line:      1,
		Column:    11,
		EndColumn: 12,
		SourceLines: []SourceLine{
			{Number: 1, Text: "let l:var ! 15", IsMain: true},
		},
	}
	expected := "error[E1001]: expected assign operator, found `!`\n" +
		"  --> plugin.vim:1:11\n" +
		"   |\n" +
		" 1 | let l:var ! 15\n" +
		"   |           ^\n"
	assert.Equal(t, expected, NewFormatter(false).Format(d))
}

func TestMultiCharacterUnderline(t *testing.T) {
	d := &Diagnostic{
		Message:     "expected keyword, found `unknown`",
		Line:        3,
		Column:      1,
		EndColumn:   8,
		SourceLines: []SourceLine{{Number: 3, Text: "unknown xx()", IsMain: true}},
	}
	out := NewFormatter(false).Format(d)
	assert.Contains(t, out, "  --> 3:1\n")
	assert.Contains(t, out, "   | ^^^^^^^\n")
}

func TestZeroEndColumnDefaultsToSingleCaret(t *testing.T) {
	d := &Diagnostic{
		Message:     "boom",
		Line:        1,
		Column:      3,
		SourceLines: []SourceLine{{Number: 1, Text: "abcdef", IsMain: true}},
	}
	out := NewFormatter(false).Format(d)
	assert.Contains(t, out, "   |   ^\n")
}

func TestHintAndWarning(t *testing.T) {
	d := &Diagnostic{
		Kind:    "warning",
		Code:    "missing-abort",
		Message: "function `F` is missing `abort`",
		Hint:    "add `abort` after the parameter list",
		Note:    "errors inside F will not stop it",
	}
	out := NewFormatter(false).Format(d)
	assert.True(t, strings.HasPrefix(out, "warning[missing-abort]: "))
	assert.Contains(t, out, "   = hint: add `abort` after the parameter list\n")
	assert.Contains(t, out, "   = note: errors inside F will not stop it\n")
	assert.NotContains(t, out, "-->")
}

func TestFormatWithColor(t *testing.T) {
	d := &Diagnostic{Message: "boom", Line: 1, Column: 1}
	out := NewFormatter(true).Format(d)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "boom")
}

func TestFormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	assert.Equal(t, "", f.FormatMultiple(nil))

	one := &Diagnostic{Message: "first"}
	assert.Equal(t, f.Format(one), f.FormatMultiple([]*Diagnostic{one}))

	out := f.FormatMultiple([]*Diagnostic{one, {Message: "second"}})
	assert.Contains(t, out, "error[1/2]: first\n")
	assert.Contains(t, out, "error[2/2]: second\n")
	assert.True(t, strings.HasSuffix(out, "found 2 problems\n"))
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "a.vim:2:4", (&Diagnostic{Filename: "a.vim", Line: 2, Column: 4}).Location())
	assert.Equal(t, "a.vim", (&Diagnostic{Filename: "a.vim"}).Location())
	assert.Equal(t, "2:4", (&Diagnostic{Line: 2, Column: 4}).Location())
	assert.Equal(t, "", (&Diagnostic{}).Location())
}

func TestSuggestSimilar(t *testing.T) {
	keywords := []string{"function", "endfunction", "let", "if", "endif", "return"}

	got := SuggestSimilar("functon", keywords)
	require.NotEmpty(t, got)
	assert.Equal(t, "function", got[0].Value)
	assert.Equal(t, 1, got[0].Distance)
	assert.Equal(t, "did you mean `function`?", FormatSuggestions(got[:1]))

	assert.Empty(t, SuggestSimilar("let", keywords), "exact matches are skipped")
	assert.Empty(t, SuggestSimilar("zzzzzzzz", keywords))
	assert.Empty(t, SuggestSimilar("", keywords))

	got = SuggestSimilar("endf", []string{"endif", "endfor", "end"})
	assert.Equal(t, "did you mean one of `end`, `endif`, `endfor`?", FormatSuggestions(got))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 1, levenshteinDistance("café", "cafe"))
}
