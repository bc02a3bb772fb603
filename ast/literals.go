package ast

// Number is a decimal integer literal. Literal holds the source digits,
// Value the parsed number.
type Number struct {
	Span    Span
	Literal string
	Value   float64
}

func (x *Number) exprNode() {}

func (x *Number) Pos() int { return x.Span.Start }
func (x *Number) End() int { return x.Span.End }

func (x *Number) String() string { return x.Literal }

// String is a quoted string literal. Raw holds the source text including the
// quotes, Value the decoded contents.
type String struct {
	Span  Span
	Raw   string
	Value string
}

func (x *String) exprNode() {}

func (x *String) Pos() int { return x.Span.Start }
func (x *String) End() int { return x.Span.End }

func (x *String) String() string { return x.Raw }

// Array is a list literal such as [1, 2, 3].
type Array struct {
	Span     Span
	Elements []Expr
}

func (x *Array) exprNode() {}

func (x *Array) Pos() int { return x.Span.Start }
func (x *Array) End() int { return x.Span.End }

func (x *Array) String() string { return "[" + exprsString(x.Elements) + "]" }

// DictEntry is one key: value pair of a dictionary literal. Keys are always
// string literals.
type DictEntry struct {
	Key   *String
	Value Expr
}

// Dictionary is a dictionary literal such as {'a': 1}.
type Dictionary struct {
	Span    Span
	Entries []*DictEntry
}

func (x *Dictionary) exprNode() {}

func (x *Dictionary) Pos() int { return x.Span.Start }
func (x *Dictionary) End() int { return x.Span.End }

func (x *Dictionary) String() string {
	out := "{"
	for i, entry := range x.Entries {
		if i > 0 {
			out += ", "
		}
		out += entry.Key.String() + ": " + entry.Value.String()
	}
	return out + "}"
}
