package tokenizer

import "fmt"

// Token is a single classified span of input text.
//
// Value holds the exact matched text. For block scanners the open/close
// delimiters are included or stripped according to the scanner's
// IncludeDelimiters flag. Offset is the byte offset of the matched span in
// the input and is always set. Line and Col are 1-based and point at the
// first character of the span; both are zero when position tracking is
// disabled.
type Token struct {
	Type    string
	SubType string
	Value   string
	Offset  int
	Line    int
	Col     int
}

// String renders the token in a compact "Type(SubType) @L:C value" form,
// mainly for test failures and CLI output.
func (t Token) String() string {
	head := t.Type
	if t.SubType != "" {
		head += "/" + t.SubType
	}
	if t.Line > 0 {
		return fmt.Sprintf("%s@%d:%d %q", head, t.Line, t.Col, t.Value)
	}
	return fmt.Sprintf("%s %q", head, t.Value)
}
