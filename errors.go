// errors.go: scan diagnostics and caret-snippet rendering.
//
// Every scan failure is represented as a *ScanError value; the engine never
// panics on malformed input. `WrapErrorWithSource` upgrades a ScanError (or
// a whole ScanErrors list) into a readable multi-line snippet with a caret
// pointing at the offending column, suitable for logs and terminals:
//
//	SCAN ERROR at 3:12: unmatched input "@"
//
//	   2 | let x = 1
//	   3 | let y = @2
//	       |         ^
//	   4 | end
//
// The renderer is independent of the engine; it only needs the original
// source text to slice context lines out of.
package tokenizer

import (
	"fmt"
	"strings"
)

// ErrorKind tags what failed during a scan.
type ErrorKind int

const (
	// UnmatchedInput: no registered scanner (and not whitespace) matches
	// at the offset; the engine cannot classify the character there.
	UnmatchedInput ErrorKind = iota

	// UnterminatedBlock: a block's open delimiter matched but no close
	// delimiter (honoring nesting) arrived before the end of the input.
	UnterminatedBlock
)

func (k ErrorKind) String() string {
	switch k {
	case UnmatchedInput:
		return "unmatched input"
	case UnterminatedBlock:
		return "unterminated block"
	default:
		return "unknown"
	}
}

// ScanError describes one scan failure. Offset is the byte offset into the
// input; Line/Col are 1-based and zero when position tracking was disabled.
// For UnterminatedBlock the error points at the open delimiter that never
// closed and carries the offending scanner's delimiters and token type.
type ScanError struct {
	Kind   ErrorKind
	Offset int
	Line   int
	Col    int

	Char string // offending character, UnmatchedInput only

	Open      string // block scanner context, UnterminatedBlock only
	Close     string
	TokenType string
}

func (e *ScanError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("SCAN ERROR at %d:%d: %s", e.Line, e.Col, e.message())
	}
	return fmt.Sprintf("SCAN ERROR at offset %d: %s", e.Offset, e.message())
}

// message is the headerless, positionless part of Error, reused by the
// snippet renderer.
func (e *ScanError) message() string {
	switch e.Kind {
	case UnmatchedInput:
		return fmt.Sprintf("unmatched input %q", e.Char)
	case UnterminatedBlock:
		return fmt.Sprintf("unterminated %s block: %q opened without a matching %q",
			e.TokenType, e.Open, e.Close)
	default:
		return "scan error"
	}
}

// ScanErrors is the ordered diagnostic list a failed Tokenize returns.
type ScanErrors []*ScanError

func (es ScanErrors) Error() string {
	switch len(es) {
	case 0:
		return "no scan errors"
	case 1:
		return es[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d scan errors:", len(es))
	for _, e := range es {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

/* ===========================
   caret-snippet rendering
   =========================== */

// WrapErrorWithSource returns an error whose message is a caret-annotated
// snippet of src. It recognizes *ScanError and ScanErrors; any other error
// is returned unchanged. When position tracking was off during the scan,
// line/column are recomputed here from the error's byte offset.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("in <name>")
// included in each snippet header.
func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *ScanError:
		return fmt.Errorf("%s", snippet(src, srcName, e))
	case ScanErrors:
		parts := make([]string, 0, len(e))
		for _, se := range e {
			parts = append(parts, snippet(src, srcName, se))
		}
		return fmt.Errorf("%s", strings.Join(parts, "\n"))
	default:
		return err
	}
}

func snippet(src, name string, e *ScanError) string {
	line, col := e.Line, e.Col
	if line == 0 {
		line, col = lineColAt(src, e.Offset)
	}
	return prettySnippet(src, "SCAN ERROR", name, line, col, e.message())
}

// lineColAt computes the 1-based line/column of a byte offset, for errors
// produced with position tracking disabled.
func lineColAt(src string, off int) (line, col int) {
	if off > len(src) {
		off = len(src)
	}
	line, col = 1, 1
	for _, r := range src[:off] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// prettySnippet builds the header plus up to one previous and one next line
// of context, with a caret under the 1-based column. Coordinates are clamped
// to the source bounds so rendering never fails on short input.
func prettySnippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
