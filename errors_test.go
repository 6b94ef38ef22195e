package tokenizer

import (
	"errors"
	"strings"
	"testing"
)

func mustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", sub, s)
	}
}

func scanFixture(t *testing.T) *Tokenizer {
	t.Helper()
	tok := New()
	mustAdd(t, tok.AddRegexScanner(`[a-z]+`, "Identifier", ""))
	mustAdd(t, tok.AddRegexScanner(`\d+`, "Number", ""))
	mustAdd(t, tok.AddSymbolScanner("=", "Assign", ""))
	return tok
}

func Test_ErrorWrap_Unmatched_ShowsCaretAndContext(t *testing.T) {
	src := "let x = 1\nlet y = @2\nend"

	_, err := scanFixture(t).Tokenize(src)
	if err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	msg := WrapErrorWithSource(err, src).Error()

	// Header with 1-based position of the '@'.
	mustContain(t, msg, "SCAN ERROR at 2:9:")
	mustContain(t, msg, `unmatched input "@"`)
	// Context lines.
	mustContain(t, msg, "   1 | let x = 1")
	mustContain(t, msg, "   2 | let y = @2")
	mustContain(t, msg, "   3 | end")
	// Caret under column 9.
	mustContain(t, msg, "     | "+strings.Repeat(" ", 8)+"^")
}

func Test_ErrorWrap_Unterminated_CarriesScannerContext(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner("/*", "*/", "Comment", "BlockComment", false, false, true))

	src := "/* never closed"
	_, err := tok.Tokenize(src)
	msg := WrapErrorWithSource(err, src).Error()

	mustContain(t, msg, "SCAN ERROR at 1:1:")
	mustContain(t, msg, "unterminated Comment block")
	mustContain(t, msg, `"/*"`)
	mustContain(t, msg, `"*/"`)
}

func Test_ErrorWrap_WithName_IncludesSource(t *testing.T) {
	src := "@"
	_, err := scanFixture(t).Tokenize(src)
	msg := WrapErrorWithName(err, "input.txt", src).Error()
	mustContain(t, msg, "SCAN ERROR in input.txt at 1:1:")
}

func Test_ErrorWrap_OtherErrorsUntouched(t *testing.T) {
	plain := errors.New("something else")
	if got := WrapErrorWithSource(plain, "src"); got != plain {
		t.Fatalf("non-scan errors must pass through unchanged, got %v", got)
	}
}

func Test_ErrorWrap_OffsetFallback_WhenPositionsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrackTokenPositions = false
	tok := WithConfig(cfg)
	mustAdd(t, tok.AddRegexScanner(`[a-z]+`, "Identifier", ""))

	src := "ab\ncd @"
	_, err := tok.Tokenize(src)
	var errs ScanErrors
	if !errors.As(err, &errs) || errs[0].Line != 0 {
		t.Fatalf("expected positionless error, got %v", err)
	}

	// The renderer recomputes 2:4 from the byte offset.
	msg := WrapErrorWithSource(err, src).Error()
	mustContain(t, msg, "SCAN ERROR at 2:4:")
}

func Test_ScanErrors_MultiError_Message(t *testing.T) {
	tok := scanFixture(t)

	_, err := tok.Tokenize("@ $ a")
	var errs ScanErrors
	if !errors.As(err, &errs) || len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", err)
	}
	msg := errs.Error()
	mustContain(t, msg, "2 scan errors:")
	mustContain(t, msg, `unmatched input "@"`)
	mustContain(t, msg, `unmatched input "$"`)
}

func Test_ScanError_SingleError_Message(t *testing.T) {
	e := &ScanError{Kind: UnmatchedInput, Offset: 3, Line: 1, Col: 4, Char: "?"}
	mustContain(t, e.Error(), "SCAN ERROR at 1:4:")

	positionless := &ScanError{Kind: UnmatchedInput, Offset: 3, Char: "?"}
	mustContain(t, positionless.Error(), "SCAN ERROR at offset 3:")
}
