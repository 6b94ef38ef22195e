// block_test.go
package tokenizer

import (
	"errors"
	"strings"
	"testing"
)

func Test_Block_DeepNesting_SingleToken(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner("{", "}", "CodeBlock", "", true, false, true))

	src := strings.Repeat("{", 40) + "x" + strings.Repeat("}", 40)
	got := wantTokenTypes(t, tok, src, []string{"CodeBlock"})
	if got[0].Value != src {
		t.Fatalf("deeply nested block should be one token spanning the input")
	}
}

func Test_Block_MultiCharDelimiters_Nested(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner("/*", "*/", "Comment", "", true, false, true))

	src := "/* a /* b */ c */"
	got := wantTokenTypes(t, tok, src, []string{"Comment"})
	if got[0].Value != src {
		t.Fatalf("nested multi-char delimiters:\nwant %q\ngot  %q", src, got[0].Value)
	}
}

func Test_Block_NoNesting_FirstCloseWins(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner("{", "}", "CodeBlock", "", false, false, true))

	// The inner "{" is ordinary content; the first "}" terminates.
	got := wantTokenTypes(t, tok, "{ a { b } ", []string{"CodeBlock", "Whitespace"})
	if got[0].Value != "{ a { b }" {
		t.Fatalf("non-nesting block value: %q", got[0].Value)
	}
}

func Test_Block_NonRaw_EscapeProtectsDelimiter(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner(`"`, `"`, "String", "", false, false, true))

	src := `"a\"b"`
	got := wantTokenTypes(t, tok, src, []string{"String"})
	if got[0].Value != src {
		t.Fatalf("escaped close delimiter must not terminate the block:\nwant %q\ngot  %q", src, got[0].Value)
	}
}

func Test_Block_RawMode_BackslashIsPlainContent(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner(`r"`, `"`, "String", "RawString", false, true, true))
	mustAdd(t, tok.AddSymbolScanner(";", "Semicolon", ""))

	// In raw mode the backslash does not protect the quote: the block ends
	// at the first close delimiter.
	got := wantTokenTypes(t, tok, `r"a\";`, []string{"String", "Semicolon"})
	if got[0].Value != `r"a\"` {
		t.Fatalf("raw block value: %q", got[0].Value)
	}
}

func Test_Block_EmptyBody(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner("{", "}", "CodeBlock", "", true, false, true))

	got := wantTokenTypes(t, tok, "{}", []string{"CodeBlock"})
	if got[0].Value != "{}" {
		t.Fatalf("empty block value: %q", got[0].Value)
	}
}

func Test_Block_ExcludedDelimiters_MultiChar(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner("<<", ">>", "Quote", "", false, false, false))

	got := wantTokenTypes(t, tok, "<<hello>>", []string{"Quote"})
	if got[0].Value != "hello" {
		t.Fatalf("exactly the open and close literals must be stripped: %q", got[0].Value)
	}
}

func Test_Block_Unterminated_Nested_ReferencesOuterOpen(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner("{", "}", "CodeBlock", "", true, false, true))
	mustAdd(t, tok.AddRegexScanner(`[a-z]+`, "Identifier", ""))

	tokens, err := tok.Tokenize("pad { a { b }")
	var errs ScanErrors
	if !errors.As(err, &errs) || len(errs) != 1 {
		t.Fatalf("expected one error, got %v", err)
	}
	e := errs[0]
	if e.Kind != UnterminatedBlock {
		t.Fatalf("want UnterminatedBlock, got %v", e.Kind)
	}
	// Offset 4 is the outer "{" that never closed, not the inner one.
	if e.Offset != 4 || e.Col != 5 {
		t.Fatalf("error must reference the outer open delimiter: offset=%d col=%d", e.Offset, e.Col)
	}
	got := tokenTypes(tokens)
	want := []string{"Identifier", "Whitespace"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("tokens before the failure should be kept, got %v", got)
	}
}

func Test_Block_TrailingLoneBackslash_NonRaw(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner(`"`, `"`, "String", "", false, false, true))

	// A lone backslash at end of input cannot hide a delimiter that is not
	// there; the block is simply unterminated.
	_, err := tok.Tokenize(`"abc\`)
	var errs ScanErrors
	if !errors.As(err, &errs) || len(errs) != 1 || errs[0].Kind != UnterminatedBlock {
		t.Fatalf("expected unterminated block, got %v", err)
	}
}

func Test_Block_OpenEqualsClose_NonNesting(t *testing.T) {
	tok := New()
	mustAdd(t, tok.AddBlockScanner("'", "'", "String", "", false, false, true))
	mustAdd(t, tok.AddRegexScanner(`[a-z]+`, "Identifier", ""))

	got := wantTokenTypes(t, tok, "'a' b 'c'",
		[]string{"String", "Whitespace", "Identifier", "Whitespace", "String"})
	if got[0].Value != "'a'" || got[4].Value != "'c'" {
		t.Fatalf("quote pairing wrong: %q %q", got[0].Value, got[4].Value)
	}
}
