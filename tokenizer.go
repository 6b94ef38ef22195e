// Package tokenizer is a configurable lexical-analysis engine. Callers
// register an ordered list of scanning rules (anchored regexes, exact
// symbols, and open/close delimited blocks) and feed it raw text; the engine
// returns the token stream, or the full set of scan diagnostics when the
// input contains spans no rule can classify.
//
// The engine is a front-end building block for parsers, highlighters and
// structured-text tools. It owns no grammar and builds no trees: a token is
// a classified span of the input, nothing more.
package tokenizer

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Config is the immutable per-run configuration snapshot. The JSON tags
// match the rule-set file format in rules.go.
type Config struct {
	// TokenizeWhitespace emits whitespace runs as "Whitespace" tokens
	// instead of silently skipping them.
	TokenizeWhitespace bool `json:"tokenizeWhitespace"`

	// ContinueOnError keeps scanning after a failure so one pass collects
	// as many diagnostics as possible.
	ContinueOnError bool `json:"continueOnError"`

	// ErrorToleranceLimit is the number of diagnostics tolerated before a
	// run is force-aborted; it bounds how much diagnostic information is
	// gathered, not whether an errored run counts as successful.
	ErrorToleranceLimit int `json:"errorToleranceLimit"`

	// TrackTokenPositions maintains 1-based line/column per token. Turning
	// it off skips position bookkeeping entirely; tokens and errors then
	// carry zero Line/Col (offsets are always available).
	TrackTokenPositions bool `json:"trackTokenPositions"`
}

// DefaultConfig mirrors the defaults a fresh engine starts with.
func DefaultConfig() Config {
	return Config{
		TokenizeWhitespace:  true,
		ContinueOnError:     true,
		ErrorToleranceLimit: 10,
		TrackTokenPositions: true,
	}
}

// Tokenizer holds the configuration and the ordered scanner registry.
//
// Scanners are registered up front and the registry is read-only during a
// Tokenize call, so one Tokenizer may serve concurrent Tokenize calls on
// different inputs; all mutable scan state is local to a call.
type Tokenizer struct {
	cfg      Config
	scanners []scanner
}

// New returns a Tokenizer with DefaultConfig and an empty registry.
func New() *Tokenizer {
	return WithConfig(DefaultConfig())
}

// WithConfig returns a Tokenizer using the given configuration snapshot.
func WithConfig(cfg Config) *Tokenizer {
	return &Tokenizer{cfg: cfg}
}

// Config returns the configuration the tokenizer was built with.
func (t *Tokenizer) Config() Config { return t.cfg }

// ScannerCount reports how many definitions are registered.
func (t *Tokenizer) ScannerCount() int { return len(t.scanners) }

// AddRegexScanner registers a pattern anchored to the current scan position.
// The pattern is compiled eagerly; a pattern that cannot compile is a
// registration error, never a scan-time failure.
func (t *Tokenizer) AddRegexScanner(pattern, tokenType, subType string) error {
	if err := checkTokenType(tokenType); err != nil {
		return err
	}
	re, err := compileAnchored(pattern)
	if err != nil {
		return fmt.Errorf("tokenizer: invalid pattern %q: %w", pattern, err)
	}
	t.scanners = append(t.scanners, &regexScanner{re: re, typ: tokenType, sub: subType})
	return nil
}

// AddSymbolScanner registers an exact literal.
func (t *Tokenizer) AddSymbolScanner(literal, tokenType, subType string) error {
	if err := checkTokenType(tokenType); err != nil {
		return err
	}
	if literal == "" {
		return errors.New("tokenizer: symbol literal must not be empty")
	}
	t.scanners = append(t.scanners, &symbolScanner{literal: literal, typ: tokenType, sub: subType})
	return nil
}

// AddBlockScanner registers an open/close delimited block. allowNesting
// makes inner open delimiters raise the nesting level; rawMode disables all
// escape interpretation inside the block; includeDelims keeps the delimiter
// literals in the token value.
func (t *Tokenizer) AddBlockScanner(open, close, tokenType, subType string, allowNesting, rawMode, includeDelims bool) error {
	if err := checkTokenType(tokenType); err != nil {
		return err
	}
	if open == "" || close == "" {
		return errors.New("tokenizer: block delimiters must not be empty")
	}
	t.scanners = append(t.scanners, &blockScanner{
		open:          open,
		close:         close,
		typ:           tokenType,
		sub:           subType,
		allowNesting:  allowNesting,
		rawMode:       rawMode,
		includeDelims: includeDelims,
	})
	return nil
}

func checkTokenType(tokenType string) error {
	if tokenType == "" {
		return errors.New("tokenizer: token type must not be empty")
	}
	return nil
}

// WhitespaceType is the token type of whitespace runs when
// Config.TokenizeWhitespace is enabled. Whitespace is a built-in rule tried
// before the registry; it carries no sub-type.
const WhitespaceType = "Whitespace"

// Tokenize scans input and returns the token stream. The returned error,
// when non-nil, is always a non-empty ScanErrors: the run is reported as
// failed whenever any diagnostic was recorded, even if ContinueOnError let
// the scan reach the end of the input.
func (t *Tokenizer) Tokenize(input string) ([]Token, error) {
	c := cursor{src: input, line: 1, col: 1, track: t.cfg.TrackTokenPositions}
	var tokens []Token
	var errs ScanErrors

	// record appends a diagnostic and reports whether scanning may go on.
	record := func(e *ScanError) bool {
		errs = append(errs, e)
		if !t.cfg.ContinueOnError {
			return false
		}
		return len(errs) <= t.cfg.ErrorToleranceLimit
	}

scan:
	for !c.atEnd() {
		if n := whitespaceRun(input, c.off); n > 0 {
			if t.cfg.TokenizeWhitespace {
				tokens = append(tokens, c.token(WhitespaceType, "", input[c.off:c.off+n]))
			}
			c.advance(n)
			continue
		}

		matched := false
		for _, s := range t.scanners {
			res := s.matchAt(input, c.off)
			if res.unterminated {
				// The open delimiter committed the scan; the block
				// swallows the rest of the input either way.
				b := s.(*blockScanner)
				line, col := c.pos()
				abort := !record(&ScanError{
					Kind:      UnterminatedBlock,
					Offset:    c.off,
					Line:      line,
					Col:       col,
					Open:      b.open,
					Close:     b.close,
					TokenType: b.typ,
				})
				c.advance(len(input) - c.off)
				if abort {
					break scan
				}
				matched = true
				break
			}
			if res.matched {
				tokens = append(tokens, c.token(s.tokenType(), s.tokenSubType(), res.value))
				c.advance(res.end - c.off)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		r, size := utf8.DecodeRuneInString(input[c.off:])
		line, col := c.pos()
		abort := !record(&ScanError{
			Kind:   UnmatchedInput,
			Offset: c.off,
			Line:   line,
			Col:    col,
			Char:   string(r),
		})
		c.advance(size)
		if abort {
			break
		}
	}

	if len(errs) > 0 {
		return tokens, errs
	}
	return tokens, nil
}

// whitespaceRun returns the byte length of the maximal whitespace run
// starting at off, zero when the character there is not whitespace.
func whitespaceRun(src string, off int) int {
	i := off
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i - off
}

// cursor is the scan position threaded through the dispatch loop. Line and
// column are maintained incrementally while advancing so no per-token
// re-scan of the input is ever needed; when track is false the bookkeeping
// is skipped entirely.
type cursor struct {
	src   string
	off   int
	line  int // 1-based
	col   int // 1-based, in runes
	track bool
}

func (c *cursor) atEnd() bool { return c.off >= len(c.src) }

// pos reports the current 1-based position, or zeros when tracking is off.
func (c *cursor) pos() (line, col int) {
	if !c.track {
		return 0, 0
	}
	return c.line, c.col
}

// token stamps a token with the cursor's current position.
func (c *cursor) token(typ, sub, value string) Token {
	tok := Token{Type: typ, SubType: sub, Value: value, Offset: c.off}
	if c.track {
		tok.Line = c.line
		tok.Col = c.col
	}
	return tok
}

// advance moves the cursor n bytes forward. Newlines bump the line counter
// and reset the column to 1.
func (c *cursor) advance(n int) {
	if !c.track {
		c.off += n
		return
	}
	end := c.off + n
	for _, r := range c.src[c.off:end] {
		if r == '\n' {
			c.line++
			c.col = 1
		} else {
			c.col++
		}
	}
	c.off = end
}
