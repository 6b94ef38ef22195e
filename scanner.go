package tokenizer

import (
	"regexp"
	"strings"
)

// scanner is one registered definition: regex, symbol or block. The registry
// holds scanners in registration order and that order is the only precedence
// rule — the first definition whose start condition matches at the cursor
// wins, regardless of span length.
type scanner interface {
	tokenType() string
	tokenSubType() string

	// matchAt attempts an anchored match at off. On success the result
	// carries the exclusive end offset of the consumed span and the token
	// value. A block scanner whose open delimiter matched but whose close
	// delimiter never arrived reports unterminated instead of a match.
	matchAt(src string, off int) matchResult
}

type matchResult struct {
	matched      bool
	unterminated bool
	end          int    // exclusive end of the consumed span
	value        string // token text, delimiters already applied
}

var noMatch = matchResult{}

// ----- regex -----

type regexScanner struct {
	re  *regexp.Regexp
	typ string
	sub string
}

// compileAnchored wraps the caller's pattern so it can only match at the
// start of the remaining input. A caller-supplied leading "^" is harmless
// inside the group since the engine never enables multi-line mode.
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + pattern + `)`)
}

func (s *regexScanner) tokenType() string    { return s.typ }
func (s *regexScanner) tokenSubType() string { return s.sub }

func (s *regexScanner) matchAt(src string, off int) matchResult {
	loc := s.re.FindStringIndex(src[off:])
	if loc == nil || loc[1] == 0 {
		// A zero-length match would stall the dispatch loop; treat it
		// as no match.
		return noMatch
	}
	return matchResult{
		matched: true,
		end:     off + loc[1],
		value:   src[off : off+loc[1]],
	}
}

// ----- symbol -----

type symbolScanner struct {
	literal string
	typ     string
	sub     string
}

func (s *symbolScanner) tokenType() string    { return s.typ }
func (s *symbolScanner) tokenSubType() string { return s.sub }

func (s *symbolScanner) matchAt(src string, off int) matchResult {
	if !strings.HasPrefix(src[off:], s.literal) {
		return noMatch
	}
	return matchResult{
		matched: true,
		end:     off + len(s.literal),
		value:   s.literal,
	}
}
