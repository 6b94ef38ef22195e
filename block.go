package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// blockScanner matches a span delimited by an open/close literal pair.
//
// Blocks are long-range matchers: once the open delimiter matches at the
// cursor the scan is committed, and the forward scan below decides where the
// block ends (or that it never does). Nesting depth is handled with an
// explicit counter rather than recursion, so pathological inputs cost O(1)
// extra memory no matter how deep they nest.
type blockScanner struct {
	open          string
	close         string
	typ           string
	sub           string
	allowNesting  bool
	rawMode       bool
	includeDelims bool
}

func (s *blockScanner) tokenType() string    { return s.typ }
func (s *blockScanner) tokenSubType() string { return s.sub }

func (s *blockScanner) matchAt(src string, off int) matchResult {
	if !strings.HasPrefix(src[off:], s.open) {
		return noMatch
	}
	end, ok := s.scanBlock(src, off)
	if !ok {
		return matchResult{unterminated: true}
	}
	value := src[off:end]
	if !s.includeDelims {
		value = src[off+len(s.open) : end-len(s.close)]
	}
	return matchResult{matched: true, end: end, value: value}
}

// scanBlock walks forward from the open delimiter that matched at start and
// returns the exclusive end offset of the whole block. ok is false when the
// input ends before the block closes.
//
// Scanning rules, one logical unit at a time:
//   - non-raw mode: a backslash plus the character after it is one opaque
//     unit that can never match a delimiter, so escaped text cannot
//     terminate (or nest) the block;
//   - raw mode: no escape handling at all, every byte is plain content and
//     the close literal always terminates a level on sight;
//   - with nesting enabled, an inner open literal bumps the depth counter
//     and is consumed as ordinary content; without it the first close
//     literal wins regardless of inner opens.
func (s *blockScanner) scanBlock(src string, start int) (end int, ok bool) {
	i := start + len(s.open)
	depth := 1
	for i < len(src) {
		if !s.rawMode && src[i] == '\\' {
			_, size := utf8.DecodeRuneInString(src[i+1:])
			i += 1 + size // trailing lone backslash consumes only itself
			continue
		}
		if s.allowNesting && strings.HasPrefix(src[i:], s.open) {
			depth++
			i += len(s.open)
			continue
		}
		if strings.HasPrefix(src[i:], s.close) {
			i += len(s.close)
			depth--
			if depth == 0 {
				return i, true
			}
			continue
		}
		_, size := utf8.DecodeRuneInString(src[i:])
		i += size
	}
	return 0, false
}
