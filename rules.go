// rules.go: declarative rule-set files.
//
// A rule set is a JSON document describing a tokenizer: an optional config
// block plus an ordered list of scanner entries. Order in the file is
// registration order, so it carries the same precedence meaning as calling
// the Add*Scanner methods in sequence.
//
//	{
//	  "config": {
//	    "tokenizeWhitespace": true,
//	    "continueOnError": true,
//	    "errorToleranceLimit": 5,
//	    "trackTokenPositions": true
//	  },
//	  "scanners": [
//	    {"kind": "block", "open": "/*", "close": "*/",
//	     "type": "Comment", "subType": "BlockComment"},
//	    {"kind": "regex", "pattern": "[a-zA-Z_][a-zA-Z0-9_]*", "type": "Identifier"},
//	    {"kind": "symbol", "literal": ";", "type": "Semicolon"}
//	  ]
//	}
//
// Block entries default to includeDelimiters=true (matching the common case
// of wanting the exact input span back); the other block flags default off.
package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Rule is one scanner entry of a rule-set file. Kind selects the variant
// ("regex", "symbol" or "block") and decides which fields apply.
type Rule struct {
	Kind    string `json:"kind"`
	Type    string `json:"type"`
	SubType string `json:"subType,omitempty"`

	// regex
	Pattern string `json:"pattern,omitempty"`

	// symbol
	Literal string `json:"literal,omitempty"`

	// block
	Open              string `json:"open,omitempty"`
	Close             string `json:"close,omitempty"`
	AllowNesting      bool   `json:"allowNesting,omitempty"`
	RawMode           bool   `json:"rawMode,omitempty"`
	IncludeDelimiters *bool  `json:"includeDelimiters,omitempty"`
}

// RuleSet is a parsed rule-set file. A nil Config means DefaultConfig.
type RuleSet struct {
	Config   *Config `json:"config,omitempty"`
	Scanners []Rule  `json:"scanners"`
}

// Build constructs a Tokenizer from the rule set, registering scanners in
// file order. Any invalid entry fails the whole build; partial registries
// are never returned.
func (rs *RuleSet) Build() (*Tokenizer, error) {
	cfg := DefaultConfig()
	if rs.Config != nil {
		cfg = *rs.Config
	}
	t := WithConfig(cfg)
	for i, r := range rs.Scanners {
		var err error
		switch r.Kind {
		case "regex":
			err = t.AddRegexScanner(r.Pattern, r.Type, r.SubType)
		case "symbol":
			err = t.AddSymbolScanner(r.Literal, r.Type, r.SubType)
		case "block":
			include := true
			if r.IncludeDelimiters != nil {
				include = *r.IncludeDelimiters
			}
			err = t.AddBlockScanner(r.Open, r.Close, r.Type, r.SubType,
				r.AllowNesting, r.RawMode, include)
		default:
			err = fmt.Errorf("tokenizer: unknown scanner kind %q", r.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return t, nil
}

// ParseRules decodes a rule-set document and builds the tokenizer it
// describes.
func ParseRules(data []byte) (*Tokenizer, error) {
	var rs RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("tokenizer: invalid rule set: %w", err)
	}
	if len(rs.Scanners) == 0 {
		return nil, errors.New("tokenizer: rule set has no scanners")
	}
	return rs.Build()
}

// LoadRules reads and builds a rule-set file.
func LoadRules(path string) (*Tokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}
