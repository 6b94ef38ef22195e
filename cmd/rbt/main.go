package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/peterh/liner"

	tokenizer "github.com/maniartech/rb-tokenizer"
)

const (
	appName     = "rbt"
	historyFile = ".rbt_history"
	promptMain  = "tok> "
)

var banner = fmt.Sprintf("rb-tokenizer %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit, :help for commands.", tokenizer.Version)

const helpText = `
REPL commands:
  :quit     Exit the REPL
  :help     Show this help
  :ws       Toggle whitespace tokens
  :pos      Toggle position tracking
  :debug    Toggle full token dumps
`

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "rules":
		os.Exit(cmdRules(os.Args[2:]))
	case "version":
		fmt.Printf("%s (built %s)\n", tokenizer.Version, tokenizer.BuildDate)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`rb-tokenizer %s (built %s)

Usage:
  %s run [--rules <rules.json>] [--json] [--debug] <file>     Tokenize a file.
  %s repl                                                   Start the interactive REPL.
  %s rules                                                  Print the built-in rule set as JSON.
  %s version                                                Print the compiled version.

`, tokenizer.Version, tokenizer.BuildDate, appName, appName, appName, appName)
}

// defaultRules is the rule set used when no --rules file is given: C-style
// block comments, nesting code blocks, tags, raw strings, identifiers,
// numbers and semicolons.
func defaultRules() *tokenizer.RuleSet {
	incl := true
	return &tokenizer.RuleSet{
		Scanners: []tokenizer.Rule{
			{Kind: "block", Open: "/*", Close: "*/", Type: "Comment", SubType: "BlockComment", IncludeDelimiters: &incl},
			{Kind: "block", Open: "{", Close: "}", Type: "CodeBlock", AllowNesting: true, IncludeDelimiters: &incl},
			{Kind: "block", Open: "<", Close: ">", Type: "Tag", IncludeDelimiters: &incl},
			{Kind: "block", Open: `r"`, Close: `"`, Type: "String", SubType: "RawString", RawMode: true, IncludeDelimiters: &incl},
			{Kind: "regex", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Type: "Identifier"},
			{Kind: "regex", Pattern: `\d+`, Type: "Number"},
			{Kind: "symbol", Literal: ";", Type: "Semicolon"},
		},
	}
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	rulesPath := fs.String("rules", "", "rule-set file (JSON)")
	asJSON := fs.Bool("json", false, "print tokens as JSON")
	debug := fs.Bool("debug", false, "dump tokens with full field detail")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [--rules <rules.json>] [--json] [--debug] <file>\n", appName)
		return 2
	}
	file := fs.Arg(0)

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	tok, err := buildTokenizer(*rulesPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	tokens, err := tok.Tokenize(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, tokenizer.WrapErrorWithName(err, file, string(src)).Error())
		return 1
	}

	switch {
	case *debug:
		spew.Dump(tokens)
	case *asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tokens); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return 1
		}
	default:
		for _, t := range tokens {
			fmt.Println(t.String())
		}
	}
	return 0
}

func buildTokenizer(rulesPath string) (*tokenizer.Tokenizer, error) {
	if rulesPath == "" {
		return defaultRules().Build()
	}
	return tokenizer.LoadRules(rulesPath)
}

// -----------------------------------------------------------------------------
// rules
// -----------------------------------------------------------------------------

func cmdRules(_ []string) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(defaultRules()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

type replState struct {
	rules *tokenizer.RuleSet
	cfg   tokenizer.Config
	debug bool
}

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	st := &replState{
		rules: defaultRules(),
		cfg:   tokenizer.DefaultConfig(),
	}

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := st.command(strings.TrimSpace(line)); quit {
				return 0
			}
			continue
		}

		st.tokenizeLine(line)
	}
}

var replCommands = []string{":quit", ":help", ":ws", ":pos", ":debug"}

// command handles one ":" REPL command; it reports whether to exit.
func (st *replState) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit":
		return true
	case ":help":
		fmt.Print(helpText)
	case ":ws":
		st.cfg.TokenizeWhitespace = !st.cfg.TokenizeWhitespace
		fmt.Printf("whitespace tokens: %v\n", st.cfg.TokenizeWhitespace)
	case ":pos":
		st.cfg.TrackTokenPositions = !st.cfg.TrackTokenPositions
		fmt.Printf("position tracking: %v\n", st.cfg.TrackTokenPositions)
	case ":debug":
		st.debug = !st.debug
		fmt.Printf("debug dumps: %v\n", st.debug)
	default:
		if s := suggestCommand(cmd); s != "" {
			fmt.Printf("unknown command %s. Did you mean %s?\n", cmd, s)
		} else {
			fmt.Printf("unknown command %s. Type :help for commands.\n", cmd)
		}
	}
	return false
}

// suggestCommand fuzzy-ranks the known commands against the typo and returns
// the closest one, or "" when nothing ranks.
func suggestCommand(input string) string {
	best, bestScore := "", -1
	for _, c := range replCommands {
		score := fuzzy.RankMatchNormalizedFold(input, c)
		if score < 0 {
			continue
		}
		if bestScore < 0 || score < bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func (st *replState) tokenizeLine(line string) {
	rs := *st.rules
	cfg := st.cfg
	rs.Config = &cfg
	tok, err := rs.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return
	}

	tokens, err := tok.Tokenize(line)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(tokenizer.WrapErrorWithSource(err, line).Error()))
		// Tokens scanned before/around the failures are still shown below.
	}
	if st.debug {
		spew.Dump(tokens)
		return
	}
	for _, t := range tokens {
		head := t.Type
		if t.SubType != "" {
			head += "/" + t.SubType
		}
		if t.Line > 0 {
			fmt.Printf("%s %s %s\n", blue(fmt.Sprintf("%-24s", head)),
				green(fmt.Sprintf("%d:%-4d", t.Line, t.Col)), fmt.Sprintf("%q", t.Value))
		} else {
			fmt.Printf("%s %s\n", blue(fmt.Sprintf("%-24s", head)), fmt.Sprintf("%q", t.Value))
		}
	}
}
