package tokenizer

// Version and BuildDate identify the library build; the CLI prints both.
// BuildDate is meant to be stamped at link time:
//
//	go build -ldflags "-X github.com/maniartech/rb-tokenizer.BuildDate=..."
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)
