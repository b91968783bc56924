package main

import (
	"os"

	"github.com/jsvensson/varnamala/internal/lsp"
	flag "github.com/spf13/pflag"
)

var version = "dev"

func main() {
	verbosity := flag.IntP("verbose", "v", 1, "log verbosity on stderr (0 notices, 1 info, 2 debug)")
	flag.Parse()

	s := lsp.NewServer(version)
	if err := s.Run(*verbosity); err != nil {
		os.Exit(1)
	}
}
