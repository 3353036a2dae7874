package main

import (
	"flag"
	"fmt"
	"os"
	"sitestats/internal/di"
	"sitestats/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "c", "config/sitestats.yaml", "path to the yaml config file")
	flag.BoolVar(&flags.DebugMode, "d", false, "mirror logs to stdout")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "sitestats: %s\n", err)
		os.Exit(1)
	}
}
