package main

import (
	"akd/internal/di"
	"akd/internal/structures"
	"flag"
	"fmt"
	"os"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable the debug API surface")
	flag.Parse()

	_, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "akd: %s\n", err)
		os.Exit(1)
	}
}
