package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/atlas/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: atlas [flags] [location]\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "location opens a shared view, e.g. \"/?region=Europe&sortBy=population\"\n\n")
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Location:   flag.Arg(0),
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "atlas: %v\n", err)
		return 1
	}
	return 0
}
