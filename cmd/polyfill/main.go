package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tomz197/polyfill/internal/config"
	"github.com/tomz197/polyfill/internal/loop"
	"golang.org/x/term"
)

func main() {
	configPath := flag.String("config", config.GetEnv("POLYFILL_CONFIG", ""), "path to a TOML settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}

	// Stderr shares the screen with the canvas, so logs only go to a file.
	logger, closeLog, err := settings.NewLogger("polyfill", io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	logger.Info("starting", "config", *configPath, "profile", settings.ColorProfile)

	reader := bufio.NewReader(os.Stdin)
	if err := loop.Run(reader, os.Stdout, loop.Options{
		Settings: settings,
		Logger:   logger,
		Username: os.Getenv("USER"),
	}); err != nil {
		_ = term.Restore(fd, oldState)
		logger.Error("editor stopped", "err", err)
		fmt.Fprintf(os.Stderr, "editor error: %v\n", err)
		os.Exit(1)
	}
}
