package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom/layout"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	layoutPath string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "romctl",
	Short: "Inspect free space and pointers in ROM images",
	Long: `romctl inspects and rebuilds ROM images using a layout that declares
free ranges and pointer references. Without --layout the embedded EarthBound
layout is used.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Options{
			Enabled: verbose,
			File:    logFile,
			Level:   slog.LevelDebug,
		})
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&layoutPath, "layout", "", "Layout YAML file (default: embedded EarthBound layout)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write debug logs as JSON to this file instead of stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadLayout returns the --layout file or the embedded default.
func loadLayout() (*layout.Layout, error) {
	if layoutPath == "" {
		return layout.Default()
	}
	return layout.LoadFile(layoutPath)
}

// parseNumber accepts decimal, 0x, 0o and 0b forms, plus a leading '$' for hex.
func parseNumber(s string) (int, error) {
	if len(s) > 1 && s[0] == '$' {
		s = "0x" + s[1:]
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return int(v), nil
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
