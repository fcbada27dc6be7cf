package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arsenal-toolkit/cmd"
	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/logger"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadFrom(configFlag(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger with the run log attached
	var sink io.Writer
	log, logFile, err := logger.NewWithFile(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log = logger.New(cfg.LogLevel, cfg.LogFormat)
		log.Warn("Run log unavailable, logging to console only",
			"path", cfg.LogFile,
			"error", err)
	} else {
		sink = logFile
		defer logFile.Close()
	}

	// Execute command
	if err := cmd.Execute(cfg, log, sink); err != nil {
		log.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// configFlag extracts the --config value from raw arguments. The
// configuration must load before cobra parses flags, because commands
// receive it already built.
func configFlag(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
