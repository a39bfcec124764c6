// Package logging routes mprviewer log output to stdout or a rotating log file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/natefinch/lumberjack"

	"mprviewer/pkg/config"
)

var (
	verbose bool
	rotator *lumberjack.Logger

	// console receives errors when log messages go to a file
	console io.Writer = os.Stderr
)

// Setup applies the output section of the configuration.
// When no log file is configured, messages go to stderr.
func Setup(cfg *config.Config) {
	verbose = cfg.Output.Verbose
	if cfg.Output.LogFile == "" {
		log.SetOutput(os.Stderr)
		return
	}
	fmt.Printf("Sending log messages to: %s\n", cfg.Output.LogFile)
	rotator = &lumberjack.Logger{
		Filename: cfg.Output.LogFile,
		MaxSize:  cfg.Output.MaxLogSize, // megabytes
		MaxAge:   cfg.Output.MaxLogAge,  // days
	}
	log.SetOutput(rotator)
}

// SetOutput redirects log output, mainly for tests
func SetOutput(w io.Writer, v bool) {
	verbose = v
	log.SetOutput(w)
}

// Debugf logs at DEBUG level, only in verbose mode
func Debugf(format string, args ...interface{}) {
	if verbose {
		log.Printf(" DEBUG "+format, args...)
	}
}

// Infof logs at INFO level
func Infof(format string, args ...interface{}) {
	log.Printf(" INFO "+format, args...)
}

// Warningf logs at WARNING level
func Warningf(format string, args ...interface{}) {
	log.Printf(" WARNING "+format, args...)
}

// Errorf logs at ERROR level. With a log file configured the message is
// also printed to the console.
func Errorf(format string, args ...interface{}) {
	log.Printf(" ERROR "+format, args...)
	if rotator != nil {
		fmt.Fprintf(console, "Error: "+format+"\n", args...)
	}
}

// Shutdown closes the log file, if any
func Shutdown() {
	if rotator != nil {
		rotator.Close()
		rotator = nil
		log.SetOutput(os.Stderr)
	}
}
