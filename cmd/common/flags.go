package common

import (
	"flag"
	"fmt"
	"os"
)

// CommonFlags contains flags that are shared across commands
type CommonFlags struct {
	EnvFile  *string
	LogLevel *string
	Version  *bool
}

// RegisterCommonFlags registers common flags with the default flag set
func RegisterCommonFlags() *CommonFlags {
	return &CommonFlags{
		EnvFile:  flag.String("env", ".env", "Environment file path"),
		LogLevel: flag.String("log-level", "", "Override LOG_LEVEL (debug, info, warn, error)"),
		Version:  flag.Bool("version", false, "Show version information"),
	}
}

// HandleVersion prints the version and exits when -version was given
func (f *CommonFlags) HandleVersion(appName string) {
	if *f.Version {
		PrintVersion(appName)
		os.Exit(0)
	}
}

// Fatalf prints an error to stderr and exits with status 1
func Fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "❌ "+format+"\n", args...)
	os.Exit(1)
}
