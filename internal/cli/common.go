// Package cli holds the pieces shared by the spark command: version
// reporting, logging, configuration and usage text.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"time"
)

// Version information for the toolchain
const (
	Version   = "0.1.0"
	BuildDate = "2025-08-22"
)

// CommitSHA is set at build time with -ldflags "-X".
var CommitSHA = "unknown"

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns structured version information
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion writes version information as text or JSON.
func PrintVersion(w io.Writer, toolName string, jsonOutput bool) error {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]any{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintf(w, "Spark Language Toolchain v%s\n", info.Version)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	_, err := fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
	return err
}

// Logger provides leveled logging for the CLI. Info lines need Verbose and
// debug lines need DebugMode; warnings and errors are always written.
type Logger struct {
	Verbose   bool
	DebugMode bool

	out io.Writer
	now func() time.Time
}

// NewLogger creates a logger writing to out.
func NewLogger(out io.Writer, verbose, debug bool) *Logger {
	return &Logger{
		Verbose:   verbose,
		DebugMode: debug,
		out:       out,
		now:       time.Now,
	}
}

func (l *Logger) log(level, format string, args ...any) {
	fmt.Fprintf(l.out, "[%s] %s: %s\n", level, l.now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...any) {
	if l.Verbose {
		l.log("INFO", format, args...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	if l.DebugMode {
		l.log("DEBUG", format, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.log("WARN", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.log("ERROR", format, args...)
}

// CommandInfo represents information about a CLI command
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
	Examples    []string
	Flags       []FlagInfo
}

// FlagInfo represents information about a command flag
type FlagInfo struct {
	Name    string
	Usage   string
	Default string
}

// PrintUsage prints the top-level usage message
func PrintUsage(w io.Writer, tool string, commands []CommandInfo) {
	fmt.Fprintf(w, "%s - Spark Language Toolchain\n\n", tool)
	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "    %s <command> [OPTIONS] [FILES]\n\n", tool)

	if len(commands) > 0 {
		fmt.Fprintf(w, "COMMANDS:\n")
		for _, cmd := range commands {
			fmt.Fprintf(w, "    %-10s %s\n", cmd.Name, cmd.Description)
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "Use '%s help <command>' for more information about a command.\n", tool)
}

// PrintCommandUsage prints usage for a specific command
func PrintCommandUsage(w io.Writer, tool string, cmd CommandInfo) {
	fmt.Fprintf(w, "%s %s - %s\n\n", tool, cmd.Name, cmd.Description)
	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "    %s\n\n", cmd.Usage)

	if len(cmd.Flags) > 0 {
		fmt.Fprintf(w, "OPTIONS:\n")
		for _, flag := range cmd.Flags {
			fmt.Fprintf(w, "%-20s %s\n", "    --"+flag.Name, flag.Usage)
			if flag.Default != "" {
				fmt.Fprintf(w, "%-20s Default: %s\n", "", flag.Default)
			}
		}
		fmt.Fprintf(w, "\n")
	}

	if len(cmd.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range cmd.Examples {
			fmt.Fprintf(w, "    %s\n", example)
		}
		fmt.Fprintf(w, "\n")
	}
}

// ValidateArgs validates command line arguments
func ValidateArgs(args []string, minArgs int, usage string) error {
	if len(args) < minArgs {
		return fmt.Errorf("insufficient arguments\nUsage: %s", usage)
	}
	return nil
}
