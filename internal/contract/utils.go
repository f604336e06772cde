package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/clearance/schema"
)

// Color variables for console output.
var (
	ConfirmedColor = color.New(color.FgGreen, color.Bold) // human decision backed by agent findings
	ManualColor    = color.New(color.FgCyan, color.Bold)  // human decision without agent findings
	DetectedColor  = color.New(color.FgYellow)            // agent findings still awaiting a person
	RemovedColor   = color.New(color.FgRed)               // findings a person removed
)

// GetColorLabel returns a colored status label for console output (table).
func GetColorLabel(status string) string {
	switch status {
	case schema.StatusConfirmed:
		return ConfirmedColor.Sprint(status)
	case schema.StatusManual:
		return ManualColor.Sprint(status)
	case schema.StatusRemoved:
		return RemovedColor.Sprint(status)
	default: // "Detected"
		return DetectedColor.Sprint(status)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for the clearing store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".clearance.db"
	}
	return filepath.Join(homeDir, ".clearance.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseItemID parses a positional upload tree item id.
func ParseItemID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q: %w", s, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("item id must be greater than 0 (received %d)", id)
	}
	return id, nil
}
