// Package ui provides message printing utilities.
package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	quietMode bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetQuietMode suppresses informational output. Warnings and errors are
// still printed.
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// IsQuietMode reports whether informational output is suppressed.
func IsQuietMode() bool {
	return quietMode
}

// SetOutput redirects message output. Nil writers leave the current one.
//
// Parameters:
//   - out: Destination for informational messages
//   - errOut: Destination for warnings and errors
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Println prints an empty line.
func Println() {
	if quietMode {
		return
	}
	fmt.Fprintln(stdout)
}

// PrintSuccess prints a success message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintSuccess(format string, args ...interface{}) {
	if quietMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, SuccessStyle.Render("✓ "+msg))
}

// PrintError prints an error message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stderr, ErrorStyle.Render("✗ "+msg))
}

// PrintWarning prints a warning message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stderr, WarningStyle.Render("⚠ "+msg))
}

// PrintInfo prints an informational message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintInfo(format string, args ...interface{}) {
	if quietMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, InfoStyle.Render(msg))
}

// PrintDim prints a dimmed message.
//
// Parameters:
//   - format: Printf format string
//   - args: Printf arguments
func PrintDim(format string, args ...interface{}) {
	if quietMode {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, DimStyle.Render(msg))
}

// PrintCommand prints a shell command the user can copy.
func PrintCommand(label, command string) {
	if quietMode {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", DimStyle.Render(label+":"), CodeStyle.Render(command))
}
