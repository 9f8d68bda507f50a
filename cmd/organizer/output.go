package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func printSuccess(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(os.Stdout, format+"\n", args...)
}

func printWarning(format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(os.Stderr, format+"\n", args...)
}

func printError(format string, args ...interface{}) {
	_, _ = errorColor.Fprintf(os.Stderr, format+"\n", args...)
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError("marshal output: %v", err)
		return
	}
	fmt.Println(string(data))
}

// stdoutIsTerminal reports whether interactive progress output makes sense.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
