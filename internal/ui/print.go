// Package ui renders the CLI's status output: styled step banners for the
// deployment pipeline, success/failure lines, and the wait spinner.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Stepf prints a pipeline step banner ("==> message").
func Stepf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", StepStyle.Render("==>"), fmt.Sprintf(format, args...))
}

// Detailf prints a subdued detail line under a step.
func Detailf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "    %s\n", DetailStyle.Render(fmt.Sprintf(format, args...)))
}

// Successf prints a green success line.
func Successf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", IconSuccess, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// Failf prints a red failure line.
func Failf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", IconError, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

// Hintf prints a yellow remediation hint.
func Hintf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", IconWarning, WarningStyle.Render(fmt.Sprintf(format, args...)))
}

// Reff prints an image reference or URL, indented and bold so it stands out
// in the final summary.
func Reff(w io.Writer, ref string) {
	fmt.Fprintf(w, "    %s\n", RefStyle.Render(ref))
}

// NewSpinner returns an indeterminate spinner for long-running waits, such
// as polling a deployment until it settles. Call Finish when done.
func NewSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
}
