package ui

import (
	"fmt"
	"io"
	"os"
)

// EnvDebug turns on debug output when set to anything non-empty.
const EnvDebug = "REVIEWGATE_DEBUG"

var (
	// Err receives every message. Hooks run with stdout often discarded, so
	// everything goes to stderr.
	Err io.Writer = os.Stderr

	verbose = os.Getenv(EnvDebug) != ""
)

// SetVerbose enables debug output.
func SetVerbose(v bool) {
	if v {
		verbose = true
	}
}

// DebugEnabled reports whether Debugf prints.
func DebugEnabled() bool {
	return verbose
}

func Debugf(format string, args ...any) {
	if !verbose {
		return
	}
	fmt.Fprintln(Err, RenderMuted("debug: "+fmt.Sprintf(format, args...)))
}

func Warnf(format string, args ...any) {
	fmt.Fprintln(Err, RenderWarn(IconWarn+" Warning: ")+fmt.Sprintf(format, args...))
}

func Infof(format string, args ...any) {
	fmt.Fprintln(Err, RenderMuted(IconSkip+" ")+fmt.Sprintf(format, args...))
}

func Passf(format string, args ...any) {
	fmt.Fprintln(Err, RenderPass(IconPass+" ")+fmt.Sprintf(format, args...))
}

func Failf(format string, args ...any) {
	fmt.Fprintln(Err, RenderFail(IconFail+" ")+fmt.Sprintf(format, args...))
}
