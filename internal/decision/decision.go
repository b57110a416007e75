// Package decision asks the operator whether a commit or push may go ahead.
package decision

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Decision is the gate's verdict. The zero value is Abort, so anything that
// fails to produce an answer blocks the operation.
type Decision int

const (
	Abort Decision = iota
	Proceed
)

func (d Decision) String() string {
	if d == Proceed {
		return "proceed"
	}
	return "abort"
}

// ExitCode is the hook's process exit status: 0 lets git continue.
func (d Decision) ExitCode() int {
	if d == Proceed {
		return 0
	}
	return 1
}

// Prompter reads one keypress from In and writes the question to Out.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// Ask shows question and waits up to timeout for a single character. Only
// y or Y proceeds; any other key, EOF, a timeout, or a cancelled ctx aborts.
// A non-interactive session aborts without reading.
func (p Prompter) Ask(ctx context.Context, question string, timeout time.Duration, interactive bool) Decision {
	if !interactive || p.In == nil {
		return Abort
	}
	if timeout <= 0 {
		return Abort
	}

	out := p.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintf(out, "%s [y/N] (%ds) ", question, int(timeout.Round(time.Second)/time.Second))

	newline := "\n"
	if f, ok := p.In.(*os.File); ok {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			if oldState, err := term.MakeRaw(fd); err == nil {
				defer func() { _ = term.Restore(fd, oldState) }()
				newline = "\r\n"
			}
		}
	}

	key := make(chan byte, 1)
	go func() {
		buf := make([]byte, 1)
		n, _ := p.In.Read(buf)
		if n == 0 {
			close(key)
			return
		}
		key <- buf[0]
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case b, ok := <-key:
		if ok {
			fmt.Fprintf(out, "%c%s", printable(b), newline)
		} else {
			fmt.Fprint(out, newline)
		}
		if ok && (b == 'y' || b == 'Y') {
			return Proceed
		}
		return Abort
	case <-timer.C:
		fmt.Fprintf(out, "%stimed out%s", newline, newline)
		return Abort
	case <-ctx.Done():
		fmt.Fprint(out, newline)
		return Abort
	}
}

func printable(b byte) byte {
	if b < 0x20 || b == 0x7f {
		return ' '
	}
	return b
}

// Interactive reports whether in is a terminal an operator can answer from.
// A set CI variable always means no.
func Interactive(in *os.File) bool {
	if os.Getenv("CI") != "" {
		return false
	}
	return in != nil && term.IsTerminal(int(in.Fd()))
}

// OpenTTY opens the controlling terminal. Git hooks often run with stdin
// redirected (pre-push reads refs from it), so the answer comes from here.
func OpenTTY() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}
