package gate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aezell/reviewgate/internal/config"
	"github.com/aezell/reviewgate/internal/model"
)

// LogName is the review history file inside the .reviewgate directory.
const LogName = "review.log"

// Entry is one reviewed hook run.
type Entry struct {
	Time     time.Time
	Hook     model.HookName
	Files    []string
	Summary  string
	Outcome  string
	ExitCode int
	Decision string
	Output   string
}

// Recorder keeps the review history.
type Recorder interface {
	Record(e Entry) error
}

// FileLog appends entries to a plain text log.
type FileLog struct {
	Path string
}

// NewFileLog returns the log for the repository at root.
func NewFileLog(root string) *FileLog {
	return &FileLog{Path: filepath.Join(root, config.DirName, LogName)}
}

// Record appends e, creating the file and its directory when needed.
func (l *FileLog) Record(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening review log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatEntry(e)); err != nil {
		return fmt.Errorf("writing review log: %w", err)
	}
	return nil
}

func formatEntry(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] hook=%s outcome=%s exit=%d decision=%s\n",
		e.Time.Format("2006-01-02 15:04:05"), e.Hook, e.Outcome, e.ExitCode, e.Decision)
	if e.Summary != "" {
		fmt.Fprintf(&b, "%s\n", e.Summary)
	}
	for _, f := range e.Files {
		fmt.Fprintf(&b, "  %s\n", f)
	}
	if out := strings.TrimRight(e.Output, "\n"); out != "" {
		b.WriteString(out)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}
