// Package diff talks to git about changed files and parses the diffs it returns.
package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// File is the summary of one file in a diff.
type File struct {
	OldName      string
	NewName      string
	IsNew        bool
	IsDeleted    bool
	IsRenamed    bool
	IsBinary     bool
	AddedLines   int
	DeletedLines int
}

// Name returns the display name for the file.
func (f *File) Name() string {
	if f.IsRenamed {
		return fmt.Sprintf("%s → %s", f.OldName, f.NewName)
	}
	if f.IsDeleted {
		return f.OldName
	}
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}

// Status returns the one-letter git status for the file.
func (f *File) Status() string {
	switch {
	case f.IsNew:
		return "A"
	case f.IsDeleted:
		return "D"
	case f.IsRenamed:
		return "R"
	default:
		return "M"
	}
}

// DiffSet holds the parsed diff for all files.
type DiffSet struct {
	Files []*File
	Raw   string
}

// Stats returns aggregate statistics.
func (ds *DiffSet) Stats() (files, added, deleted int) {
	files = len(ds.Files)
	for _, f := range ds.Files {
		added += f.AddedLines
		deleted += f.DeletedLines
	}
	return
}

// Summary is a one-line description like "3 file(s) changed, +10 -2".
func (ds *DiffSet) Summary() string {
	files, added, deleted := ds.Stats()
	return fmt.Sprintf("%d file(s) changed, +%d -%d", files, added, deleted)
}

// Parse reads a unified diff string and returns a DiffSet.
func Parse(raw string) (*DiffSet, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	ds := &DiffSet{Raw: raw}
	for _, f := range parsed {
		df := &File{
			OldName:   f.OldName,
			NewName:   f.NewName,
			IsNew:     f.IsNew,
			IsDeleted: f.IsDelete,
			IsRenamed: f.IsRename,
			IsBinary:  f.IsBinary,
		}
		for _, frag := range f.TextFragments {
			df.AddedLines += int(frag.LinesAdded)
			df.DeletedLines += int(frag.LinesDeleted)
		}
		ds.Files = append(ds.Files, df)
	}

	return ds, nil
}
