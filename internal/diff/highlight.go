package diff

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlight writes raw to w with ANSI diff colors. When color is false, or the
// diff cannot be tokenised, raw is written unchanged.
func Highlight(w io.Writer, raw string, color bool) error {
	if !color {
		_, err := io.WriteString(w, raw)
		return err
	}

	lexer := lexers.Get("diff")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, raw)
	if err != nil {
		_, err = io.WriteString(w, raw)
		return err
	}
	return formatter.Format(w, style, iterator)
}
