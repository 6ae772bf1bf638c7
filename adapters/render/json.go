package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"godescribe/domain/core"
	"godescribe/domain/stats/describe"
	"godescribe/internal/errors"
)

// JSON writes the report in its ordered wire form
func JSON(w io.Writer, report *describe.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Format names an output format accepted by Write
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Write dispatches on format
func Write(w io.Writer, report *describe.Report, format Format) error {
	switch format {
	case FormatText, "":
		return Text(w, report)
	case FormatJSON:
		return JSON(w, report)
	case FormatMarkdown:
		_, err := w.Write(Markdown(report))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(report))
		return err
	default:
		return errUnknownFormat(format)
	}
}

// ParseFormat accepts a format name case-insensitively
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", errUnknownFormat(f)
	}
}

func errUnknownFormat(f Format) error {
	return errors.WithCode(errors.CodeInvalidInput,
		fmt.Errorf("%w: format %q (want text, json, markdown or html)", core.ErrInvalidArgument, f))
}
