// Package output renders command results for terminals and machines.
//
// In auto mode a terminal gets styled text and anything else gets plain
// text. JSON and YAML modes emit a single document per command.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
)

// Modes lists the accepted values of the output setting.
var Modes = []string{string(ModeAuto), string(ModeText), string(ModeJSON), string(ModeYAML)}

// ParseMode validates s as an output mode. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeText, ModeJSON, ModeYAML:
		return m, nil
	default:
		return "", fmt.Errorf("invalid output format %q (want one of %s)", s, strings.Join(Modes, ", "))
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer. Auto mode resolves to styled text when out
// is a terminal and to plain text otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	styled := false
	if mode == ModeAuto || mode == "" {
		styled = isTerminal(out)
		mode = ModeText
	}

	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		styles: newStyles(styled),
	}
}

// Mode returns the effective output mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Structured reports whether output is a machine-readable document.
func (r *Renderer) Structured() bool {
	return r.mode == ModeJSON || r.mode == ModeYAML
}

// Styles returns the text styles for this renderer.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Println writes a line to the output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a styled heading.
func (r *Renderer) Header(level int, text string) {
	style := r.styles.Header1
	if level > 1 {
		style = r.styles.Header2
	}
	r.Println(style.Render(text))
}

// KeyValue writes a "key: value" line.
func (r *Renderer) KeyValue(key string, value any) {
	r.Printf("  %s: %v\n", r.styles.Bold.Render(key), value)
}

// Warning writes a warning to the error stream.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("Warning: "+msg))
}

// Document writes v as JSON or YAML according to the mode.
func (r *Renderer) Document(v any) error {
	if r.mode == ModeYAML {
		return r.YAML(v)
	}
	return r.JSON(v)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}
