// Package output renders CLI status output for terminals, pipes, and
// machine consumers.
//
// Output adapts to environment: a terminal gets styled text, a pipe gets
// markdown, and --output json emits structured documents only.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode selects how status output is rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists the accepted --output values.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}
}

// Renderer writes status output in the effective mode.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   Mode
	isTTY  bool
	Styles Styles
}

// NewRenderer creates a renderer, detecting whether w is a terminal.
func NewRenderer(w, errW io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(w, errW, isTerminal(w), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(w, errW io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	styles := PlainStyles()
	if isTTY {
		styles = DefaultStyles()
	}
	return &Renderer{w: w, errW: errW, mode: mode, isTTY: isTTY, Styles: styles}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() Mode {
	switch r.mode {
	case ModeText, ModeMarkdown, ModeJSON:
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

func (r *Renderer) quiet() bool { return r.EffectiveMode() == ModeJSON }

// Println writes a line unless the mode is JSON.
func (r *Renderer) Println(a ...any) {
	if r.quiet() {
		return
	}
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted text unless the mode is JSON.
func (r *Renderer) Printf(format string, a ...any) {
	if r.quiet() {
		return
	}
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return
	case ModeMarkdown:
		r.Println(FormatHeader(level, text))
	default:
		r.Println(r.Styles.Header.Render(text))
	}
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.message("✓", r.Styles.Success.Render(msg), msg)
}

// Warning writes a warning message to the diagnostic writer.
func (r *Renderer) Warning(msg string) {
	if r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.errW, r.Styles.Warning.Render("! "+msg))
		return
	}
	_, _ = fmt.Fprintln(r.errW, "Warning: "+msg)
}

// Muted writes secondary text.
func (r *Renderer) Muted(msg string) {
	r.message("", r.Styles.Muted.Render(msg), msg)
}

func (r *Renderer) message(icon, styled, plain string) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return
	case ModeMarkdown:
		r.Println(plain)
	default:
		if icon != "" {
			styled = icon + " " + styled
		}
		r.Println(styled)
	}
}

// StatusLine writes one item with its status: success, skipped, or failed.
func (r *Renderer) StatusLine(name, status, detail string) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return
	case ModeMarkdown:
		line := fmt.Sprintf("- %s: %s", name, status)
		if detail != "" {
			line += " (" + detail + ")"
		}
		r.Println(line)
	default:
		icon := "•"
		style := r.Styles.Muted
		switch status {
		case "success":
			icon, style = "✓", r.Styles.Success
		case "failed":
			icon, style = "✗", r.Styles.Error
		case "skipped":
			icon, style = "-", r.Styles.Warning
		}
		line := style.Render(icon) + " " + name
		if detail != "" {
			line += " " + r.Styles.Muted.Render(detail)
		}
		r.Println(line)
	}
}

// KeyValue writes a label and its value.
func (r *Renderer) KeyValue(key string, value any) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return
	case ModeMarkdown:
		r.Println(FormatKeyValue(key, value))
	default:
		r.Printf("%s %v\n", r.Styles.Key.Render(key+":"), value)
	}
}

// JSON writes v as indented JSON regardless of mode.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatHeader formats a markdown header.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue formats a markdown bold key and its value.
func FormatKeyValue(key string, value any) string {
	return fmt.Sprintf("**%s:** %v", key, value)
}
