package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats understood by the Printer.
const (
	FormatYAML     = "yaml"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Printer writes state snapshots and diffs for humans.
type Printer struct {
	w      io.Writer
	out    *termenv.Output
	format string
	color  bool
	render func(string) (string, error)
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithColor forces colored output on or off. By default it is on only when
// the writer is a terminal.
func WithColor(enabled bool) PrinterOption {
	return func(p *Printer) {
		p.color = enabled
	}
}

// NewPrinter creates a Printer writing to w in format (yaml, json or markdown).
func NewPrinter(w io.Writer, format string, opts ...PrinterOption) (*Printer, error) {
	p := &Printer{
		w:      w,
		format: strings.ToLower(format),
		color:  IsTerminal(w),
	}
	if p.format == "" {
		p.format = FormatYAML
	}
	for _, opt := range opts {
		opt(p)
	}

	profile := termenv.Ascii
	if p.color {
		profile = termenv.ANSI256
	}
	p.out = termenv.NewOutput(w, termenv.WithProfile(profile))

	switch p.format {
	case FormatYAML, FormatJSON:
	case FormatMarkdown:
		render, err := NewRenderer(p.color)
		if err != nil {
			return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		p.render = render
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return p, nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintState writes a labelled state snapshot.
func (p *Printer) PrintState(label string, state domain.State) error {
	if p.format == FormatMarkdown {
		return p.printMarkdown(label, state)
	}

	fmt.Fprintln(p.w, p.out.String("▸ "+label).Bold().Foreground(p.out.Color("#a78bfa")))
	body, err := p.encode(state)
	if err != nil {
		return err
	}
	_, err = io.WriteString(p.w, body)
	return err
}

// PrintDiff writes the slices changed by one dispatch of store.
func (p *Printer) PrintDiff(store string, diff *domain.StateDiff) error {
	if diff.IsEmpty() {
		return nil
	}

	header := p.out.String(store).Bold().Foreground(p.out.Color("#f472b6")).String()
	for _, name := range diff.Slices() {
		if v, ok := diff.Changed[name]; ok {
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("failed to encode slice %q: %w", name, err)
			}
			fmt.Fprintf(p.w, "%s %s %s\n", header, p.out.String("~ "+name).Foreground(p.out.Color("#818cf8")), data)
			continue
		}
		fmt.Fprintf(p.w, "%s %s\n", header, p.out.String("- "+name).Foreground(p.out.Color("#fb7185")))
	}
	return nil
}

func (p *Printer) encode(state domain.State) (string, error) {
	if p.format == FormatJSON {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode state: %w", err)
		}
		return string(data) + "\n", nil
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to encode state: %w", err)
	}
	return string(data), nil
}

func (p *Printer) printMarkdown(label string, state domain.State) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n| slice | value |\n|---|---|\n", label)
	for _, name := range state.Keys() {
		v, _ := state.Get(name)
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode slice %q: %w", name, err)
		}
		fmt.Fprintf(&sb, "| %s | `%s` |\n", name, data)
	}

	out, err := p.render(sb.String())
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(p.w, out)
	return err
}
