// Package render formats values for terminals: colored text and
// markdown tables.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/wbrown/janus-values/sqlvalue"
)

// ColorMode selects when output is colored
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a color setting
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Printer writes values as text, coloring leaves by kind
type Printer struct {
	useColor bool
	writer   io.Writer
}

// NewPrinter creates a printer. In auto mode color is used only when w
// is a terminal.
func NewPrinter(w io.Writer, mode ColorMode) *Printer {
	if w == nil {
		w = os.Stdout
	}

	useColor := mode == ColorAlways
	if mode == ColorAuto {
		if f, ok := w.(*os.File); ok {
			useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	return &Printer{useColor: useColor, writer: w}
}

// Print writes v followed by a newline
func (p *Printer) Print(v sqlvalue.Value) error {
	_, err := fmt.Fprintln(p.writer, p.Format(v))
	return err
}

// Format renders v. Without color the result equals v.String().
func (p *Printer) Format(v sqlvalue.Value) string {
	if !p.useColor {
		if v == nil {
			return sqlvalue.None{}.String()
		}
		return v.String()
	}
	var b strings.Builder
	p.write(&b, v)
	return b.String()
}

func (p *Printer) write(b *strings.Builder, v sqlvalue.Value) {
	switch v := v.(type) {
	case nil:
		b.WriteString(p.colorize(sqlvalue.None{}.String(), color.Faint))
	case sqlvalue.Array:
		b.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			p.write(b, e)
		}
		b.WriteByte(']')
	case *sqlvalue.Object:
		if v.Len() == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		for i, f := range v.Fields() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.colorize(sqlvalue.EscapeKey(f.Key), color.Bold))
			b.WriteString(": ")
			p.write(b, f.Value)
		}
		b.WriteString(" }")
	default:
		b.WriteString(p.colorize(v.String(), kindColor(v.Kind())...))
	}
}

// kindColor picks the attributes for a leaf of kind k
func kindColor(k sqlvalue.Kind) []color.Attribute {
	switch k {
	case sqlvalue.KindNone, sqlvalue.KindNull:
		return []color.Attribute{color.Faint}
	case sqlvalue.KindTrue, sqlvalue.KindFalse:
		return []color.Attribute{color.FgYellow}
	case sqlvalue.KindNumber:
		return []color.Attribute{color.FgCyan}
	case sqlvalue.KindStrand:
		return []color.Attribute{color.FgGreen}
	case sqlvalue.KindDuration, sqlvalue.KindDatetime, sqlvalue.KindUuid:
		return []color.Attribute{color.FgMagenta}
	case sqlvalue.KindThing, sqlvalue.KindTable, sqlvalue.KindRange, sqlvalue.KindEdges:
		return []color.Attribute{color.FgBlue}
	case sqlvalue.KindParam:
		return []color.Attribute{color.FgHiBlue}
	case sqlvalue.KindRegex:
		return []color.Attribute{color.FgRed}
	}
	return nil
}

// colorize applies color if enabled
func (p *Printer) colorize(text string, attrs ...color.Attribute) string {
	if !p.useColor || len(attrs) == 0 {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}
