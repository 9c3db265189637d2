// Package report prints build diagnostics and summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/ir"
	"github.com/broady/pocotype/typesystem"
)

// Printer writes colored reports. The zero value is not usable; call New.
type Printer struct {
	w    io.Writer
	bad  *color.Color
	warn *color.Color
	ok   *color.Color
	dim  *color.Color
}

// New returns a Printer writing to w.
func New(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:    w,
		bad:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow),
		ok:   color.New(color.FgGreen, color.Bold),
		dim:  color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{p.bad, p.warn, p.ok, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

// Warnings prints provider warnings, grouped by code.
func (p *Printer) Warnings(ws []ir.Warning) {
	byCode := make(map[string][]ir.Warning)
	for _, w := range ws {
		byCode[w.Code] = append(byCode[w.Code], w)
	}
	codes := make([]string, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	for _, c := range codes {
		for _, w := range byCode[c] {
			p.warn.Fprintf(p.w, "warning %s: ", strings.ToLower(c))
			fmt.Fprintln(p.w, w.Message)
		}
	}
}

// Diagnostics prints every registration error and returns their number.
func (p *Printer) Diagnostics(diags []*typesystem.Error) int {
	for _, d := range diags {
		p.bad.Fprintf(p.w, "error %s", d.Code)
		if d.Type != "" {
			fmt.Fprintf(p.w, " in %s", d.Type)
		}
		fmt.Fprintf(p.w, ": %s\n", d.Message)
		if d.Path != "" {
			p.dim.Fprintf(p.w, "    at %s\n", d.Path)
		}
	}
	return len(diags)
}

// Summary prints the node counts of a locked builder.
func (p *Printer) Summary(b *typesystem.Builder) {
	all := b.All()
	exchangeable := b.AllExchangeable().Len()
	failed := len(b.Diagnostics())
	mark := p.ok.Sprint("✓")
	if failed > 0 {
		mark = p.bad.Sprint("✗")
	}
	fmt.Fprintf(p.w, "%s %d types, %d exchangeable, %d errors\n", mark, all.Len(), exchangeable, failed)

	excluded := b.All().Where(func(n *typesystem.Node) bool { return n.NotExchangeableReason() != "" })
	for _, n := range excluded.Nodes() {
		p.dim.Fprintf(p.w, "    %s: %s\n", n.Signature(), n.NotExchangeableReason())
	}
}

// Error prints a fatal error with its hints.
func (p *Printer) Error(err error) {
	p.bad.Fprint(p.w, "error: ")
	fmt.Fprintln(p.w, err)
	if hint := errors.HintText(err); hint != "" {
		for _, line := range strings.Split(hint, "\n") {
			p.warn.Fprintf(p.w, "  hint: %s\n", line)
		}
	}
}
