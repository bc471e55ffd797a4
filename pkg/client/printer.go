package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

// colorPrinter prints shell output with OK lines in green and FAIL/ERROR
// lines in red, matching the convention of colored pass/fail output
// common to CLI tooling; plain ASCII is still what gets parsed by
// scripts, color is cosmetic only for a human watching the terminal.
type colorPrinter struct {
	out io.Writer
	ok  *color.Color
	bad *color.Color
}

// NewColorPrinter wraps os.Stdout (via go-colorable, for Windows
// console compatibility) with colorized OK/FAIL highlighting.
func NewColorPrinter() Printer {
	return &colorPrinter{
		out: colorable.NewColorableStdout(),
		ok:  color.New(color.FgGreen),
		bad: color.New(color.FgRed),
	}
}

func (p *colorPrinter) Line(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	switch {
	case strings.Contains(line, "OK"):
		p.ok.Fprintln(p.out, line)
	case strings.Contains(line, "FAIL") || strings.Contains(line, "ERROR") || strings.Contains(line, "IN USE"):
		p.bad.Fprintln(p.out, line)
	default:
		fmt.Fprintln(p.out, line)
	}
}
