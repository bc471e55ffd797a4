package client

import "fmt"

// PlainPrinter prints uncolored lines, used by tests and any deployment
// that pipes stdout somewhere color escapes would corrupt.
type PlainPrinter struct {
	Lines []string
}

// Line implements Printer.
func (p *PlainPrinter) Line(format string, args ...interface{}) {
	p.Lines = append(p.Lines, fmt.Sprintf(format, args...))
}
