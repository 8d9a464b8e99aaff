package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/acadmin/core"
)

var sleepFunc = time.Sleep // mockable

// maxLineLen bounds a single answer of the operator.
const maxLineLen = 4096

// console reads operator answers line by line and paces the screens.
type console struct {
	in     *bufio.Reader
	out    io.Writer
	clear  bool
	pacing time.Duration
}

func newConsole(in io.Reader, out io.Writer, ui core.UIConfig) *console {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &console{
		in:     bufio.NewReader(in),
		out:    out,
		clear:  ui.ClearScreen && tty,
		pacing: ui.Pacing,
	}
}

// ReadLine returns io.EOF once the input is exhausted. A line longer than
// maxLineLen is consumed and rejected with core.ErrInvalidInput.
func (c *console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
		}
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if len(line) > maxLineLen {
		return "", core.NewValidationErrorf(core.ErrInvalidInput,
			"invalid input: line longer than %d bytes", maxLineLen)
	}
	return line, nil
}

func (c *console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) Println(args ...interface{}) {
	fmt.Fprintln(c.out, args...)
}

func (c *console) Clear() {
	if c.clear {
		fmt.Fprint(c.out, "\033[H\033[2J")
	}
}

// Pause waits n pacing units.
func (c *console) Pause(n int) {
	if c.pacing > 0 && n > 0 {
		sleepFunc(time.Duration(n) * c.pacing)
	}
}

func (c *console) Loading() {
	fmt.Fprint(c.out, "Loading ")
	for i := 0; i < 3; i++ {
		c.Pause(1)
		fmt.Fprint(c.out, ". ")
	}
	fmt.Fprintln(c.out)
}
