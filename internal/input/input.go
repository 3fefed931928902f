// Package input provides line-at-a-time readers for interactive command
// line tools, with an optional GNU Readline-backed implementation for
// history and line editing when connected to a real terminal.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader reads one line of input at a time until exhausted.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// DirectReader reads lines from any io.Reader without sanitizing control
// or escape sequences -- the non-interactive fallback for input that
// isn't a real terminal (a pipe, a redirected file).
type DirectReader struct {
	r *bufio.Reader
}

// NewDirectReader wraps r in a DirectReader.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// ReadLine reads the next non-blank line. It returns io.EOF once the
// underlying reader is exhausted.
func (dr *DirectReader) ReadLine() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && err == io.EOF {
			return "", io.EOF
		}
	}
	return line, nil
}

// Close is a no-op; DirectReader owns no resources of its own.
func (dr *DirectReader) Close() error { return nil }

// InteractiveReader reads lines from stdin via GNU Readline, giving line
// editing and history -- appropriate only when stdin and stdout are both
// attached to a real terminal.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewInteractiveReader starts a readline session with the given prompt.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("input: starting readline: %w", err)
	}
	return &InteractiveReader{rl: rl}, nil
}

// ReadLine reads the next non-blank line.
func (ir *InteractiveReader) ReadLine() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = ir.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && err == io.EOF {
			return "", io.EOF
		}
	}
	return line, nil
}

// SetPrompt updates the prompt shown before the next line.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.rl.SetPrompt(p)
}

// Close releases readline's terminal resources.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}
