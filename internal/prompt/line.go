package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Line prompts on Out and reads one line from In.
type Line struct {
	In  io.Reader
	Out io.Writer

	// Interactive reports whether In is attached to a user. Nil means yes.
	Interactive func() bool
}

// NewStdinLine prompts on stderr and reads stdin when stdin is a terminal.
func NewStdinLine() Line {
	return Line{
		In:  os.Stdin,
		Out: os.Stderr,
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// RequestName implements NameRequester. An empty answer accepts def.
func (l Line) RequestName(ctx context.Context, def string) (string, error) {
	if l.In == nil || (l.Interactive != nil && !l.Interactive()) {
		return "", ErrUnavailable
	}
	if l.Out != nil {
		if def != "" {
			fmt.Fprintf(l.Out, "List name [%s]: ", def)
		} else {
			fmt.Fprint(l.Out, "List name: ")
		}
	}

	var a answer
	if ctx.Done() == nil {
		a = readLine(l.In)
	} else {
		// On cancellation the reader goroutine stays blocked in In until a
		// line arrives or In is closed. The buffered channel lets it exit then.
		ch := make(chan answer, 1)
		go func() { ch <- readLine(l.In) }()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case a = <-ch:
		}
	}
	if a.err != nil && a.line == "" {
		if errors.Is(a.err, io.EOF) {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("read name: %w", a.err)
	}

	name := strings.TrimSpace(a.line)
	if name == "" {
		name = strings.TrimSpace(def)
	}
	if name == "" {
		return "", ErrCanceled
	}
	return name, nil
}

type answer struct {
	line string
	err  error
}

func readLine(in io.Reader) answer {
	line, err := bufio.NewReader(in).ReadString('\n')
	return answer{line, err}
}
