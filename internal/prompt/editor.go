package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

const editorHint = "# Enter the list name on the first line. Lines starting with # are ignored.\n"

// Editor asks for a name by opening an external editor on a scratch file.
type Editor struct {
	// Command is the editor and its arguments. Empty means $VISUAL, then $EDITOR.
	Command []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewEnvEditor uses the terminal's standard streams.
func NewEnvEditor() Editor {
	return Editor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e Editor) command() []string {
	if len(e.Command) > 0 {
		return e.Command
	}
	for _, v := range []string{os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if parts := strings.Fields(v); len(parts) > 0 {
			return parts
		}
	}
	return nil
}

// RequestName implements NameRequester. It is unavailable when no editor
// is configured.
func (e Editor) RequestName(ctx context.Context, def string) (string, error) {
	argv := e.command()
	if len(argv) == 0 {
		return "", ErrUnavailable
	}

	f, err := os.CreateTemp("", "watchlater-name-*.txt")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	_, err = f.WriteString(def + "\n" + editorHint)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write scratch file: %w", err)
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = e.Stdin, e.Stdout, e.Stderr
	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("run editor: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}
	return firstName(string(data))
}

func firstName(text string) (string, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	return "", ErrCanceled
}
