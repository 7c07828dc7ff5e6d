package linenoise

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// LineNoise is a liner.State whose history lives on an afero filesystem.
type LineNoise struct {
	*liner.State
	fs afero.Fs
}

// New puts the terminal in raw mode and returns a line editor. Close must
// be called to restore the terminal.
func New(fs afero.Fs) *LineNoise {
	ln := &LineNoise{State: liner.NewLiner(), fs: fs}
	ln.SetCtrlCAborts(true)
	return ln
}

// HistoryLoad reads history from path. A missing file is not an error.
func (ln *LineNoise) HistoryLoad(path string) error {
	return readHistory(ln.fs, path, ln.ReadHistory)
}

// HistorySave writes the history to path.
func (ln *LineNoise) HistorySave(path string) error {
	return writeHistory(ln.fs, path, ln.WriteHistory)
}

// ClearScreen clears the terminal.
func (ln *LineNoise) ClearScreen(w io.Writer) error {
	_, err := fmt.Fprint(w, "\x1b[H\x1b[2J")
	return err
}

func readHistory(fs afero.Fs, path string, read func(io.Reader) (int, error)) error {
	content, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "history.read")
	}
	_, err = read(bytes.NewReader(content))
	return err
}

func writeHistory(fs afero.Fs, path string, write func(io.Writer) (int, error)) error {
	var buf bytes.Buffer
	if _, err := write(&buf); err != nil {
		return err
	}
	return errors.Wrap(afero.WriteFile(fs, path, buf.Bytes(), 0644), "history.write")
}
