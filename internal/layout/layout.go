package layout

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"emailbuilder/utils"
)

// Source reads the email layout from disk. The file is read on every call so
// edits are picked up without a restart.
type Source struct {
	path string
}

// NewSource returns a Source for the HTML file at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the file the layout is read from.
func (s *Source) Path() string {
	return s.path
}

// Read returns the layout contents. A missing file is reported as a
// NotFoundError, any other failure as a StorageError.
func (s *Source) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	buf, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &utils.NotFoundError{Resource: "layout " + s.path, Err: err}
		}
		return "", utils.NewStorageError("read layout", err)
	}
	return string(buf), nil
}
