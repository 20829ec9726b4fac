package restyutil

import (
	"fmt"
	devenv "krossbooking/dev/env"
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes every instrumented message to its own file.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates `dir` if needed, `dir` may start with
// <dev_state>.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, fmt.Sprintf("%s.http", id)), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
