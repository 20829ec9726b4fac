package devenv

import (
	"krossbooking/lib/configutil"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var modName = regexp.MustCompile(`(?m)^module *([\w\-_/.]+)$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == "krossbooking"
}

func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs("/")
	if err != nil {
		return "", err
	}

	for currentdir != root {
		if !isWorkspaceRoot(currentdir) {
			currentdir = filepath.Join(currentdir, "..")
			continue
		}
		return currentdir, nil
	}

	return "", os.ErrNotExist
}

func GetStateFilePath(path string) (string, error) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "dev", ".state", path), nil
}

// GetStateConfig reads a config file (and its .local override) from
// dev/.state, it returns an error satisfying os.IsNotExist when neither
// exists.
func GetStateConfig[T any](path string) (T, error) {
	configPath, err := GetStateFilePath(path)
	if err != nil {
		var out T
		return out, err
	}
	return configutil.ReadConfig[T](configPath)
}

// ResolvePath replaces a leading <dev_state> with the dev/.state directory
// of the workspace, creating it if needed. Other paths are returned as is.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "<dev_state>") {
		return path, nil
	}

	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(filepath.Join(root, "dev", ".state"), 0777)
	if err != nil {
		return "", err
	}

	subpath := filepath.Join(strings.Split(path, string(os.PathSeparator))[1:]...)
	return filepath.Join(root, "dev", ".state", subpath), nil
}
