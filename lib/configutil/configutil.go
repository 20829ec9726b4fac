package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Layers returns the files ReadConfig merges for `name`, lowest priority
// first: "config.json5" is overridden by "config.local.json5".
func Layers(name string) []string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return []string{name, base + ".local" + ext}
}

// readLayer decodes a single json5 file, empty or missing files are
// reported as not found.
func readLayer[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, false, nil
	}
	if err != nil {
		return out, false, fmt.Errorf("read %s: %w", path, err)
	}
	if len(contents) == 0 {
		return out, false, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, true, nil
}

// ReadConfig merges every layer of `name` that exists, later layers only
// override the fields they set. It returns os.ErrNotExist when no layer
// exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found := false
	for _, path := range Layers(name) {
		layer, ok, err := readLayer[T](path)
		if err != nil {
			return out, err
		}
		if !ok {
			continue
		}
		err = mergo.Merge(&out, layer, mergo.WithOverride)
		if err != nil {
			return out, fmt.Errorf("merge %s: %w", path, err)
		}
		if found {
			slog.Debug("merged config overrides", "path", path)
		}
		found = true
	}
	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively looks for `name` in the working directory and then in
// each parent up to the filesystem root, returning the first config found.
func ReadRecursively[T any](name string) (T, error) {
	var out T
	current, err := os.Getwd()
	if err != nil {
		return out, err
	}
	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !os.IsNotExist(err) {
			return out, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return out, os.ErrNotExist
		}
		current = parent
	}
}
