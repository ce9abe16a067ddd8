package utils

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ReadJSONFiles returns the contents of every *.json file at the root of
// fsys, keyed by file name without its extension.
func ReadJSONFiles(fsys fs.FS) (map[string][]byte, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		files[strings.TrimSuffix(name, path.Ext(name))] = data
	}
	return files, nil
}
