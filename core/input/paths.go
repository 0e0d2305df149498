package input

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"election-check/internal/errors"
)

// ExpandPaths resolves dataset arguments to files. Directories are walked
// for .json files, skipping hidden directories; files found in a directory
// are sorted so runs are reproducible. Explicit file arguments keep their
// order.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Input("dataset not found", err).WithContext("path", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		found, err := walkDatasets(p)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, errors.Newf(errors.KindInput, "no .json dataset found in %s", p)
		}
		files = append(files, found...)
	}
	return files, nil
}

func walkDatasets(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Input("failed to walk "+root, err)
	}
	sort.Strings(found)
	return found, nil
}
