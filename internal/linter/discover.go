package linter

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are never descended into when expanding directory arguments.
var skipDirs = map[string]bool{
	".git":         true,
	"renv":         true,
	"packrat":      true,
	"node_modules": true,
}

// IsRFile reports whether path has an R source extension.
func IsRFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".r":
		return true
	}
	return false
}

// CollectFiles expands the given paths into R files. Directories are walked
// recursively; explicitly named files are kept whatever their extension.
// With no paths the current directory is used.
func CollectFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		if p == "-" {
			add(p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsRFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
