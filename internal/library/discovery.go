package library

import (
	"os"
	"path/filepath"
	"time"

	"github.com/jcheval/faceoff/internal/tags"
)

// discovered is one audio file found on disk during a scan.
type discovered struct {
	path  string
	mtime time.Time
}

// discoverFiles walks root and returns every supported audio file.
// filepath.WalkDir visits entries in lexical order, so the result is
// deterministic for a given directory tree. Unreadable entries are
// skipped rather than failing the scan.
func discoverFiles(root string) []discovered {
	var files []discovered

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skipping unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if !tags.IsAudioFile(path) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil //nolint:nilerr // intentionally skipping unstattable files
		}

		files = append(files, discovered{
			path:  path,
			mtime: info.ModTime().UTC(),
		})
		return nil
	})

	return files
}
