package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AddDirectory registers a filesystem root for scanning. Registering a
// path that is already present is a no-op. The path must exist and be
// a directory.
func (l *Library) AddDirectory(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", abs)
	}

	_, err = l.db.Exec(`INSERT INTO directories (path) VALUES (?)`, abs)
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// RemoveDirectory de-registers a root. The store cascades deletion of
// its files. Removing an unknown path is a no-op.
func (l *Library) RemoveDirectory(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	_, err = l.db.Exec(`DELETE FROM directories WHERE path = ?`, abs)
	return err
}

// Directories returns all registered roots ordered by path.
func (l *Library) Directories() ([]Directory, error) {
	rows, err := l.db.Query(`SELECT id, path FROM directories ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dirs []Directory
	for rows.Next() {
		var d Directory
		if err := rows.Scan(&d.ID, &d.Path); err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, rows.Err()
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. The modernc driver surfaces constraint errors as formatted
// strings, so this matches on the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
