package library

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jcheval/faceoff/internal/tags"
)

// fakeTagReader serves recording IDs from a map. Paths not in the map
// read as unreadable, which the scanner must treat as untagged.
type fakeTagReader struct {
	ids map[string]string
}

func (f *fakeTagReader) read(path string) (*tags.Tag, error) {
	id, ok := f.ids[path]
	if !ok {
		return nil, errors.New("unreadable file")
	}
	return &tags.Tag{Path: path, RecordingID: id}, nil
}

type testEnv struct {
	lib    *Library
	reader *fakeTagReader
	dir    string
	now    time.Time
}

func setupTestLib(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	env := &testEnv{
		reader: &fakeTagReader{ids: make(map[string]string)},
		dir:    t.TempDir(),
		now:    time.Unix(1700000000, 0).UTC(),
	}

	all := append([]Option{
		WithTagReader(env.reader.read),
		WithClock(func() time.Time { return env.now }),
	}, opts...)

	lib, err := New(conn, all...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	env.lib = lib

	if err := lib.AddDirectory(env.dir); err != nil {
		t.Fatalf("AddDirectory failed: %v", err)
	}
	return env
}

// addFile creates a file on disk; recordingID "" leaves it untagged.
func (e *testEnv) addFile(t *testing.T, name, recordingID string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if recordingID != "" {
		e.reader.ids[path] = recordingID
	}
	return path
}

// retag changes a file's recording ID and advances its mtime so the
// next scan refreshes it.
func (e *testEnv) retag(t *testing.T, path, recordingID string) {
	t.Helper()
	e.reader.ids[path] = recordingID
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func (e *testEnv) scan(t *testing.T) ScanStats {
	t.Helper()
	stats, err := e.lib.ScanDirectories()
	if err != nil {
		t.Fatalf("ScanDirectories failed: %v", err)
	}
	return stats
}

func (e *testEnv) trackCount(t *testing.T) int {
	t.Helper()
	return e.count(t, `SELECT COUNT(*) FROM tracks`)
}

func (e *testEnv) fileCount(t *testing.T) int {
	t.Helper()
	return e.count(t, `SELECT COUNT(*) FROM files`)
}

func (e *testEnv) comparisonCount(t *testing.T) int {
	t.Helper()
	return e.count(t, `SELECT COUNT(*) FROM comparisons`)
}

func (e *testEnv) count(t *testing.T, query string) int {
	t.Helper()
	var n int
	if err := e.lib.db.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

// setComparisons fakes rating history so merge decisions can be
// steered.
func (e *testEnv) setComparisons(t *testing.T, trackID int64, n int) {
	t.Helper()
	if _, err := e.lib.db.Exec(`UPDATE tracks SET comparisons = ? WHERE id = ?`, n, trackID); err != nil {
		t.Fatalf("set comparisons: %v", err)
	}
}

func (e *testEnv) mustTrackByPath(t *testing.T, path string) *Track {
	t.Helper()
	track, err := e.lib.TrackByPath(path)
	if err != nil {
		t.Fatalf("TrackByPath(%s) failed: %v", path, err)
	}
	return track
}
