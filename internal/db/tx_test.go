package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	_, err = conn.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	if err != nil {
		conn.Close()
		t.Fatalf("failed to create table: %v", err)
	}

	return conn
}

func TestWithTx_Success(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	err := WithTx(conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	boom := errors.New("boom")
	err := WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want boom", err)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 after rollback", count)
	}
}

func TestOpen_EnforcesForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	var enabled int
	if err := conn.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled); err != nil {
		t.Fatalf("pragma query failed: %v", err)
	}
	if enabled != 1 {
		t.Errorf("foreign_keys = %d, want 1", enabled)
	}
}

func TestNullString(t *testing.T) {
	if n := NullString(""); n.Valid {
		t.Error("NullString(\"\") should not be valid")
	}
	if n := NullString("mbid-1"); !n.Valid || n.String != "mbid-1" {
		t.Errorf("NullString(\"mbid-1\") = %+v", n)
	}
	if got := NullStringValue(sql.NullString{}); got != "" {
		t.Errorf("NullStringValue(null) = %q", got)
	}
}

func TestUnixRoundTrip(t *testing.T) {
	if got := NullUnix(sql.NullInt64{}); got != nil {
		t.Errorf("NullUnix(null) = %v, want nil", got)
	}
	if got := UnixOrNull(nil); got.Valid {
		t.Errorf("UnixOrNull(nil) = %+v, want invalid", got)
	}

	now := time.Unix(1700000000, 0).UTC()
	n := UnixOrNull(&now)
	back := NullUnix(n)
	if back == nil || !back.Equal(now) {
		t.Errorf("round trip = %v, want %v", back, now)
	}
}
