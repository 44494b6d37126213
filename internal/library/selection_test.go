package library

import (
	"testing"
)

func TestNextTracks_EmptyLibrary(t *testing.T) {
	env := setupTestLib(t)
	pair, err := env.lib.NextTracks()
	if err != nil {
		t.Fatalf("NextTracks failed: %v", err)
	}
	if len(pair) != 0 {
		t.Errorf("pair = %v, want empty", pair)
	}
}

func TestNextTracks_SingleTrack(t *testing.T) {
	env := setupTestLib(t)
	env.addFile(t, "A.mp3", "")
	env.scan(t)

	pair, err := env.lib.NextTracks()
	if err != nil {
		t.Fatalf("NextTracks failed: %v", err)
	}
	if len(pair) != 0 {
		t.Errorf("pair = %v, want empty with one track", pair)
	}
}

func TestNextTracks_TwoTracks(t *testing.T) {
	env := setupTestLib(t)
	env.addFile(t, "A.mp3", "")
	env.addFile(t, "B.mp3", "")
	env.scan(t)

	pair, err := env.lib.NextTracks()
	if err != nil {
		t.Fatalf("NextTracks failed: %v", err)
	}
	if len(pair) != 2 {
		t.Fatalf("pair length = %d, want 2", len(pair))
	}
	if pair[0].ID == pair[1].ID {
		t.Error("selection returned the same track twice")
	}
}

func TestNextTracks_FirstHasMinimumComparisons(t *testing.T) {
	env := setupTestLib(t)
	pathA := env.addFile(t, "A.mp3", "")
	pathB := env.addFile(t, "B.mp3", "")
	pathC := env.addFile(t, "C.mp3", "")
	env.scan(t)

	a := env.mustTrackByPath(t, pathA)
	b := env.mustTrackByPath(t, pathB)
	c := env.mustTrackByPath(t, pathC)
	env.setComparisons(t, a.ID, 5)
	env.setComparisons(t, b.ID, 5)
	env.setComparisons(t, c.ID, 2)

	for range 10 {
		pair, err := env.lib.NextTracks()
		if err != nil {
			t.Fatalf("NextTracks failed: %v", err)
		}
		if pair[0].ID != c.ID {
			t.Fatalf("first pick = track %d with %d comparisons, want least-compared %d",
				pair[0].ID, pair[0].Comparisons, c.ID)
		}
	}
}

func TestNextTracks_SecondWithinRatingWindow(t *testing.T) {
	env := setupTestLib(t)
	pathA := env.addFile(t, "A.mp3", "")
	pathB := env.addFile(t, "B.mp3", "")
	pathC := env.addFile(t, "C.mp3", "")
	env.scan(t)

	a := env.mustTrackByPath(t, pathA)
	b := env.mustTrackByPath(t, pathB)
	c := env.mustTrackByPath(t, pathC)

	// Force A as first pick, and give B the only rating within 250
	// points of A.
	env.setComparisons(t, a.ID, 0)
	env.setComparisons(t, b.ID, 1)
	env.setComparisons(t, c.ID, 1)
	mustExec(t, env, `UPDATE tracks SET rating = 1500 WHERE id = ?`, a.ID)
	mustExec(t, env, `UPDATE tracks SET rating = 1600 WHERE id = ?`, b.ID)
	mustExec(t, env, `UPDATE tracks SET rating = 2500 WHERE id = ?`, c.ID)

	for range 10 {
		pair, err := env.lib.NextTracks()
		if err != nil {
			t.Fatalf("NextTracks failed: %v", err)
		}
		if pair[0].ID != a.ID {
			t.Fatalf("first pick = %d, want %d", pair[0].ID, a.ID)
		}
		if pair[1].ID != b.ID {
			t.Fatalf("second pick = %d (rating %v), want within-window track %d",
				pair[1].ID, pair[1].Rating, b.ID)
		}
	}
}

func TestNextTracks_FallbackOutsideWindow(t *testing.T) {
	env := setupTestLib(t)
	pathA := env.addFile(t, "A.mp3", "")
	pathB := env.addFile(t, "B.mp3", "")
	env.scan(t)

	a := env.mustTrackByPath(t, pathA)
	b := env.mustTrackByPath(t, pathB)
	env.setComparisons(t, a.ID, 0)
	env.setComparisons(t, b.ID, 1)
	mustExec(t, env, `UPDATE tracks SET rating = 1500 WHERE id = ?`, a.ID)
	mustExec(t, env, `UPDATE tracks SET rating = 3000 WHERE id = ?`, b.ID)

	pair, err := env.lib.NextTracks()
	if err != nil {
		t.Fatalf("NextTracks failed: %v", err)
	}
	if len(pair) != 2 || pair[1].ID != b.ID {
		t.Errorf("fallback pick = %v, want track %d", pair, b.ID)
	}
}

func TestNextTracks_NoSideEffects(t *testing.T) {
	env := setupTestLib(t)
	env.addFile(t, "A.mp3", "")
	env.addFile(t, "B.mp3", "")
	env.scan(t)

	for range 5 {
		if _, err := env.lib.NextTracks(); err != nil {
			t.Fatalf("NextTracks failed: %v", err)
		}
	}
	if got := env.comparisonCount(t); got != 0 {
		t.Errorf("comparison count = %d, want 0 (selection is read-only)", got)
	}
}

func mustExec(t *testing.T, env *testEnv, query string, args ...any) {
	t.Helper()
	if _, err := env.lib.db.Exec(query, args...); err != nil {
		t.Fatalf("exec failed: %v", err)
	}
}
