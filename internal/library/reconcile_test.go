package library

import (
	"testing"
)

func TestReconcile_RenameInPlace(t *testing.T) {
	env := setupTestLib(t)
	path := env.addFile(t, "A.mp3", "")
	env.scan(t)

	before := env.mustTrackByPath(t, path)
	env.setComparisons(t, before.ID, 7)

	env.retag(t, path, "mbid-1")
	stats := env.scan(t)
	if stats.Updated != 1 {
		t.Fatalf("stats.Updated = %d, want 1", stats.Updated)
	}

	after := env.mustTrackByPath(t, path)
	if after.ID != before.ID {
		t.Errorf("track replaced: id %d -> %d, want in-place rename", before.ID, after.ID)
	}
	if after.RecordingID != "mbid-1" {
		t.Errorf("recording ID = %q, want mbid-1", after.RecordingID)
	}
	if after.Comparisons != 7 {
		t.Errorf("comparisons = %d, want 7 (state preserved)", after.Comparisons)
	}
	if got := env.trackCount(t); got != 1 {
		t.Errorf("track count = %d, want 1", got)
	}
}

func TestReconcile_MergeExistingSurvives(t *testing.T) {
	env := setupTestLib(t)
	pathA := env.addFile(t, "A.mp3", "")
	pathB := env.addFile(t, "B.mp3", "mbid-1")
	env.scan(t)

	a := env.mustTrackByPath(t, pathA)
	b := env.mustTrackByPath(t, pathB)
	env.setComparisons(t, a.ID, 2)
	env.setComparisons(t, b.ID, 5)

	// A's file now claims mbid-1; B has more comparisons, so A dies.
	env.retag(t, pathA, "mbid-1")
	env.scan(t)

	if got := env.trackCount(t); got != 1 {
		t.Fatalf("track count = %d, want 1 after merge", got)
	}
	if got := env.fileCount(t); got != 2 {
		t.Fatalf("file count = %d, want 2 (merge preserves files)", got)
	}

	merged := env.mustTrackByPath(t, pathA)
	if merged.ID != b.ID {
		t.Errorf("surviving track = %d, want %d", merged.ID, b.ID)
	}
	if merged.Comparisons != 5 {
		t.Errorf("comparisons = %d, want 5 (no state transfer)", merged.Comparisons)
	}
}

func TestReconcile_MergeOldSurvives(t *testing.T) {
	env := setupTestLib(t)
	pathA := env.addFile(t, "A.mp3", "")
	pathB := env.addFile(t, "B.mp3", "mbid-1")
	env.scan(t)

	a := env.mustTrackByPath(t, pathA)
	b := env.mustTrackByPath(t, pathB)
	env.setComparisons(t, a.ID, 9)
	env.setComparisons(t, b.ID, 1)

	// A has the better data: B's track dies, A takes over mbid-1 and
	// B's file.
	env.retag(t, pathA, "mbid-1")
	env.scan(t)

	if got := env.trackCount(t); got != 1 {
		t.Fatalf("track count = %d, want 1 after merge", got)
	}

	survivor := env.mustTrackByPath(t, pathB)
	if survivor.ID != a.ID {
		t.Errorf("surviving track = %d, want %d", survivor.ID, a.ID)
	}
	if survivor.RecordingID != "mbid-1" {
		t.Errorf("recording ID = %q, want mbid-1", survivor.RecordingID)
	}
	if survivor.Comparisons != 9 {
		t.Errorf("comparisons = %d, want 9", survivor.Comparisons)
	}
}

func TestReconcile_MergeTieFavorsExisting(t *testing.T) {
	env := setupTestLib(t)
	pathA := env.addFile(t, "A.mp3", "")
	pathB := env.addFile(t, "B.mp3", "mbid-1")
	env.scan(t)

	b := env.mustTrackByPath(t, pathB)

	env.retag(t, pathA, "mbid-1")
	env.scan(t)

	survivor := env.mustTrackByPath(t, pathA)
	if survivor.ID != b.ID {
		t.Errorf("tie should favor the existing holder: got %d, want %d", survivor.ID, b.ID)
	}
}

func TestReconcile_Split(t *testing.T) {
	env := setupTestLib(t)
	pathA := env.addFile(t, "A.mp3", "mbid-1")
	pathB := env.addFile(t, "B.mp3", "mbid-1")
	env.scan(t)

	old := env.mustTrackByPath(t, pathA)
	env.setComparisons(t, old.ID, 4)

	// One encoding is re-tagged to a different recording; the other
	// file stays behind with all the old state.
	env.retag(t, pathB, "mbid-2")
	env.scan(t)

	if got := env.trackCount(t); got != 2 {
		t.Fatalf("track count = %d, want 2 after split", got)
	}

	kept := env.mustTrackByPath(t, pathA)
	split := env.mustTrackByPath(t, pathB)
	if kept.ID != old.ID {
		t.Errorf("old track changed: %d -> %d", old.ID, kept.ID)
	}
	if kept.Comparisons != 4 || kept.RecordingID != "mbid-1" {
		t.Errorf("old track state disturbed: %+v", kept)
	}
	if split.ID == old.ID {
		t.Error("split file still on old track")
	}
	if split.RecordingID != "mbid-2" {
		t.Errorf("split recording ID = %q, want mbid-2", split.RecordingID)
	}
	if split.Comparisons != 0 || split.Rating != 1500 || split.Deviation != 350 {
		t.Errorf("split track should start fresh, got %+v", split)
	}
}

func TestReconcile_ReattachOnly(t *testing.T) {
	env := setupTestLib(t)
	pathA1 := env.addFile(t, "A1.mp3", "mbid-1")
	pathA2 := env.addFile(t, "A2.mp3", "mbid-1")
	pathB := env.addFile(t, "B.mp3", "mbid-2")
	env.scan(t)

	oldTrack := env.mustTrackByPath(t, pathA1)
	existing := env.mustTrackByPath(t, pathB)
	env.setComparisons(t, oldTrack.ID, 3)
	env.setComparisons(t, existing.ID, 6)

	// A2 now claims mbid-2 while A1 remains: the file just moves.
	env.retag(t, pathA2, "mbid-2")
	env.scan(t)

	if got := env.trackCount(t); got != 2 {
		t.Fatalf("track count = %d, want 2", got)
	}

	moved := env.mustTrackByPath(t, pathA2)
	if moved.ID != existing.ID {
		t.Errorf("file on track %d, want %d", moved.ID, existing.ID)
	}
	if moved.Comparisons != 6 {
		t.Errorf("comparisons = %d, want 6 (no state transfer)", moved.Comparisons)
	}

	stays := env.mustTrackByPath(t, pathA1)
	if stays.ID != oldTrack.ID || stays.Comparisons != 3 {
		t.Errorf("old track disturbed: %+v", stays)
	}
}

func TestReconcile_UntaggedIsNoOpBeyondTimestamp(t *testing.T) {
	env := setupTestLib(t)
	path := env.addFile(t, "A.mp3", "")
	env.scan(t)
	before := env.mustTrackByPath(t, path)

	// mtime advances but the (absent) recording ID is unchanged.
	env.retag(t, path, "")
	stats := env.scan(t)
	if stats.Updated != 1 {
		t.Fatalf("stats.Updated = %d, want 1", stats.Updated)
	}

	after := env.mustTrackByPath(t, path)
	if after.ID != before.ID || after.RecordingID != "" {
		t.Errorf("identity disturbed: %+v", after)
	}
	if got := env.trackCount(t); got != 1 {
		t.Errorf("track count = %d, want 1", got)
	}
}

func TestReconcile_MergeReattachesComparisons(t *testing.T) {
	env := setupTestLib(t)
	pathA := env.addFile(t, "A.mp3", "")
	pathB := env.addFile(t, "B.mp3", "mbid-1")
	pathC := env.addFile(t, "C.mp3", "mbid-2")
	env.scan(t)

	a := env.mustTrackByPath(t, pathA)
	b := env.mustTrackByPath(t, pathB)
	c := env.mustTrackByPath(t, pathC)

	// History: A beat C, and A beat B (the latter becomes a
	// self-comparison after the merge and must be dropped).
	if err := env.lib.UpdatePlaying(a.ID, []int64{c.ID}); err != nil {
		t.Fatal(err)
	}
	if err := env.lib.UpdatePlaying(a.ID, []int64{b.ID}); err != nil {
		t.Fatal(err)
	}

	// Force the merge to delete A: B has more comparisons.
	env.setComparisons(t, a.ID, 2)
	env.setComparisons(t, b.ID, 3)

	env.retag(t, pathA, "mbid-1")
	env.scan(t)

	survivor := env.mustTrackByPath(t, pathA)
	if survivor.ID != b.ID {
		t.Fatalf("survivor = %d, want %d", survivor.ID, b.ID)
	}

	// A-vs-C was re-attributed to B; A-vs-B was dropped.
	if got := env.comparisonCount(t); got != 1 {
		t.Fatalf("comparison count = %d, want 1", got)
	}

	comps, err := env.lib.ComparisonLog()
	if err != nil {
		t.Fatal(err)
	}
	comp := comps[0]
	if comp.FirstTrackID > comp.SecondTrackID {
		t.Errorf("comparison not canonical: %+v", comp)
	}
	lo, hi := min(b.ID, c.ID), max(b.ID, c.ID)
	if comp.FirstTrackID != lo || comp.SecondTrackID != hi {
		t.Errorf("comparison = (%d, %d), want (%d, %d)", comp.FirstTrackID, comp.SecondTrackID, lo, hi)
	}

	// Survivor's counter: 3 (faked) + 1 moved - 1 dropped = 3.
	if survivor.Comparisons != 3 {
		t.Errorf("survivor comparisons = %d, want 3", survivor.Comparisons)
	}
}

func TestReconcile_MergeCascadeWhenReattachDisabled(t *testing.T) {
	env := setupTestLib(t, WithPolicy(Policy{ReattachComparisons: false}))
	pathA := env.addFile(t, "A.mp3", "")
	pathB := env.addFile(t, "B.mp3", "mbid-1")
	pathC := env.addFile(t, "C.mp3", "mbid-2")
	env.scan(t)

	a := env.mustTrackByPath(t, pathA)
	b := env.mustTrackByPath(t, pathB)
	c := env.mustTrackByPath(t, pathC)

	if err := env.lib.UpdatePlaying(a.ID, []int64{c.ID}); err != nil {
		t.Fatal(err)
	}
	env.setComparisons(t, a.ID, 1)
	env.setComparisons(t, b.ID, 4)

	env.retag(t, pathA, "mbid-1")
	env.scan(t)

	// The losing track's history cascades away with it.
	if got := env.comparisonCount(t); got != 0 {
		t.Errorf("comparison count = %d, want 0 (cascade delete)", got)
	}
}
