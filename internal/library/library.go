// Package library implements the track library: filesystem scanning,
// track identity reconciliation across renames and re-tags, pairwise
// comparison recording with Glicko-style rating updates, and selection
// of the next pair to compare.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jcheval/faceoff/internal/tags"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("library: not found")

// Directory is a filesystem root registered for scanning.
type Directory struct {
	ID   int64
	Path string
}

// File is one on-disk audio file belonging to a track.
type File struct {
	ID          int64
	DirectoryID int64
	TrackID     int64
	Path        string
	LastUpdate  time.Time // last-known modification time
	Priority    int
}

// Track is a logical recording identity, independent of any one file.
// RecordingID is the optional MusicBrainz recording ID, unique across
// tracks when set. LastUpdate is nil until the first rating update.
type Track struct {
	ID          int64
	RecordingID string
	Comparisons int
	Rating      float64
	Deviation   float64
	LastUpdate  *time.Time

	// Display metadata derived from the highest-priority file.
	// Path comes from the store; title/artist/album are read from the
	// file's tags on demand.
	Path   string
	Title  string
	Artist string
	Album  string
}

// Description formats a track for display: artist, title, album plus
// the comparison count and current rating. Tracks without usable tags
// fall back to the file name.
func (t *Track) Description() string {
	suffix := fmt.Sprintf("[%d/%0.3f]", t.Comparisons, t.Rating)

	switch {
	case t.Title != "" && t.Artist != "" && t.Album != "":
		return fmt.Sprintf("%s - %s (%s) %s", t.Artist, t.Title, t.Album, suffix)
	case t.Title != "" && t.Artist != "":
		return fmt.Sprintf("%s - %s %s", t.Artist, t.Title, suffix)
	case t.Title != "":
		return fmt.Sprintf("Unknown Artist - %s %s", t.Title, suffix)
	case t.Path != "":
		base := filepath.Base(t.Path)
		return fmt.Sprintf("%s %s", strings.TrimSuffix(base, filepath.Ext(base)), suffix)
	default:
		return fmt.Sprintf("Unknown Track %s", suffix)
	}
}

// Comparison is an immutable record of one pairwise judgment. The pair
// is stored canonically with FirstTrackID <= SecondTrackID; Score is
// the score attributed to the first slot (1 or 0).
type Comparison struct {
	ID            int64
	FirstTrackID  int64
	SecondTrackID int64
	Score         float64
	Timestamp     time.Time
}

// Policy configures reconciliation behaviors with no single right
// answer.
type Policy struct {
	// DeleteOrphanedTracks removes a track (and, via cascade, its
	// comparisons) when pruning deletes its last file.
	DeleteOrphanedTracks bool

	// ReattachComparisons re-attributes a merged-away track's
	// comparisons to the surviving track instead of cascade-deleting
	// them. Pairs that would become self-comparisons are dropped.
	ReattachComparisons bool
}

// DefaultPolicy keeps orphaned tracks and preserves comparison history
// on merges.
func DefaultPolicy() Policy {
	return Policy{ReattachComparisons: true}
}

// Library owns the reconciliation and rating rules over the store.
// At most one mutating operation (scan, update, directory change) may
// run at a time against a given database.
// TagReader reads metadata for a file path. It is consumed as an
// external capability; a read failure is treated as "no metadata",
// never as a fatal scan error.
type TagReader func(path string) (*tags.Tag, error)

type Library struct {
	db       *sql.DB
	log      *slog.Logger
	now      func() time.Time
	policy   Policy
	readTags TagReader
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger used for scan and reconciliation events.
func WithLogger(log *slog.Logger) Option {
	return func(l *Library) { l.log = log }
}

// WithClock overrides the time source. Used by tests and by hosts that
// need deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithPolicy sets the reconciliation policy.
func WithPolicy(p Policy) Option {
	return func(l *Library) { l.policy = p }
}

// WithTagReader overrides the tag-reading capability.
func WithTagReader(r TagReader) Option {
	return func(l *Library) { l.readTags = r }
}

// New initializes the schema and returns a Library over db.
func New(db *sql.DB, opts ...Option) (*Library, error) {
	l := &Library{
		db:       db,
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
		policy:   DefaultPolicy(),
		readTags: tags.Read,
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := initSchema(db); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return l, nil
}

// DB exposes the underlying database for read-only consumers such as
// the rank estimators.
func (l *Library) DB() *sql.DB {
	return l.db
}
