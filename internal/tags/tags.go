// Package tags reads the metadata the library engine needs from audio
// files: display fields plus the MusicBrainz recording ID used as the
// stable track identity.
package tags

import (
	"path/filepath"
	"slices"
	"strings"
)

// Extensions considered audio files during a scan.
var audioExtensions = map[string]bool{
	".flac": true,
	".m4a":  true,
	".mp3":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".wma":  true,
}

// recordingIDKey is the taglib property holding the MusicBrainz
// recording identifier across all supported formats.
const recordingIDKey = "MUSICBRAINZ_TRACKID"

// Tag holds the subset of file metadata the library stores or displays.
// RecordingID is empty when the file carries no MusicBrainz recording ID.
type Tag struct {
	Path        string
	Title       string
	Artist      string
	Album       string
	RecordingID string
}

// IsAudioFile reports whether the path has a supported audio extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns the supported audio extensions without the leading
// dot, sorted for display.
func Extensions() []string {
	exts := make([]string, 0, len(audioExtensions))
	for ext := range audioExtensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(exts)
	return exts
}
