package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Read reads tag metadata from an audio file. dhowden/tag covers the
// display fields; the MusicBrainz recording ID comes from the taglib
// property map, which also serves as the whole-file fallback when
// dhowden/tag cannot parse the container.
func Read(path string) (*Tag, error) {
	t, err := readBase(path)
	if err != nil {
		return readWithTaglib(path)
	}

	if props, err := taglib.ReadTags(path); err == nil {
		t.RecordingID = firstValue(props, recordingIDKey)
	}
	return t, nil
}

func readBase(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	title := m.Title()
	if title == "" {
		title = stem(path)
	}

	return &Tag{
		Path:   path,
		Title:  title,
		Artist: m.Artist(),
		Album:  m.Album(),
	}, nil
}

// readWithTaglib reads everything through the taglib property map.
func readWithTaglib(path string) (*Tag, error) {
	props, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}

	title := firstValue(props, taglib.Title)
	if title == "" {
		title = stem(path)
	}

	return &Tag{
		Path:        path,
		Title:       title,
		Artist:      firstValue(props, taglib.Artist),
		Album:       firstValue(props, taglib.Album),
		RecordingID: firstValue(props, recordingIDKey),
	}, nil
}

func firstValue(props map[string][]string, key string) string {
	if values, ok := props[key]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// stem returns the file name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
