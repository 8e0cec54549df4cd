package models

import "fmt"

// Origin identifies the third-party provider a video record came from
type Origin string

const (
	OriginMoonwalk Origin = "moonwalk"
	OriginTmdb     Origin = "tmdb"
	OriginKodik    Origin = "kodik"
	OriginHdvb     Origin = "hdvb"
	OriginVideoCdn Origin = "videocdn"
	OriginRutor    Origin = "rutor" // torrent index, scraped
)

// Origins returns every supported origin in a stable order
func Origins() []Origin {
	return []Origin{OriginMoonwalk, OriginTmdb, OriginKodik, OriginHdvb, OriginVideoCdn, OriginRutor}
}

// Valid reports whether o is one of the enumerated origins
func (o Origin) Valid() bool {
	for _, known := range Origins() {
		if o == known {
			return true
		}
	}
	return false
}

// ParseOrigin converts a configuration or query value into an Origin
func ParseOrigin(value string) (Origin, error) {
	o := Origin(value)
	if !o.Valid() {
		return "", fmt.Errorf("unknown origin %q: %w", value, ErrInvalidArgument)
	}
	return o, nil
}

// VideoType classifies a video
type VideoType string

const (
	VideoTypeMixed  VideoType = "mixed"
	VideoTypeVideo  VideoType = "video"
	VideoTypeMovie  VideoType = "movie"
	VideoTypeSeries VideoType = "series"
)

var categoryLabels = map[VideoType]string{
	VideoTypeMixed:  "разное",
	VideoTypeVideo:  "видео",
	VideoTypeMovie:  "фильмы",
	VideoTypeSeries: "сериалы",
}

// Valid reports whether t is one of the four enumerated types
func (t VideoType) Valid() bool {
	_, ok := categoryLabels[t]
	return ok
}

// CategoryLabel returns the localized taxonomy label for the type
func (t VideoType) CategoryLabel() (string, error) {
	label, ok := categoryLabels[t]
	if !ok {
		return "", fmt.Errorf("video type %q: %w", t, ErrInvalidArgument)
	}
	return label, nil
}

// FieldType is the widget type of an extra field definition
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeImage    FieldType = "image"
	FieldTypeGallery  FieldType = "gallery"
	FieldTypeFile     FieldType = "file"
	FieldTypeBoolean  FieldType = "boolean"
)

// Valid reports whether t is a known extra field type
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect, FieldTypeImage,
		FieldTypeGallery, FieldTypeFile, FieldTypeBoolean:
		return true
	default:
		return false
	}
}

// RunStatus represents the state of a synchronization run in the journal
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)
