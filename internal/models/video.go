package models

import "fmt"

// Video is the canonical record every provider schema is normalized into.
// It is built by exactly one normalizer and only changed afterwards by
// explicit assignment from rendered patterns.
type Video struct {
	ID     string
	Origin Origin
	Type   VideoType

	Title       string
	TitleAlt    string // original or alternate title
	Tagline     string
	Description string
	Year        int
	Duration    int // minutes
	Age         int // age restriction, 0 when unknown
	Quality     string
	Translation string
	Player      string // embeddable player URL

	Actors    []string
	Directors []string
	Studios   []string
	Countries []string
	Genres    []string

	KinopoiskRating float64
	KinopoiskVotes  int
	ImdbRating      float64
	ImdbVotes       int
	TmdbRating      float64
	TmdbVotes       int

	Poster      string
	Thumbnail   string
	Screenshots []string

	KinopoiskID string
	ImdbID      string
	TmdbID      string
	WorldArtID  string
	ShikimoriID string

	LastSeason  int
	LastEpisode int

	// Torrent index extras
	TorrentMagnet string
	TorrentFile   string
	TorrentSize   string
	TorrentSeed   int
	TorrentLeech  int
	TorrentHash   string
}

// Key identifies the video across runs, e.g. "kodik:movie-123"
func (v *Video) Key() string {
	return fmt.Sprintf("%s:%s", v.Origin, v.ID)
}

// Validate checks the enumerated invariants
func (v *Video) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("video id is empty: %w", ErrInvalidArgument)
	}
	if !v.Origin.Valid() {
		return fmt.Errorf("video origin %q: %w", v.Origin, ErrInvalidArgument)
	}
	if !v.Type.Valid() {
		return fmt.Errorf("video type %q: %w", v.Type, ErrInvalidArgument)
	}
	return nil
}
