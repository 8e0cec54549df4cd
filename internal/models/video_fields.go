package models

import (
	"fmt"
	"strings"
)

// VideoField names a Video attribute. The names are the identifiers used in
// pattern templates and in the profile's field mapping.
type VideoField string

const (
	FieldID              VideoField = "id"
	FieldOrigin          VideoField = "origin"
	FieldVideoType       VideoField = "type"
	FieldTitle           VideoField = "title"
	FieldTitleAlt        VideoField = "title_alt"
	FieldTagline         VideoField = "tagline"
	FieldDescription     VideoField = "description"
	FieldYear            VideoField = "year"
	FieldDuration        VideoField = "duration"
	FieldAge             VideoField = "age"
	FieldQuality         VideoField = "quality"
	FieldTranslation     VideoField = "translation"
	FieldPlayer          VideoField = "player"
	FieldActors          VideoField = "actors"
	FieldDirectors       VideoField = "directors"
	FieldStudios         VideoField = "studios"
	FieldCountries       VideoField = "countries"
	FieldGenres          VideoField = "genres"
	FieldKinopoiskRating VideoField = "kinopoisk_rating"
	FieldKinopoiskVotes  VideoField = "kinopoisk_votes"
	FieldImdbRating      VideoField = "imdb_rating"
	FieldImdbVotes       VideoField = "imdb_votes"
	FieldTmdbRating      VideoField = "tmdb_rating"
	FieldTmdbVotes       VideoField = "tmdb_votes"
	FieldPoster          VideoField = "poster"
	FieldThumbnail       VideoField = "thumbnail"
	FieldScreenshots     VideoField = "screenshots"
	FieldKinopoiskID     VideoField = "kinopoisk_id"
	FieldImdbID          VideoField = "imdb_id"
	FieldTmdbID          VideoField = "tmdb_id"
	FieldWorldArtID      VideoField = "world_art_id"
	FieldShikimoriID     VideoField = "shikimori_id"
	FieldLastSeason      VideoField = "last_season"
	FieldLastEpisode     VideoField = "last_episode"
	FieldTorrentMagnet   VideoField = "torrent_magnet"
	FieldTorrentFile     VideoField = "torrent_file"
	FieldTorrentSize     VideoField = "torrent_size"
	FieldTorrentSeed     VideoField = "torrent_seed"
	FieldTorrentLeech    VideoField = "torrent_leech"
	FieldTorrentHash     VideoField = "torrent_hash"
)

// videoFields is the accessor table. Each accessor returns a string, int,
// float64 or []string.
var videoFields = []struct {
	name VideoField
	get  func(v *Video) any
}{
	{FieldID, func(v *Video) any { return v.ID }},
	{FieldOrigin, func(v *Video) any { return string(v.Origin) }},
	{FieldVideoType, func(v *Video) any { return string(v.Type) }},
	{FieldTitle, func(v *Video) any { return v.Title }},
	{FieldTitleAlt, func(v *Video) any { return v.TitleAlt }},
	{FieldTagline, func(v *Video) any { return v.Tagline }},
	{FieldDescription, func(v *Video) any { return v.Description }},
	{FieldYear, func(v *Video) any { return v.Year }},
	{FieldDuration, func(v *Video) any { return v.Duration }},
	{FieldAge, func(v *Video) any { return v.Age }},
	{FieldQuality, func(v *Video) any { return v.Quality }},
	{FieldTranslation, func(v *Video) any { return v.Translation }},
	{FieldPlayer, func(v *Video) any { return v.Player }},
	{FieldActors, func(v *Video) any { return v.Actors }},
	{FieldDirectors, func(v *Video) any { return v.Directors }},
	{FieldStudios, func(v *Video) any { return v.Studios }},
	{FieldCountries, func(v *Video) any { return v.Countries }},
	{FieldGenres, func(v *Video) any { return v.Genres }},
	{FieldKinopoiskRating, func(v *Video) any { return v.KinopoiskRating }},
	{FieldKinopoiskVotes, func(v *Video) any { return v.KinopoiskVotes }},
	{FieldImdbRating, func(v *Video) any { return v.ImdbRating }},
	{FieldImdbVotes, func(v *Video) any { return v.ImdbVotes }},
	{FieldTmdbRating, func(v *Video) any { return v.TmdbRating }},
	{FieldTmdbVotes, func(v *Video) any { return v.TmdbVotes }},
	{FieldPoster, func(v *Video) any { return v.Poster }},
	{FieldThumbnail, func(v *Video) any { return v.Thumbnail }},
	{FieldScreenshots, func(v *Video) any { return v.Screenshots }},
	{FieldKinopoiskID, func(v *Video) any { return v.KinopoiskID }},
	{FieldImdbID, func(v *Video) any { return v.ImdbID }},
	{FieldTmdbID, func(v *Video) any { return v.TmdbID }},
	{FieldWorldArtID, func(v *Video) any { return v.WorldArtID }},
	{FieldShikimoriID, func(v *Video) any { return v.ShikimoriID }},
	{FieldLastSeason, func(v *Video) any { return v.LastSeason }},
	{FieldLastEpisode, func(v *Video) any { return v.LastEpisode }},
	{FieldTorrentMagnet, func(v *Video) any { return v.TorrentMagnet }},
	{FieldTorrentFile, func(v *Video) any { return v.TorrentFile }},
	{FieldTorrentSize, func(v *Video) any { return v.TorrentSize }},
	{FieldTorrentSeed, func(v *Video) any { return v.TorrentSeed }},
	{FieldTorrentLeech, func(v *Video) any { return v.TorrentLeech }},
	{FieldTorrentHash, func(v *Video) any { return v.TorrentHash }},
}

var videoFieldIndex = func() map[VideoField]func(v *Video) any {
	index := make(map[VideoField]func(v *Video) any, len(videoFields))
	for _, f := range videoFields {
		index[f.name] = f.get
	}
	return index
}()

// VideoFields lists every field identifier in declaration order
func VideoFields() []VideoField {
	names := make([]VideoField, 0, len(videoFields))
	for _, f := range videoFields {
		names = append(names, f.name)
	}
	return names
}

// ParseVideoField validates a field identifier
func ParseVideoField(name string) (VideoField, error) {
	f := VideoField(strings.TrimSpace(name))
	if _, ok := videoFieldIndex[f]; !ok {
		return "", fmt.Errorf("unknown video field %q: %w", name, ErrInvalidArgument)
	}
	return f, nil
}

// Field returns the raw value of the named attribute
func (v *Video) Field(name VideoField) (any, bool) {
	get, ok := videoFieldIndex[name]
	if !ok {
		return nil, false
	}
	return get(v), true
}

// Context flattens the video into a template context. List attributes are
// joined with ", " under their own name and kept as slices under
// "<name>_list" so patterns can loop over them.
func (v *Video) Context() map[string]any {
	ctx := make(map[string]any, len(videoFields)+8)
	for _, f := range videoFields {
		value := f.get(v)
		if list, ok := value.([]string); ok {
			ctx[string(f.name)] = strings.Join(list, ", ")
			ctx[string(f.name)+"_list"] = list
			continue
		}
		ctx[string(f.name)] = value
	}
	return ctx
}
