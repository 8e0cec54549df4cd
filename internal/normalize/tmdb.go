package normalize

import (
	"strings"

	"github.com/amaumene/videosync/internal/models"
)

const (
	tmdbPosterBase   = "https://image.tmdb.org/t/p/w500"
	tmdbBackdropBase = "https://image.tmdb.org/t/p/w780"
)

// Tmdb normalizes a TMDB movie or tv details record. Identity: id.
func Tmdb(raw models.RawRecord) (*models.Video, error) {
	id, err := requireIdentity(models.OriginTmdb, raw, "id")
	if err != nil {
		return nil, err
	}

	v := &models.Video{
		ID:          id,
		Origin:      models.OriginTmdb,
		Type:        tmdbType(raw),
		Title:       raw.First("title", "name"),
		TitleAlt:    raw.First("original_title", "original_name"),
		Tagline:     raw.String("tagline"),
		Description: raw.String("overview"),
		Year:        raw.Int(firstPath(raw, "release_date", "first_air_date")),
		Duration:    raw.Int("runtime"),
		Genres:      raw.Strings("genres"),
		Countries:   raw.Strings("production_countries"),
		Studios:     raw.Strings("production_companies"),
		TmdbRating:  raw.Float("vote_average"),
		TmdbVotes:   raw.Int("vote_count"),
		TmdbID:      id,
		ImdbID:      raw.First("imdb_id", "external_ids.imdb_id"),
		LastSeason:  raw.Int("number_of_seasons"),
		LastEpisode: raw.Int("last_episode_to_air.episode_number"),
	}
	if v.Duration == 0 {
		if runtimes, ok := raw.Get("episode_run_time"); ok {
			if list, ok := runtimes.([]any); ok && len(list) > 0 {
				v.Duration = models.RawRecord{"runtime": list[0]}.Int("runtime")
			}
		}
	}
	if p := raw.String("poster_path"); p != "" {
		v.Poster = tmdbPosterBase + p
	}
	if b := raw.String("backdrop_path"); b != "" {
		v.Thumbnail = tmdbBackdropBase + b
	}

	for _, member := range raw.Records("credits.cast") {
		if name := member.String("name"); name != "" {
			v.Actors = append(v.Actors, name)
		}
	}
	for _, member := range raw.Records("credits.crew") {
		if strings.EqualFold(member.String("job"), "Director") {
			v.Directors = append(v.Directors, member.String("name"))
		}
	}
	for _, creator := range raw.Records("created_by") {
		if name := creator.String("name"); name != "" {
			v.Directors = append(v.Directors, name)
		}
	}

	return v, nil
}

func tmdbType(raw models.RawRecord) models.VideoType {
	switch raw.String("media_type") {
	case "movie":
		return models.VideoTypeMovie
	case "tv":
		return models.VideoTypeSeries
	}
	if raw.Has("first_air_date") || raw.Has("name") {
		return models.VideoTypeSeries
	}
	return models.VideoTypeMovie
}

func firstPath(raw models.RawRecord, paths ...string) string {
	for _, p := range paths {
		if raw.Has(p) {
			return p
		}
	}
	return paths[0]
}
