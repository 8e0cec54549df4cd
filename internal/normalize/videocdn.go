package normalize

import (
	"strings"

	"github.com/amaumene/videosync/internal/models"
)

// VideoCdn normalizes a videocdn short-list record. Identity: id.
func VideoCdn(raw models.RawRecord) (*models.Video, error) {
	id, err := requireIdentity(models.OriginVideoCdn, raw, "id")
	if err != nil {
		return nil, err
	}

	v := &models.Video{
		ID:          id,
		Origin:      models.OriginVideoCdn,
		Type:        videoCdnType(raw.String("content_type")),
		Title:       raw.String("ru_title"),
		TitleAlt:    raw.String("orig_title"),
		Year:        raw.Int("released"),
		Quality:     raw.String("quality"),
		Player:      absoluteURL(raw.String("iframe_src")),
		KinopoiskID: raw.String("kinopoisk_id"),
		ImdbID:      raw.String("imdb_id"),
		LastSeason:  raw.Int("season_count"),
		LastEpisode: raw.Int("episode_count"),
	}
	if translations := raw.Strings("translations"); len(translations) > 0 {
		v.Translation = strings.Join(translations, ", ")
	}

	return v, nil
}

func videoCdnType(contentType string) models.VideoType {
	switch contentType {
	case "movie", "anime":
		return models.VideoTypeMovie
	case "tv_series", "anime_tv_series", "show_tv_series":
		return models.VideoTypeSeries
	case "":
		return models.VideoTypeMixed
	default:
		return models.VideoTypeVideo
	}
}
