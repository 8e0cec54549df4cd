package normalize

import (
	"strings"

	"github.com/amaumene/videosync/internal/models"
)

// Kodik normalizes a kodik search record. Identity: id.
func Kodik(raw models.RawRecord) (*models.Video, error) {
	id, err := requireIdentity(models.OriginKodik, raw, "id")
	if err != nil {
		return nil, err
	}

	v := &models.Video{
		ID:          id,
		Origin:      models.OriginKodik,
		Type:        kodikType(raw.String("type")),
		Title:       raw.String("title"),
		TitleAlt:    raw.String("title_orig"),
		Year:        raw.Int("year"),
		Quality:     raw.String("quality"),
		Translation: raw.String("translation.title"),
		Player:      absoluteURL(raw.String("link")),
		KinopoiskID: raw.String("kinopoisk_id"),
		ImdbID:      raw.String("imdb_id"),
		ShikimoriID: raw.String("shikimori_id"),
		WorldArtID:  idFromLink(raw.String("worldart_link")),
		Screenshots: raw.Strings("screenshots"),
		LastSeason:  raw.Int("last_season"),
		LastEpisode: raw.Int("last_episode"),
	}
	applyMaterialData(v, raw)
	// the player title is the localized one, material_data may carry another
	setString(&v.Title, raw.String("title"))
	if len(v.Screenshots) > 0 {
		v.Thumbnail = v.Screenshots[0]
	}

	return v, nil
}

// kodikType maps tags like "foreign-movie", "anime-serial" or "soviet-cartoon"
func kodikType(tag string) models.VideoType {
	tag = strings.ToLower(tag)
	switch {
	case tag == "":
		return models.VideoTypeMixed
	case strings.Contains(tag, "serial"):
		return models.VideoTypeSeries
	case strings.Contains(tag, "movie"), strings.Contains(tag, "cartoon"),
		strings.Contains(tag, "film"), tag == "anime":
		return models.VideoTypeMovie
	default:
		return models.VideoTypeVideo
	}
}
