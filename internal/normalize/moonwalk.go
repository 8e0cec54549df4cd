package normalize

import "github.com/amaumene/videosync/internal/models"

// Moonwalk normalizes a moonwalk balancer record. Identity: token.
func Moonwalk(raw models.RawRecord) (*models.Video, error) {
	token, err := requireIdentity(models.OriginMoonwalk, raw, "token")
	if err != nil {
		return nil, err
	}

	v := &models.Video{
		ID:          token,
		Origin:      models.OriginMoonwalk,
		Type:        movieOrSeries(raw.String("type")),
		Title:       raw.String("title_ru"),
		TitleAlt:    raw.String("title_en"),
		Year:        raw.Int("year"),
		Player:      absoluteURL(raw.String("iframe_url")),
		Translation: raw.String("translator"),
		KinopoiskID: raw.String("kinopoisk_id"),
		WorldArtID:  raw.String("world_art_id"),
		LastSeason:  raw.Int("last_season"),
		LastEpisode: raw.Int("last_episode"),
	}
	applyMaterialData(v, raw)
	setString(&v.Title, raw.String("title_ru"))

	return v, nil
}
