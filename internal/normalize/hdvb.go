package normalize

import "github.com/amaumene/videosync/internal/models"

// Hdvb normalizes an hdvb record. Identity: token.
func Hdvb(raw models.RawRecord) (*models.Video, error) {
	token, err := requireIdentity(models.OriginHdvb, raw, "token")
	if err != nil {
		return nil, err
	}

	return &models.Video{
		ID:          token,
		Origin:      models.OriginHdvb,
		Type:        movieOrSeries(raw.String("type")),
		Title:       raw.String("title_ru"),
		TitleAlt:    raw.String("title_en"),
		Year:        raw.Int("year"),
		Quality:     raw.String("quality"),
		Translation: raw.String("translator"),
		Player:      absoluteURL(raw.String("iframe_url")),
		Poster:      raw.String("poster"),
		KinopoiskID: raw.String("kinopoisk_id"),
		ImdbID:      raw.String("imdb_id"),
	}, nil
}
