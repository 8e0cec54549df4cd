package normalize

import (
	"fmt"
	"regexp"

	"github.com/anacrolix/torrent/metainfo"

	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/utils"
)

var seriesRelease = regexp.MustCompile(`(?i)\bS\d{1,2}(E\d{1,3})?\b|сезон|серии`)

// Rutor normalizes a scraped torrent-index release. Identity: id. The
// release name carries the titles, year and quality.
func Rutor(raw models.RawRecord) (*models.Video, error) {
	id, err := requireIdentity(models.OriginRutor, raw, "id")
	if err != nil {
		return nil, err
	}

	release := raw.String("title")
	local, original := utils.SplitReleaseTitle(release)

	v := &models.Video{
		ID:            id,
		Origin:        models.OriginRutor,
		Type:          models.VideoTypeMovie,
		Title:         local,
		TitleAlt:      original,
		Year:          utils.ExtractYear(release),
		Quality:       utils.DetermineQuality(release),
		Description:   raw.String("description"),
		Poster:        raw.String("poster"),
		Genres:        raw.Strings("genres"),
		ImdbID:        raw.String("imdb_id"),
		KinopoiskID:   raw.String("kinopoisk_id"),
		TorrentMagnet: raw.String("magnet"),
		TorrentFile:   raw.String("file"),
		TorrentSize:   raw.String("size"),
		TorrentSeed:   raw.Int("seed"),
		TorrentLeech:  raw.Int("leech"),
	}
	if seriesRelease.MatchString(release) {
		v.Type = models.VideoTypeSeries
	}
	if v.Title == "" {
		v.Title = release
	}

	if v.TorrentMagnet != "" {
		magnet, err := metainfo.ParseMagnetUri(v.TorrentMagnet)
		if err != nil {
			return nil, fmt.Errorf("rutor release %s magnet: %v: %w", id, err, models.ErrFormat)
		}
		v.TorrentHash = magnet.InfoHash.HexString()
	}

	return v, nil
}
