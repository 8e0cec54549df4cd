// Package normalize maps provider-shaped records into the canonical Video.
// Each origin has exactly one Normalizer; dispatch happens once on the tag.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/amaumene/videosync/internal/models"
)

// Normalizer converts one raw provider record into a Video
type Normalizer func(raw models.RawRecord) (*models.Video, error)

var normalizers = map[models.Origin]Normalizer{
	models.OriginMoonwalk: Moonwalk,
	models.OriginTmdb:     Tmdb,
	models.OriginKodik:    Kodik,
	models.OriginHdvb:     Hdvb,
	models.OriginVideoCdn: VideoCdn,
	models.OriginRutor:    Rutor,
}

// For returns the normalizer registered for origin
func For(origin models.Origin) (Normalizer, error) {
	n, ok := normalizers[origin]
	if !ok {
		return nil, fmt.Errorf("no normalizer for origin %q: %w", origin, models.ErrInvalidArgument)
	}
	return n, nil
}

// Normalize dispatches raw to the normalizer of origin and validates the result
func Normalize(origin models.Origin, raw models.RawRecord) (*models.Video, error) {
	n, err := For(origin)
	if err != nil {
		return nil, err
	}
	video, err := n(raw)
	if err != nil {
		return nil, err
	}
	if err := video.Validate(); err != nil {
		return nil, err
	}
	return video, nil
}

// requireIdentity returns the identity value at path or an InvalidArgument error
func requireIdentity(origin models.Origin, raw models.RawRecord, path string) (string, error) {
	id := raw.String(path)
	if id == "" {
		return "", fmt.Errorf("%s record without %q: %w", origin, path, models.ErrInvalidArgument)
	}
	return id, nil
}

// applyMaterialData fills descriptive fields from the material_data block
// shared by the iframe balancers (moonwalk, kodik).
func applyMaterialData(v *models.Video, raw models.RawRecord) {
	const md = "material_data."

	setString(&v.Title, raw.String(md+"title"))
	setString(&v.Description, raw.String(md+"description"))
	setString(&v.Tagline, raw.String(md+"tagline"))
	setString(&v.Poster, raw.First(md+"poster", md+"poster_url"))
	if v.Year == 0 {
		v.Year = raw.Int(md + "year")
	}
	if d := raw.Int(md + "duration"); d > 0 {
		v.Duration = d
	}
	v.Age = raw.Int(md + "age")
	if v.Age == 0 {
		v.Age = raw.Int(md + "minimal_age")
	}

	setList(&v.Actors, raw.Strings(md+"actors"))
	setList(&v.Directors, raw.Strings(md+"directors"))
	setList(&v.Studios, raw.Strings(md+"studios"))
	setList(&v.Countries, raw.Strings(md+"countries"))
	setList(&v.Genres, raw.Strings(md+"genres"))

	v.KinopoiskRating = raw.Float(md + "kinopoisk_rating")
	v.KinopoiskVotes = raw.Int(md + "kinopoisk_votes")
	v.ImdbRating = raw.Float(md + "imdb_rating")
	v.ImdbVotes = raw.Int(md + "imdb_votes")
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setList(dst *[]string, value []string) {
	if len(value) > 0 {
		*dst = value
	}
}

// absoluteURL turns protocol-relative player links into https URLs
func absoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

var trailingDigits = regexp.MustCompile(`(\d+)/?$`)

// idFromLink extracts the numeric id at the end of a catalog link, e.g.
// "http://www.world-art.ru/cinema/cinema.php?id=12345"
func idFromLink(link string) string {
	if m := trailingDigits.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return ""
}

// movieOrSeries maps the common "movie"/"serial" tag pair
func movieOrSeries(tag string) models.VideoType {
	switch strings.ToLower(tag) {
	case "movie", "film":
		return models.VideoTypeMovie
	case "serial", "series", "tv":
		return models.VideoTypeSeries
	case "":
		return models.VideoTypeMixed
	default:
		return models.VideoTypeVideo
	}
}
