package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLabel(t *testing.T) {
	tests := []struct {
		videoType VideoType
		want      string
	}{
		{VideoTypeMixed, "разное"},
		{VideoTypeVideo, "видео"},
		{VideoTypeMovie, "фильмы"},
		{VideoTypeSeries, "сериалы"},
	}
	for _, tt := range tests {
		label, err := tt.videoType.CategoryLabel()
		require.NoError(t, err)
		assert.Equal(t, tt.want, label)
	}

	_, err := VideoType("cartoon").CategoryLabel()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseOrigin(t *testing.T) {
	for _, o := range Origins() {
		parsed, err := ParseOrigin(string(o))
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}
	_, err := ParseOrigin("youtube")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestVideoValidate(t *testing.T) {
	v := &Video{ID: "1", Origin: OriginKodik, Type: VideoTypeMovie}
	assert.NoError(t, v.Validate())
	assert.Equal(t, "kodik:1", v.Key())

	v.Type = "cartoon"
	assert.ErrorIs(t, v.Validate(), ErrInvalidArgument)
	v.Type = VideoTypeMovie
	v.Origin = "youtube"
	assert.ErrorIs(t, v.Validate(), ErrInvalidArgument)
}

func TestVideoContext(t *testing.T) {
	v := &Video{ID: "7", Origin: OriginTmdb, Type: VideoTypeMovie, Title: "Interstellar", Year: 2014,
		Genres: []string{"фантастика", "драма"}}
	ctx := v.Context()

	assert.Equal(t, "Interstellar", ctx["title"])
	assert.Equal(t, 2014, ctx["year"])
	assert.Equal(t, "фантастика, драма", ctx["genres"])
	assert.Equal(t, []string{"фантастика", "драма"}, ctx["genres_list"])
	assert.Equal(t, "tmdb", ctx["origin"])

	value, ok := v.Field(FieldGenres)
	require.True(t, ok)
	assert.Equal(t, []string{"фантастика", "драма"}, value)
	_, ok = v.Field("nope")
	assert.False(t, ok)

	_, err := ParseVideoField("nope")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	f, err := ParseVideoField(" imdb_rating ")
	require.NoError(t, err)
	assert.Equal(t, FieldImdbRating, f)

	f, err = ParseVideoField("type")
	require.NoError(t, err)
	assert.Equal(t, FieldVideoType, f)
	value, ok = v.Field(f)
	require.True(t, ok)
	assert.Equal(t, "movie", value)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, 0, ErrorCode(nil))
	assert.Equal(t, 106, ErrorCode(fmt.Errorf("step: %w", ErrOverflow)))
	assert.Equal(t, 203, ErrorCode(fmt.Errorf("kodik: %w", ErrInvalidToken)))
	assert.Equal(t, CodeUnknown, ErrorCode(fmt.Errorf("boom")))
}
