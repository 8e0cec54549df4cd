package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/videosync/internal/models"
)

func TestRewriteBraces(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{title} ({year})", "{{ title }} ({{ year }})"},
		{"{{ title }}", "{{ title }}"},
		{"{% if year %}{year}{% endif %}", "{% if year %}{{ year }}{% endif %}"},
		{"{# note #}{title}", "{# note #}{{ title }}"},
		{"{ not a ref }", "{ not a ref }"},
		{"{1abc}", "{1abc}"},
		{"{}", "{}"},
		{"dangling {", "dangling {"},
		{"{{ unclosed", "{{ unclosed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RewriteBraces(tt.in), tt.in)
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer()
	ctx := map[string]any{
		"title":       "Интерстеллар",
		"year":        2014,
		"genres":      "драма, фантастика",
		"genres_list": []string{"драма", "фантастика"},
		"tagline":     "",
	}

	out, err := r.Render("{title} ({year})", ctx)
	require.NoError(t, err)
	assert.Equal(t, "Интерстеллар (2014)", out)

	out, err = r.Render("{{ title }}{% if tagline %}: {tagline}{% endif %}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "Интерстеллар", out)

	out, err = r.Render("{% for g in genres_list %}#{{ g }} {% endfor %}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "#драма #фантастика", out)

	out, err = r.Render("", ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRender_NoEscaping(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("<b>{title}</b>", map[string]any{"title": "Tom & Jerry"})
	require.NoError(t, err)
	assert.Equal(t, "<b>Tom & Jerry</b>", out)
}

func TestRender_SyntaxError(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render("{% if title %}unterminated", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, models.ErrFormat)
}

func TestRenderVideo(t *testing.T) {
	r := NewRenderer()
	video := &models.Video{Title: "Тьма", Actors: []string{"Луис Хофманн", "Оливер Мазуччи"}}
	out, err := r.RenderVideo("{title}: {actors}", video)
	require.NoError(t, err)
	assert.Equal(t, "Тьма: Луис Хофманн, Оливер Мазуччи", out)
}

func TestResolveListTags(t *testing.T) {
	fields := []models.ExtraField{
		{Name: "actors", Value: "Луис Хофманн, Оливер Мазуччи"},
		{Name: "flags", Value: "1,0"},
	}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"value", `[tag_actors index="2"]`, "Оливер Мазуччи"},
		{"out of range", `[tag_actors index="3"]`, ""},
		{"zero index", `[tag_actors index="0"]`, ""},
		{"unknown field", `[tag_director index="1"]`, ""},
		{"has present", `[tag_has_actors index="1"]<p>[tag_actors index="1"]</p>[/tag_has_actors]`, "<p>Луис Хофманн</p>"},
		{"has absent", `[tag_has_actors index="5"]x[/tag_has_actors]`, ""},
		{"has falsy", `[tag_has_flags index="2"]x[/tag_has_flags]`, ""},
		{"not absent", `[tag_not_actors index="5"]none[/tag_not_actors]`, "none"},
		{"not missing field", `[tag_not_director index="1"]none[/tag_not_director]`, "none"},
		{"not present", `[tag_not_flags index="1"]x[/tag_not_flags]`, ""},
		{"mismatched close", `[tag_has_actors index="1"]x[/tag_not_actors]`, `[tag_has_actors index="1"]x[/tag_not_actors]`},
		{"multiline block", "[tag_has_actors index=\"1\"]a\nb[/tag_has_actors]", "a\nb"},
		{"nested other field",
			`[tag_has_actors index="1"]<b>[tag_actors index="1"]</b>[tag_not_dirs index="2"] no second director[/tag_not_dirs][/tag_has_actors]`,
			"<b>Луис Хофманн</b> no second director"},
		{"nested same field",
			`[tag_has_actors index="1"]a[tag_has_actors index="2"]b[/tag_has_actors]c[/tag_has_actors]`,
			"abc"},
		{"nested dropped outer", `[tag_has_actors index="9"]a[tag_not_dirs index="1"]b[/tag_not_dirs][/tag_has_actors]`, ""},
		{"unclosed inner", `[tag_has_actors index="1"]a[tag_has_dirs index="1"]b[/tag_has_actors]`, `a[tag_has_dirs index="1"]b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveListTags(tt.content, fields))
		})
	}
}
