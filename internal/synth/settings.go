// Package synth builds publishable posts from canonical videos and converts
// posts to and from their flat storage shape.
package synth

import (
	"context"

	"github.com/amaumene/videosync/internal/categories"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/xfields"
)

// Patterns holds the per-field templates. An empty title pattern falls back
// to the video title; other empty patterns leave the field empty.
type Patterns struct {
	Title           string
	ShortStory      string
	FullStory       string
	MetaTitle       string
	MetaDescription string
	MetaKeywords    string
	Tags            string
}

// Flags are the publication switches applied to new posts
type Flags struct {
	AllowComments bool
	ShowOnMain    bool
	Published     bool
	Pinned        bool
}

// Settings is the validated synthesis profile
type Settings struct {
	Patterns       Patterns
	Fields         []xfields.Mapping
	Definitions    []models.ExtraField
	Categories     categories.Options
	Flags          Flags
	DefaultAuthor  string
	UpdateExisting bool
}

// storedFields lists every field name a stored blob may legitimately carry:
// the definitions plus mapped names that have no definition.
func (s Settings) storedFields() []models.ExtraField {
	fields := append([]models.ExtraField(nil), s.Definitions...)
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f.Name] = true
	}
	for _, m := range s.Fields {
		if m.Name == "" || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		fields = append(fields, models.ExtraField{Name: m.Name, Label: m.Name, Type: models.FieldTypeText})
	}
	return fields
}

type authorKey struct{}

// WithAuthor attaches the acting user to ctx
func WithAuthor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, authorKey{}, name)
}

// AuthorFromContext returns the acting user attached with WithAuthor
func AuthorFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(authorKey{}).(string)
	return name, ok && name != ""
}
