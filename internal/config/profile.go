package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/amaumene/videosync/internal/categories"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/synth"
	"github.com/amaumene/videosync/internal/xfields"
)

// Profile is the synthesis profile as written in profile.yaml
type Profile struct {
	Patterns       PatternsConfig   `yaml:"patterns"`
	Fields         []FieldMapping   `yaml:"fields"`
	XFields        string           `yaml:"xfields"`
	Categories     CategoriesConfig `yaml:"categories"`
	Flags          FlagsConfig      `yaml:"flags"`
	UpdateExisting bool             `yaml:"update_existing"`
	Author         string           `yaml:"author"`
}

// PatternsConfig holds one template per post field
type PatternsConfig struct {
	Title           string `yaml:"title"`
	ShortStory      string `yaml:"short_story"`
	FullStory       string `yaml:"full_story"`
	MetaTitle       string `yaml:"meta_title"`
	MetaDescription string `yaml:"meta_description"`
	MetaKeywords    string `yaml:"meta_keywords"`
	Tags            string `yaml:"tags"`
}

// FieldMapping routes a video field into an extra field
type FieldMapping struct {
	Field string `yaml:"field"`
	Name  string `yaml:"name"`
}

// CategoriesConfig selects category sources and creation behavior
type CategoriesConfig struct {
	FromType   bool   `yaml:"from_type"`
	FromGenres bool   `yaml:"from_genres"`
	Mode       string `yaml:"mode"`
	Case       string `yaml:"case"`
}

// FlagsConfig holds the publication switches of new posts
type FlagsConfig struct {
	AllowComments bool `yaml:"allow_comments"`
	ShowOnMain    bool `yaml:"show_on_main"`
	Published     bool `yaml:"published"`
	Pinned        bool `yaml:"pinned"`
}

// DefaultProfile is used when no profile file exists
func DefaultProfile() *Profile {
	return &Profile{
		Patterns: PatternsConfig{
			Title:           "{title}{% if year %} ({year}){% endif %}",
			ShortStory:      "{description}",
			FullStory:       "{description}",
			MetaTitle:       "{title} смотреть онлайн",
			MetaDescription: "{description}",
			MetaKeywords:    "{title}, {title_alt}",
			Tags:            "{genres}",
		},
		Fields: []FieldMapping{
			{Field: string(models.FieldPoster), Name: "poster"},
			{Field: string(models.FieldYear), Name: "year"},
			{Field: string(models.FieldCountries), Name: "country"},
			{Field: string(models.FieldPlayer), Name: "player"},
		},
		XFields: "poster|Постер||image\nyear|Год||text\ncountry|Страна||text\nplayer|Плеер||text",
		Categories: CategoriesConfig{
			FromType:   true,
			FromGenres: true,
			Mode:       string(categories.ModeCreateIfMissing),
			Case:       string(categories.CaseCapitalize),
		},
		Flags: FlagsConfig{
			AllowComments: true,
			ShowOnMain:    true,
			Published:     true,
		},
		UpdateExisting: true,
	}
}

// LoadProfile reads the synthesis profile, falling back to DefaultProfile
// when the file does not exist
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultProfile(), nil
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &profile, nil
}

// Settings validates the profile and builds the synthesizer settings.
// defaultAuthor is used when the profile names no author.
func (p *Profile) Settings(defaultAuthor string) (synth.Settings, error) {
	mode, err := categories.ParseCreationMode(p.Categories.Mode)
	if err != nil {
		return synth.Settings{}, fmt.Errorf("profile categories: %w", err)
	}
	caseMode, err := categories.ParseCaseMode(p.Categories.Case)
	if err != nil {
		return synth.Settings{}, fmt.Errorf("profile categories: %w", err)
	}

	mapping := make([]xfields.Mapping, 0, len(p.Fields))
	names := make(map[string]int, len(p.Fields))
	for i, f := range p.Fields {
		field, err := models.ParseVideoField(f.Field)
		if err != nil {
			return synth.Settings{}, fmt.Errorf("profile fields[%d]: %w", i, err)
		}
		if f.Name == "" {
			return synth.Settings{}, fmt.Errorf("profile fields[%d]: empty name: %w", i, models.ErrInvalidArgument)
		}
		if prev, dup := names[f.Name]; dup {
			return synth.Settings{}, fmt.Errorf("profile fields[%d]: name %q already used by fields[%d]: %w", i, f.Name, prev, models.ErrInvalidArgument)
		}
		names[f.Name] = i
		mapping = append(mapping, xfields.Mapping{Field: field, Name: f.Name})
	}

	author := p.Author
	if author == "" {
		author = defaultAuthor
	}

	return synth.Settings{
		Patterns: synth.Patterns{
			Title:           p.Patterns.Title,
			ShortStory:      p.Patterns.ShortStory,
			FullStory:       p.Patterns.FullStory,
			MetaTitle:       p.Patterns.MetaTitle,
			MetaDescription: p.Patterns.MetaDescription,
			MetaKeywords:    p.Patterns.MetaKeywords,
			Tags:            p.Patterns.Tags,
		},
		Fields:      mapping,
		Definitions: xfields.ParseDefinitions(p.XFields),
		Categories: categories.Options{
			FromType:   p.Categories.FromType,
			FromGenres: p.Categories.FromGenres,
			Mode:       mode,
			Case:       caseMode,
		},
		Flags: synth.Flags{
			AllowComments: p.Flags.AllowComments,
			ShowOnMain:    p.Flags.ShowOnMain,
			Published:     p.Flags.Published,
			Pinned:        p.Flags.Pinned,
		},
		DefaultAuthor:  author,
		UpdateExisting: p.UpdateExisting,
	}, nil
}
