package synth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/categories"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/render"
	"github.com/amaumene/videosync/internal/utils"
	"github.com/amaumene/videosync/internal/xfields"
)

// Synthesizer combines a video, the profile patterns, derived extra fields
// and resolved categories into a post
type Synthesizer struct {
	settings Settings
	renderer *render.Renderer
	resolver *categories.Resolver
	logger   *logrus.Logger
	now      func() time.Time
}

// NewSynthesizer creates a synthesizer for the given profile
func NewSynthesizer(settings Settings, renderer *render.Renderer, resolver *categories.Resolver, logger *logrus.Logger) *Synthesizer {
	return &Synthesizer{
		settings: settings,
		renderer: renderer,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// Settings returns the profile the synthesizer was built with
func (s *Synthesizer) Settings() Settings {
	return s.settings
}

// FromVideo synthesizes a fresh post. Categories follow the profile switches
// with the given creation mode; the author comes from ctx or the profile.
func (s *Synthesizer) FromVideo(ctx context.Context, video *models.Video, mode categories.CreationMode) (*models.Post, error) {
	if err := video.Validate(); err != nil {
		return nil, err
	}

	post := &models.Post{
		Date:          s.now(),
		AllowComments: s.settings.Flags.AllowComments,
		ShowOnMain:    s.settings.Flags.ShowOnMain,
		Published:     s.settings.Flags.Published,
		Pinned:        s.settings.Flags.Pinned,
	}

	tplCtx := video.Context()
	for _, f := range xfields.Describe(xfields.DeriveFromVideo(video, s.settings.Fields), s.settings.Definitions) {
		if err := post.AddExtraField(f); err != nil {
			return nil, fmt.Errorf("video %s: %w", video.Key(), err)
		}
		tplCtx["xf_"+f.Name] = f.Value
	}

	post.Author = s.settings.DefaultAuthor
	if author, ok := AuthorFromContext(ctx); ok {
		post.Author = author
	}
	tplCtx["author"] = post.Author

	p := s.settings.Patterns
	targets := []struct {
		pattern string
		dst     *string
	}{
		{p.Title, &post.Title},
		{p.ShortStory, &post.ShortStory},
		{p.FullStory, &post.FullStory},
		{p.MetaTitle, &post.MetaTitle},
		{p.MetaDescription, &post.MetaDescription},
		{p.MetaKeywords, &post.MetaKeywords},
	}
	for _, t := range targets {
		out, err := s.renderer.Render(t.pattern, tplCtx)
		if err != nil {
			return nil, fmt.Errorf("video %s: %w", video.Key(), err)
		}
		*t.dst = render.ResolveListTags(out, post.ExtraFields)
	}
	if post.Title == "" {
		post.Title = video.Title
	}
	post.Slug = utils.Slugify(post.Title)

	tags, err := s.renderer.Render(p.Tags, tplCtx)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", video.Key(), err)
	}
	post.Tags = splitList(render.ResolveListTags(tags, post.ExtraFields))

	opts := s.settings.Categories
	opts.Mode = mode
	post.Categories, err = s.resolver.ResolveForVideo(ctx, video, opts)
	if err != nil {
		return nil, fmt.Errorf("video %s categories: %w", video.Key(), err)
	}

	s.logger.WithFields(logrus.Fields{
		"video":      video.Key(),
		"title":      post.Title,
		"fields":     len(post.ExtraFields),
		"categories": len(post.Categories),
	}).Debug("Synthesized post")

	return post, nil
}

// Merge folds a fresh synthesis into a stored post. Identity, slug, date,
// author and publication flags of the stored post are kept. Narrative, meta
// and tags are replaced when the fresh value is non-empty. Extra fields are
// updated in place or appended; categories are unioned by id.
func Merge(stored, fresh *models.Post) (*models.Post, error) {
	merged := *stored
	merged.Tags = append([]string(nil), stored.Tags...)
	merged.Categories = append([]models.Category(nil), stored.Categories...)
	merged.ExtraFields = append([]models.ExtraField(nil), stored.ExtraFields...)

	replace := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	replace(&merged.Title, fresh.Title)
	replace(&merged.ShortStory, fresh.ShortStory)
	replace(&merged.FullStory, fresh.FullStory)
	replace(&merged.MetaTitle, fresh.MetaTitle)
	replace(&merged.MetaDescription, fresh.MetaDescription)
	replace(&merged.MetaKeywords, fresh.MetaKeywords)
	if len(fresh.Tags) > 0 {
		merged.Tags = append([]string(nil), fresh.Tags...)
	}

	for _, f := range fresh.ExtraFields {
		if _, ok := merged.FindExtraField(f.Name); ok {
			if err := merged.SetExtraFieldValue(f.Name, f.Value); err != nil {
				return nil, err
			}
			continue
		}
		if err := merged.AddExtraField(f); err != nil {
			return nil, err
		}
	}

	for _, c := range fresh.Categories {
		if c.Persisted() && merged.HasCategory(c.ID) {
			continue
		}
		merged.Categories = append(merged.Categories, c)
	}

	return &merged, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
