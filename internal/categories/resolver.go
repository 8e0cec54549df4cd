// Package categories maps free-text names onto taxonomy entries
package categories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/utils"
)

const knownKey = "known"

// nearMissDistance is the largest edit distance reported as a likely typo
const nearMissDistance = 2

// Taxonomy is the category storage collaborator
type Taxonomy interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	AddCategory(ctx context.Context, category models.Category) (models.Category, error)
}

// Options selects which video attributes become categories and how
type Options struct {
	FromType   bool
	FromGenres bool
	Mode       CreationMode
	Case       CaseMode
}

// Resolver resolves names against a cached snapshot of the taxonomy. The
// snapshot only grows within a run: creations invalidate and reload it.
type Resolver struct {
	taxonomy Taxonomy
	cache    *cache.Cache
	logger   *logrus.Logger
}

// NewResolver creates a resolver whose snapshot expires after ttl
func NewResolver(taxonomy Taxonomy, ttl time.Duration, logger *logrus.Logger) *Resolver {
	return &Resolver{
		taxonomy: taxonomy,
		cache:    cache.New(ttl, 2*ttl),
		logger:   logger,
	}
}

// Known returns the current taxonomy snapshot, loading it on a miss
func (r *Resolver) Known(ctx context.Context) ([]models.Category, error) {
	if cached, found := r.cache.Get(knownKey); found {
		known := cached.([]models.Category)
		return append([]models.Category(nil), known...), nil
	}

	known, err := r.taxonomy.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	r.cache.Set(knownKey, known, cache.DefaultExpiration)
	r.logger.WithField("count", len(known)).Debug("Loaded category snapshot")

	return append([]models.Category(nil), known...), nil
}

// Invalidate drops the cached snapshot
func (r *Resolver) Invalidate() {
	r.cache.Delete(knownKey)
}

// ResolveForVideo resolves the type label and genres of a video
func (r *Resolver) ResolveForVideo(ctx context.Context, video *models.Video, opts Options) ([]models.Category, error) {
	names, err := VideoNames(video, opts.FromType, opts.FromGenres, opts.Case)
	if err != nil {
		return nil, err
	}
	return r.ResolveFromNames(ctx, names, opts.Mode)
}

// ResolveFromNames matches names case-insensitively against the snapshot.
// Unmatched names are dropped, created through the taxonomy, or built in
// memory depending on mode. Categories created before a failing creation
// stay in the taxonomy.
func (r *Resolver) ResolveFromNames(ctx context.Context, names []string, mode CreationMode) ([]models.Category, error) {
	known, err := r.Known(ctx)
	if err != nil {
		return nil, err
	}

	created := false
	var result []models.Category
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		if c, ok := MatchName(name, known); ok {
			result = append(result, c)
			continue
		}

		switch mode {
		case ModeUseOnlyExisting:
			r.logNearMiss(name, known)
		case ModeCreateIfMissing:
			c, err := r.taxonomy.AddCategory(ctx, models.NewCategory(name, utils.Slugify(name)))
			if err != nil {
				if created {
					r.Invalidate()
				}
				return nil, fmt.Errorf("failed to create category %q: %w", name, err)
			}
			created = true
			known = append(known, c)
			result = append(result, c)
			r.logger.WithFields(logrus.Fields{
				"id":   c.ID,
				"name": c.Name,
			}).Info("Created category")
		default:
			result = append(result, models.NewCategory(name, utils.Slugify(name)))
		}
	}

	if created {
		r.Invalidate()
		if _, err := r.Known(ctx); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// MatchName finds a category by case-insensitive name
func MatchName(name string, known []models.Category) (models.Category, bool) {
	for _, c := range known {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return models.Category{}, false
}

// ResolveFromIDList resolves a comma-separated id list. Any unknown id fails
// the whole call.
func ResolveFromIDList(csv string, known []models.Category) ([]models.Category, error) {
	byID := make(map[string]models.Category, len(known))
	for _, c := range known {
		byID[c.ID] = c
	}

	var result []models.Category
	for _, id := range strings.Split(csv, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("category id %q: %w", id, models.ErrNotFound)
		}
		result = append(result, c)
	}
	return result, nil
}

func (r *Resolver) logNearMiss(name string, known []models.Category) {
	best, bestDistance := "", -1
	lower := strings.ToLower(name)
	for _, c := range known {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c.Name))
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = c.Name, d
		}
	}

	entry := r.logger.WithField("name", name)
	if bestDistance >= 0 && bestDistance <= nearMissDistance {
		entry = entry.WithFields(logrus.Fields{
			"closest":  best,
			"distance": bestDistance,
		})
	}
	entry.Debug("Skipping unknown category")
}
