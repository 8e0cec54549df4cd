package synth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/categories"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/xfields"
)

// DateLayout is the storage format of the post date column
const DateLayout = "2006-01-02 15:04:05"

// Storage shape column names
const (
	ColID         = "id"
	ColAuthor     = "autor"
	ColDate       = "date"
	ColShortStory = "short_story"
	ColFullStory  = "full_story"
	ColXFields    = "xfields"
	ColTitle      = "title"
	ColMetaTitle  = "metatitle"
	ColMetaDescr  = "descr"
	ColKeywords   = "keywords"
	ColCategory   = "category"
	ColSlug       = "alt_name"
	ColTags       = "tags"
	ColAllowComm  = "allow_comm"
	ColAllowMain  = "allow_main"
	ColApprove    = "approve"
	ColFixed      = "fixed"
)

// ToStorage flattens a post. Every attached category must carry an id.
func ToStorage(post *models.Post) (map[string]any, error) {
	ids, err := post.CategoryIDs()
	if err != nil {
		return nil, err
	}
	blob, err := xfields.SerializeValues(post.ExtraFields)
	if err != nil {
		return nil, err
	}

	record := map[string]any{
		ColAuthor:     post.Author,
		ColDate:       post.Date.Format(DateLayout),
		ColShortStory: post.ShortStory,
		ColFullStory:  post.FullStory,
		ColXFields:    blob,
		ColTitle:      post.Title,
		ColMetaTitle:  post.MetaTitle,
		ColMetaDescr:  post.MetaDescription,
		ColKeywords:   post.MetaKeywords,
		ColCategory:   strings.Join(ids, ","),
		ColSlug:       post.Slug,
		ColTags:       strings.Join(post.Tags, ","),
		ColAllowComm:  boolInt(post.AllowComments),
		ColAllowMain:  boolInt(post.ShowOnMain),
		ColApprove:    boolInt(post.Published),
		ColFixed:      boolInt(post.Pinned),
	}
	if post.ID != "" {
		record[ColID] = post.ID
	}
	return record, nil
}

// FromStorage rebuilds a post from its flat record. Missing or wrong-typed
// columns leave the field at its zero value; only an unparseable date fails.
func (s *Synthesizer) FromStorage(ctx context.Context, record map[string]any) (*models.Post, error) {
	post := &models.Post{
		ID:              stringValue(record[ColID]),
		Author:          stringValue(record[ColAuthor]),
		ShortStory:      stringValue(record[ColShortStory]),
		FullStory:       stringValue(record[ColFullStory]),
		Title:           stringValue(record[ColTitle]),
		MetaTitle:       stringValue(record[ColMetaTitle]),
		MetaDescription: stringValue(record[ColMetaDescr]),
		MetaKeywords:    stringValue(record[ColKeywords]),
		Slug:            stringValue(record[ColSlug]),
		Tags:            splitList(stringValue(record[ColTags])),
		AllowComments:   boolValue(record[ColAllowComm]),
		ShowOnMain:      boolValue(record[ColAllowMain]),
		Published:       boolValue(record[ColApprove]),
		Pinned:          boolValue(record[ColFixed]),
	}

	switch d := record[ColDate].(type) {
	case time.Time:
		post.Date = d
	case string:
		if d != "" {
			parsed, err := time.ParseInLocation(DateLayout, d, time.Local)
			if err != nil {
				return nil, fmt.Errorf("post %s date %q: %w", post.ID, d, models.ErrFormat)
			}
			post.Date = parsed
		}
	}

	entry := s.logger.WithField("post", post.ID)

	if blob := stringValue(record[ColXFields]); blob != "" {
		fields, err := xfields.ParseValues(blob, s.settings.storedFields(), true)
		if err != nil {
			entry.WithError(err).Warn("Ignoring unreadable extra fields")
		} else {
			post.ExtraFields = fields
		}
	}

	if csv := stringValue(record[ColCategory]); strings.TrimSpace(csv) != "" {
		known, err := s.resolver.Known(ctx)
		if err != nil {
			return nil, err
		}
		cats, err := categories.ResolveFromIDList(csv, known)
		if err != nil {
			entry.WithError(err).WithField("category", csv).Warn("Ignoring unresolved categories")
		} else {
			post.Categories = cats
		}
	}

	entry.WithFields(logrus.Fields{
		"fields":     len(post.ExtraFields),
		"categories": len(post.Categories),
	}).Debug("Loaded post")

	return post, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	default:
		return ""
	}
}

func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		return err == nil && n != 0
	default:
		return false
	}
}
