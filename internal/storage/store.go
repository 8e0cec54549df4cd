// Package storage persists posts and the category taxonomy with gorm/sqlite
package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amaumene/videosync/internal/models"
)

// Store implements the taxonomy and post storage collaborators
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewStore opens (and migrates) the sqlite database at path
func NewStore(path string, logger *logrus.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&PostRow{}, &CategoryRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.WithField("path", path).Debug("Opened post store")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListCategories returns the whole taxonomy ordered by position
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []CategoryRow
	if err := s.db.WithContext(ctx).Order("posi, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}

	cats := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		cats = append(cats, categoryFromRow(row))
	}
	return cats, nil
}

// AddCategory persists a new category and returns it with its id
func (s *Store) AddCategory(ctx context.Context, category models.Category) (models.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return models.Category{}, fmt.Errorf("category without name: %w", models.ErrInvalidArgument)
	}

	row, err := categoryToRow(category)
	if err != nil {
		return models.Category{}, err
	}
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Category{}, fmt.Errorf("creating category: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":   row.ID,
		"name": row.Name,
	}).Debug("Stored category")
	return categoryFromRow(row), nil
}

// SavePost inserts a record without id or updates the post it names, and
// returns the post id
func (s *Store) SavePost(ctx context.Context, record map[string]any) (string, error) {
	row := postToRow(record)

	if row.ID == 0 {
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return "", fmt.Errorf("creating post: %w", err)
		}
		return strconv.FormatUint(uint64(row.ID), 10), nil
	}

	result := s.db.WithContext(ctx).Save(&row)
	if result.Error != nil {
		return "", fmt.Errorf("saving post %d: %w", row.ID, result.Error)
	}
	return strconv.FormatUint(uint64(row.ID), 10), nil
}

// LoadPost returns the flat record of a stored post
func (s *Store) LoadPost(ctx context.Context, id string) (map[string]any, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("post id %q: %w", id, models.ErrInvalidArgument)
	}

	var row PostRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("querying post: %w", err)
	}
	return postFromRow(row), nil
}

// CountPosts returns the number of stored posts
func (s *Store) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&PostRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}
	return n, nil
}

func categoryToRow(c models.Category) (CategoryRow, error) {
	row := CategoryRow{
		Posi:          c.Position,
		Name:          c.Name,
		AltName:       c.Slug,
		AllowRSS:      flag(c.RSSAllowed),
		DisableSearch: flag(!c.SearchAllowed),
	}
	if c.ParentID != "" {
		parent, err := strconv.ParseUint(c.ParentID, 10, 64)
		if err != nil {
			return CategoryRow{}, fmt.Errorf("category parent %q: %w", c.ParentID, models.ErrInvalidArgument)
		}
		row.ParentID = uint(parent)
	}
	return row, nil
}

func categoryFromRow(row CategoryRow) models.Category {
	c := models.Category{
		ID:            strconv.FormatUint(uint64(row.ID), 10),
		Slug:          row.AltName,
		Name:          row.Name,
		Position:      row.Posi,
		RSSAllowed:    row.AllowRSS != 0,
		SearchAllowed: row.DisableSearch == 0,
	}
	if row.ParentID != 0 {
		c.ParentID = strconv.FormatUint(uint64(row.ParentID), 10)
	}
	return c
}

func postToRow(record map[string]any) PostRow {
	row := PostRow{
		Autor:      str(record["autor"]),
		Date:       str(record["date"]),
		ShortStory: str(record["short_story"]),
		FullStory:  str(record["full_story"]),
		XFields:    str(record["xfields"]),
		Title:      str(record["title"]),
		MetaTitle:  str(record["metatitle"]),
		Descr:      str(record["descr"]),
		Keywords:   str(record["keywords"]),
		Category:   str(record["category"]),
		AltName:    str(record["alt_name"]),
		Tags:       str(record["tags"]),
		AllowComm:  num(record["allow_comm"]),
		AllowMain:  num(record["allow_main"]),
		Approve:    num(record["approve"]),
		Fixed:      num(record["fixed"]),
	}
	if id, err := strconv.ParseUint(str(record["id"]), 10, 64); err == nil {
		row.ID = uint(id)
	}
	return row
}

func postFromRow(row PostRow) map[string]any {
	return map[string]any{
		"id":          strconv.FormatUint(uint64(row.ID), 10),
		"autor":       row.Autor,
		"date":        row.Date,
		"short_story": row.ShortStory,
		"full_story":  row.FullStory,
		"xfields":     row.XFields,
		"title":       row.Title,
		"metatitle":   row.MetaTitle,
		"descr":       row.Descr,
		"keywords":    row.Keywords,
		"category":    row.Category,
		"alt_name":    row.AltName,
		"tags":        row.Tags,
		"allow_comm":  row.AllowComm,
		"allow_main":  row.AllowMain,
		"approve":     row.Approve,
		"fixed":       row.Fixed,
	}
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func str(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	default:
		return ""
	}
}

func num(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case bool:
		return flag(val)
	case string:
		n, _ := strconv.Atoi(val)
		return n
	default:
		return 0
	}
}
