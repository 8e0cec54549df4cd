package models

import (
	"fmt"
	"time"
)

// Post is the publishable content record
type Post struct {
	ID     string // empty until stored
	Slug   string
	Title  string
	Author string
	Date   time.Time

	ShortStory string
	FullStory  string

	MetaTitle       string
	MetaDescription string
	MetaKeywords    string
	Tags            []string

	Categories  []Category
	ExtraFields []ExtraField

	AllowComments bool
	ShowOnMain    bool
	Published     bool
	Pinned        bool
}

// FindExtraField returns the first bound field with the given name
func (p *Post) FindExtraField(name string) (*ExtraField, bool) {
	for i := range p.ExtraFields {
		if p.ExtraFields[i].Name == name {
			return &p.ExtraFields[i], true
		}
	}
	return nil, false
}

// AddExtraField binds a new field. Names are unique within a post.
func (p *Post) AddExtraField(field ExtraField) error {
	if field.Name == "" {
		return fmt.Errorf("extra field name is empty: %w", ErrInvalidArgument)
	}
	if _, exists := p.FindExtraField(field.Name); exists {
		return fmt.Errorf("extra field %q: %w", field.Name, ErrDuplicateField)
	}
	p.ExtraFields = append(p.ExtraFields, field)
	return nil
}

// RemoveExtraField unbinds every field with the given name
func (p *Post) RemoveExtraField(name string) error {
	kept := p.ExtraFields[:0]
	removed := false
	for _, f := range p.ExtraFields {
		if f.Name == name {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	if !removed {
		return fmt.Errorf("extra field %q: %w", name, ErrNotFound)
	}
	p.ExtraFields = kept
	return nil
}

// SetExtraFieldValue replaces the value of an already bound field. More than
// one bound field with the same name is a logic error and is never resolved
// silently.
func (p *Post) SetExtraFieldValue(name string, value any) error {
	formatted, ok := FormatScalar(value)
	if !ok {
		return fmt.Errorf("value for extra field %q must be a non-empty string or a number: %w", name, ErrInvalidArgument)
	}

	var target *ExtraField
	matches := 0
	for i := range p.ExtraFields {
		if p.ExtraFields[i].Name == name {
			matches++
			target = &p.ExtraFields[i]
		}
	}

	switch {
	case matches > 1:
		return fmt.Errorf("%d fields named %q: %w", matches, name, ErrDuplicateField)
	case matches == 0:
		return fmt.Errorf("extra field %q: %w", name, ErrNotFound)
	}

	target.Value = formatted
	return nil
}

// HasCategory reports whether a category with the id is attached
func (p *Post) HasCategory(id string) bool {
	for _, c := range p.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryIDs returns the ids of the attached categories. Every category must
// be persisted.
func (p *Post) CategoryIDs() ([]string, error) {
	ids := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		if !c.Persisted() {
			return nil, fmt.Errorf("category %q has no id: %w", c.Name, ErrInvalidArgument)
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}
