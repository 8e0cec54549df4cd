package models

// Category is a taxonomy entry. ID stays empty until the entry is persisted.
type Category struct {
	ID            string
	ParentID      string
	Slug          string
	Name          string
	Position      int
	RSSAllowed    bool
	SearchAllowed bool
}

// NewCategory returns an unpersisted category with the taxonomy defaults
func NewCategory(name, slug string) Category {
	return Category{
		Slug:          slug,
		Name:          name,
		Position:      1,
		RSSAllowed:    true,
		SearchAllowed: true,
	}
}

// Persisted reports whether the category can be referenced from a post
func (c Category) Persisted() bool {
	return c.ID != ""
}
