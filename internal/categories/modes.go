package categories

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/amaumene/videosync/internal/models"
)

// CreationMode governs what happens to names with no matching category
type CreationMode string

const (
	// ModeInMemory builds an unpersisted category (empty id)
	ModeInMemory CreationMode = "in_memory"
	// ModeUseOnlyExisting drops unmatched names
	ModeUseOnlyExisting CreationMode = "use_only_existing"
	// ModeCreateIfMissing persists a new category through the taxonomy
	ModeCreateIfMissing CreationMode = "create_if_missing"
)

// ParseCreationMode accepts the profile spelling; empty means ModeInMemory
func ParseCreationMode(s string) (CreationMode, error) {
	switch m := CreationMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeInMemory, nil
	case ModeInMemory, ModeUseOnlyExisting, ModeCreateIfMissing:
		return m, nil
	default:
		return "", fmt.Errorf("category mode %q: %w", s, models.ErrInvalidArgument)
	}
}

// CaseMode transforms category names before matching
type CaseMode string

const (
	CaseNone       CaseMode = "none"
	CaseLower      CaseMode = "lower"
	CaseUpper      CaseMode = "upper"
	CaseCapitalize CaseMode = "capitalize" // first letter upper, rest untouched
)

// ParseCaseMode accepts the profile spelling; empty means CaseNone
func ParseCaseMode(s string) (CaseMode, error) {
	switch m := CaseMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return CaseNone, nil
	case CaseNone, CaseLower, CaseUpper, CaseCapitalize:
		return m, nil
	default:
		return "", fmt.Errorf("case mode %q: %w", s, models.ErrInvalidArgument)
	}
}

var (
	lowerCaser = cases.Lower(language.Russian)
	upperCaser = cases.Upper(language.Russian)
)

// ApplyCase converts name according to mode using multibyte-aware casing
func ApplyCase(name string, mode CaseMode) string {
	switch mode {
	case CaseLower:
		return lowerCaser.String(name)
	case CaseUpper:
		return upperCaser.String(name)
	case CaseCapitalize:
		r, size := utf8.DecodeRuneInString(name)
		if r == utf8.RuneError {
			return name
		}
		return upperCaser.String(string(r)) + name[size:]
	default:
		return name
	}
}

// VideoNames builds the category name list for a video: the type label
// (unless the type is mixed) followed by its genres.
func VideoNames(video *models.Video, fromType, fromGenres bool, mode CaseMode) ([]string, error) {
	var names []string
	if fromType && video.Type != models.VideoTypeMixed {
		label, err := video.Type.CategoryLabel()
		if err != nil {
			return nil, err
		}
		names = append(names, label)
	}
	if fromGenres {
		names = append(names, video.Genres...)
	}

	for i := range names {
		names[i] = ApplyCase(names[i], mode)
	}
	return names, nil
}
