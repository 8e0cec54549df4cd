package utils

import (
	"bufio"
	"os"
	"strings"
)

// Blacklist holds title terms that exclude a video from synchronization
type Blacklist struct {
	terms []string
}

// NewBlacklist builds a blacklist from terms; blank terms are dropped
func NewBlacklist(terms ...string) *Blacklist {
	b := &Blacklist{}
	for _, term := range terms {
		b.add(term)
	}
	return b
}

// LoadBlacklist loads blacklist terms from a file, one per line.
// Lines starting with # are comments.
func LoadBlacklist(path string) (*Blacklist, error) {
	// If file doesn't exist, return empty blacklist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Blacklist{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	b := &Blacklist{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		b.add(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Blacklist) add(term string) {
	term = strings.TrimSpace(term)
	if term != "" && !strings.HasPrefix(term, "#") {
		b.terms = append(b.terms, strings.ToLower(term))
	}
}

// Len returns the number of terms
func (b *Blacklist) Len() int {
	return len(b.terms)
}

// IsBlacklisted checks whether any of the titles contains a term
// Returns (isBlacklisted, matchedTerm)
func (b *Blacklist) IsBlacklisted(titles ...string) (bool, string) {
	for _, title := range titles {
		titleLower := strings.ToLower(title)
		for _, term := range b.terms {
			if strings.Contains(titleLower, term) {
				return true, term
			}
		}
	}

	return false, ""
}
