package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// qualityMarkers are checked in order; the first hit wins
var qualityMarkers = []struct {
	marker  string
	quality string
}{
	{"remux", "BDRemux"},
	{"bdrip", "BDRip"},
	{"blu-ray", "BluRay"},
	{"bluray", "BluRay"},
	{"web-dl", "WEB-DL"},
	{"webdl", "WEB-DL"},
	{"web dl", "WEB-DL"},
	{"webrip", "WEBRip"},
	{"hdtvrip", "HDTVRip"},
	{"hdtv", "HDTV"},
	{"dvdrip", "DVDRip"},
	{"hdrip", "HDRip"},
	{"camrip", "CAMRip"},
	{"ts", "TS"},
}

var qualityWord = regexp.MustCompile(`[a-z0-9]+`)

// DetermineQuality picks the release quality from a torrent title
func DetermineQuality(title string) string {
	titleLower := strings.ToLower(title)
	words := make(map[string]bool)
	for _, w := range qualityWord.FindAllString(titleLower, -1) {
		words[w] = true
	}

	for _, m := range qualityMarkers {
		if strings.Contains(m.marker, " ") || strings.Contains(m.marker, "-") {
			if strings.Contains(titleLower, m.marker) {
				return m.quality
			}
			continue
		}
		if words[m.marker] {
			return m.quality
		}
	}
	return ""
}

var (
	yearRegex          = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	bracketedYearRegex = regexp.MustCompile(`[(\[](19\d{2}|20\d{2})\b`)
)

// ExtractYear extracts a 4-digit year from a release title
// Returns 0 if no year is found
// A year opening parentheses or brackets, like (2009) or [2009, WEB-DL],
// wins over a bare number that may be part of the name.
func ExtractYear(title string) int {
	year, _ := findYear(title)
	return year
}

// findYear returns the release year and the offset where the year or its
// opening bracket starts, or -1
func findYear(title string) (int, int) {
	for _, re := range []*regexp.Regexp{bracketedYearRegex, yearRegex} {
		loc := re.FindStringSubmatchIndex(title)
		if loc == nil {
			continue
		}
		year, err := strconv.Atoi(title[loc[2]:loc[3]])
		if err == nil {
			return year, loc[0]
		}
	}
	return 0, -1
}

// SplitReleaseTitle splits "Русское / Original (2019) WEB-DL 1080p" into the
// localized and original names. The original is empty when the release has
// a single name.
func SplitReleaseTitle(title string) (string, string) {
	name := title
	if _, at := findYear(name); at >= 0 {
		name = name[:at]
	}
	name = strings.TrimRight(strings.TrimSpace(name), "([")
	name = strings.TrimSpace(name)

	parts := strings.Split(name, " / ")
	local := strings.TrimSpace(parts[0])
	original := ""
	if len(parts) > 1 {
		original = strings.TrimSpace(parts[len(parts)-1])
	}
	return local, original
}
