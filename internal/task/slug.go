package task

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxSlugLength = 50
	idPadWidth    = 3
	fallbackSlug  = "task"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// accentFolds maps common accented letters of market titles to ASCII.
var accentFolds = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"ç", "c",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
)

// GenerateSlug converts a title to a filename-safe slug. Titles with no
// usable characters produce "task".
func GenerateSlug(title string) string {
	slug := accentFolds.Replace(strings.ToLower(title))
	slug = strings.Trim(nonAlphanumeric.ReplaceAllString(slug, "-"), "-")

	if len(slug) > maxSlugLength {
		cut := slug[:maxSlugLength]
		// Cut at the last word boundary unless the limit already falls on one.
		if slug[maxSlugLength] != '-' {
			if idx := strings.LastIndexByte(cut, '-'); idx > 0 {
				cut = cut[:idx]
			}
		}
		slug = strings.TrimRight(cut, "-")
	}

	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// GenerateFilename creates a task filename from an ID and title.
func GenerateFilename(id int, title string) string {
	return fmt.Sprintf("%0*d-%s.md", idPadWidth, id, GenerateSlug(title))
}
