package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxSourceLinks      = 10
	maxDescriptionLinks = 7
	maxTotalLinks       = 12
)

// CountLinks counts plain http links in text.
func CountLinks(text string) int {
	return strings.Count(text, "http://")
}

// TooManyLinks reports a sketch that is most likely link spam. Such sketches are refused outright.
func TooManyLinks(source, description string) bool {

	sourceLinks := CountLinks(source)
	descriptionLinks := CountLinks(description)

	switch {
	case sourceLinks > maxSourceLinks:
		return true
	case strings.Contains(source, "[url=http://"):
		return true
	case descriptionLinks > maxDescriptionLinks:
		return true
	default:
		return sourceLinks+descriptionLinks > maxTotalLinks
	}
}

// IsSuspicious flags the shape spam bots gave their submissions: a single CamelCase word of 10 to
// 19 characters for both the title and the tags.
func IsSuspicious(title, tags string) bool {

	return looksGenerated(title) && !strings.Contains(tags, ",") && looksGenerated(tags)
}

func looksGenerated(s string) bool {

	n := utf8.RuneCountInString(s)
	if n < 10 || n > 19 || strings.Contains(s, " ") {
		return false
	}

	upper := 0
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsUpper(r) {
			upper++
		}
	}

	return upper > 1
}

// NeedsReview reports content that is stored but forced unpublished.
func NeedsReview(title, tags, source, description string) bool {

	if IsSuspicious(title, tags) {
		return true
	}

	for _, text := range []string{title, source, description} {
		if ContainsProfanity(text) {
			return true
		}
	}

	return false
}
