package utils

import (
	"math/rand"
	"regexp"
	"strings"
)

const idLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// MakeID returns a random alphanumeric identifier of the given length, used
// as the opaque public key for posts and comments.
func MakeID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = idLetters[rand.Intn(len(idLetters))]
	}
	return string(b)
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_]+`)
	slugTrim     = regexp.MustCompile(`^-+|-+$`)
)

// Slugify derives a URL slug from a title. Titles that reduce to nothing
// (all punctuation, for instance) fall back to a random id so the
// (identifier, slug) pair stays resolvable.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	slug = slugTrim.ReplaceAllString(slug, "")
	if slug == "" {
		slug = MakeID(8)
	}
	return slug
}
