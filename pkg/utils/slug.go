package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Slugify lowercases s, collapses every run of non [a-z0-9] characters into a single
// hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// UniqueSlug appends the unix millisecond timestamp so two products with the same
// display name do not collide. An empty base falls back to "product".
func UniqueSlug(name string, now time.Time) string {
	base := Slugify(name)
	if base == "" {
		base = "product"
	}
	return fmt.Sprintf("%s-%d", base, now.UnixMilli())
}

func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
