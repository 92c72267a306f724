package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRe = regexp.MustCompile(`[\s_-]+`)
	edgeDashRe   = regexp.MustCompile(`^-+|-+$`)
)

// Slugify converts a title into a URL-safe slug. Accented characters are
// decomposed and stripped, everything non-alphanumeric collapses into
// dashes, and the result is capped at 80 characters.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = edgeDashRe.ReplaceAllString(s, "")
	if len(s) > 80 {
		s = s[:80]
		s = strings.TrimRight(s, "-")
	}
	return s
}

// UniqueSlug appends a unix-seconds timestamp so two scholarships with the
// same title never collide.
func UniqueSlug(title string, now time.Time) string {
	base := Slugify(title)
	if base == "" {
		base = "beca"
	}
	return fmt.Sprintf("%s-%d", base, now.Unix())
}
