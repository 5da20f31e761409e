package util

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Symbols that gosimple would spell out as English words ("and", "at").
// Punctuation collapses to hyphens instead, so "Home & Garden" becomes
// "home-garden", not "home-and-garden".
var symbolReplacer = strings.NewReplacer("&", " ", "@", " ")

// Slugify derives a deterministic, URL-safe slug from a display name:
// lowercase, ASCII-normalized, spaces and punctuation collapsed to hyphens.
func Slugify(name string) string {
	return slug.Make(symbolReplacer.Replace(name))
}

// SlugifyWithSuffix builds the nth candidate for a colliding slug.
// n == 0 returns the base slug; n > 0 appends "-{n+1}".
func SlugifyWithSuffix(name string, n int) string {
	base := Slugify(name)
	if n <= 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n+1)
}
