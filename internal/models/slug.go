package models

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidSlug is returned when a slug contains characters outside
// the allowed set.
var ErrInvalidSlug = errors.New("invalid slug")

// slugPattern is the allowed charset: lowercase letters, digits, hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateSlug checks that a slug is non-empty and matches [a-z0-9-]+.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: %q must match [a-z0-9-]+", ErrInvalidSlug, slug)
	}
	return nil
}
