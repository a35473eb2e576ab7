package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxSlugAttempts = 10
	maxSlugLength   = 200
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "item"
	}
	return slug
}

// slugOwner returns the id of the record holding slug, or 0 when it is free.
type slugOwner func(ctx context.Context, slug string) (uint, error)

// uniqueSlug derives a slug from name that no record other than selfID
// holds. Taken slugs get -2, -3 and so on, then a random suffix.
func uniqueSlug(ctx context.Context, name string, selfID uint, owner slugOwner) (string, error) {
	base := Slugify(name)
	slug := base
	for i := 2; i < maxSlugAttempts+2; i++ {
		id, err := owner(ctx, slug)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if err != nil || id == 0 || id == selfID {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}
