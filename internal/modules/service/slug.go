package service

import (
	"context"
	"fmt"
	"time"

	"github.com/phonica/phonica/internal/pkg/slugify"
)

// uniqueSlug derives a slug from the source text and retries with a
// timestamp suffix while the exists check reports a collision. Concurrent
// callers can still race to the same slug; the DB unique constraint is the
// final arbiter and surfaces as a retryable ConflictError.
func uniqueSlug(ctx context.Context, source string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := slugify.Make(source)
	if base == "" {
		base = fmt.Sprintf("untitled-%d", time.Now().UnixMilli())
	}

	candidate := base
	for i := 0; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, time.Now().UnixMilli()+int64(i))
	}
}

// masterSlug derives the slug for master-data creates. Unlike materials, a
// taken base slug is a name conflict, not a reason to suffix: "Nature" and
// "nature" normalize to the same slug, which is how case-insensitive name
// uniqueness is enforced.
func masterSlug(ctx context.Context, source, conflictMsg string, exists func(context.Context, string) (bool, error)) (string, error) {
	slug := slugify.Make(source)
	if slug == "" {
		return "", &ValidationError{Msg: "required fields missing", Fields: []string{"name"}}
	}
	taken, err := exists(ctx, slug)
	if err != nil {
		return "", err
	}
	if taken {
		return "", &ConflictError{Msg: conflictMsg, Field: "name", MaterialCount: -1}
	}
	return slug, nil
}
