package cmd

import (
	"fmt"
	"iter"
	"strings"

	"github.com/etnz/fintrack"
)

// resolveID returns the only id among ids that equals ref or starts with it.
func resolveID(ref string, ids iter.Seq[string]) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: id is missing", fintrack.ErrValidation)
	}
	var found []string
	for id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %q", fintrack.ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d ids, use a longer prefix", fintrack.ErrValidation, ref, len(found))
	}
}

// resolveBucket finds a bucket by id, id prefix or name.
func resolveBucket(b *fintrack.Buckets, ref string) (fintrack.Bucket, error) {
	var named []fintrack.Bucket
	for x := range b.List() {
		if strings.EqualFold(x.Name, strings.TrimSpace(ref)) {
			named = append(named, x)
		}
	}
	if len(named) == 1 {
		return named[0], nil
	}
	id, err := resolveID(ref, func(yield func(string) bool) {
		for x := range b.List() {
			if !yield(x.ID) {
				return
			}
		}
	})
	if err != nil {
		if len(named) > 1 {
			return fintrack.Bucket{}, fmt.Errorf("%w: several buckets are named %q, use the id", fintrack.ErrValidation, ref)
		}
		return fintrack.Bucket{}, err
	}
	x, _ := b.Get(id)
	return x, nil
}
