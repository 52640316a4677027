package usecase

import (
	"fmt"
	"strings"
)

type CountKind string

const (
	CountKindID   CountKind = "id"
	CountKindSlug CountKind = "slug"
)

// CountKey identifies one tournament in the participant-count cache, keyed by
// the platform's numeric id or its custom-tournament slug.
type CountKey struct {
	Kind  CountKind
	Value string
}

func NewCountKey(kind CountKind, value string) (CountKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return CountKey{}, fmt.Errorf("%w: count identifier value is required", ErrInvalidInput)
	}
	switch kind {
	case CountKindID, CountKindSlug:
		return CountKey{Kind: kind, Value: value}, nil
	default:
		return CountKey{}, fmt.Errorf("%w: unknown count identifier kind %q", ErrInvalidInput, kind)
	}
}

// String renders the namespaced cache key, e.g. "id:146021" or "slug:hexis-cup".
func (k CountKey) String() string {
	return string(k.Kind) + ":" + k.Value
}
