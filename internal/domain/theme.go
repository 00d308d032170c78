package domain

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Theme is a persistent, evolving cluster of semantically related sentences
// across entries. Its centroid is always kept at unit L2 norm.
type Theme struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	Alias       *string   `json:"alias"`
	Description *string   `json:"description"`
	Centroid    []float64 `json:"centroid"`
	Coherence   float64   `json:"coherence"`
	Count       int       `json:"count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ThemeSnapshot is the versioned theme set handed to the clustering engine
// and persisted back. The version supports compare-and-swap saves so two
// concurrent entry submissions cannot silently drop each other's updates.
type ThemeSnapshot struct {
	Version int     `json:"version"`
	Themes  []Theme `json:"themes"`
}

// Clone deep-copies the snapshot so the engine never mutates caller state.
func (s ThemeSnapshot) Clone() ThemeSnapshot {
	out := ThemeSnapshot{Version: s.Version, Themes: make([]Theme, len(s.Themes))}
	for i, t := range s.Themes {
		copied := t
		copied.Centroid = append([]float64(nil), t.Centroid...)
		if t.Alias != nil {
			alias := *t.Alias
			copied.Alias = &alias
		}
		if t.Description != nil {
			desc := *t.Description
			copied.Description = &desc
		}
		out.Themes[i] = copied
	}
	return out
}

// EntryTag attaches partial theme membership to one entry. Weights across an
// entry's tags sum to 1.
type EntryTag struct {
	ID     uuid.UUID `json:"id"`
	Label  string    `json:"label"`
	Weight float64   `json:"weight"`
}

// PreferThemeLabel picks the more specific-looking of two labels: the longer
// one wins, with the comparison capped at 32 characters. Empty loses.
func PreferThemeLabel(a, b string) string {
	ca, cb := strings.TrimSpace(a), strings.TrimSpace(b)
	if ca == "" {
		if cb == "" {
			return "Theme"
		}
		return cb
	}
	if cb == "" {
		return ca
	}
	la, lb := utf8.RuneCountInString(ca), utf8.RuneCountInString(cb)
	if la > 32 {
		la = 32
	}
	if lb > 32 {
		lb = 32
	}
	if lb > la {
		return cb
	}
	return ca
}

// ThemeRepository persists the theme snapshot.
type ThemeRepository interface {
	// GetSnapshot loads the current theme snapshot. A fresh store yields an
	// empty snapshot at version 0.
	GetSnapshot(ctx context.Context) (ThemeSnapshot, error)
	// SaveSnapshot stores the snapshot if the persisted version still equals
	// expectedVersion, bumping the version by one. Returns ConflictErr when
	// the stored version moved.
	SaveSnapshot(ctx context.Context, snapshot ThemeSnapshot, expectedVersion int) error
	// RenameTheme updates a single theme's label without touching centroids.
	RenameTheme(ctx context.Context, id uuid.UUID, label string) error
}
