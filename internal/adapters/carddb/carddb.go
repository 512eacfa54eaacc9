// Package carddb indexes the tab-separated card catalog and resolves
// played cards to their art files. Columns are located by header name so
// the catalog may carry extra columns in any order.
package carddb

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Header names the index must or may carry.
const (
	colName   = "Name"
	colPitch  = "Pitch"
	colHealth = "Health"
	colID     = "Unique ID"
	colTypes  = "Types"
)

// Card is one catalog entry. Pitch zero means the card has no pitch tag.
type Card struct {
	Name   string
	Pitch  int
	Health int
	ID     string
	Types  []string
}

// Display renders the card name with its pitch color tag.
func (c Card) Display() string {
	switch c.Pitch {
	case 1:
		return c.Name + " (R)"
	case 2:
		return c.Name + " (Y)"
	case 3:
		return c.Name + " (B)"
	default:
		return c.Name
	}
}

// IsHero reports whether the card's type line includes hero.
func (c Card) IsHero() bool {
	for _, t := range c.Types {
		if t == "hero" {
			return true
		}
	}
	return false
}

// Store resolves cards played in the annotation timeline.
type Store interface {
	// Find returns the entry for a (name, pitch) pair, or ErrNotFound.
	Find(name string, pitch int) (Card, error)
	// Heroes lists every hero card in the catalog.
	Heroes() []Card
	// Cards lists the whole catalog in index order.
	Cards() []Card
	// ArtPath returns the image file path for a card.
	ArtPath(c Card) string
}

type key struct {
	name  string
	pitch int
}

type tsvStore struct {
	cards  []Card
	byKey  map[key]int
	artDir string
}

// Option configures a Store.
type Option func(*tsvStore)

// WithArtDir sets the directory holding per-card art images named by the
// card's unique ID.
func WithArtDir(dir string) Option {
	return func(s *tsvStore) { s.artDir = dir }
}

// Open reads a tab-separated card index.
func Open(r io.Reader, opts ...Option) (Store, error) {
	s := &tsvStore{
		byKey:  make(map[key]int),
		artDir: "data/cards",
	}
	for _, opt := range opts {
		opt(s)
	}

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrBadIndex, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colName, colPitch, colID} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadIndex, required)
		}
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadIndex, err)
		}
		card := cardFromRecord(cols, rec)
		if card.Name == "" || card.ID == "" {
			continue
		}
		k := key{name: card.Name, pitch: card.Pitch}
		// First entry wins; later rows are art variations.
		if _, dup := s.byKey[k]; dup {
			continue
		}
		s.byKey[k] = len(s.cards)
		s.cards = append(s.cards, card)
	}
	return s, nil
}

// OpenFile reads the card index from disk.
func OpenFile(path string, opts ...Option) (Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open card index: %w", err)
	}
	defer f.Close()
	return Open(f, opts...)
}

func cardFromRecord(cols map[string]int, rec []string) Card {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	card := Card{
		Name: field(colName),
		ID:   field(colID),
	}
	// Unparsable pitch and health mean the card carries neither.
	card.Pitch, _ = strconv.Atoi(field(colPitch))
	card.Health, _ = strconv.Atoi(field(colHealth))
	if types := field(colTypes); types != "" {
		for _, t := range strings.Split(types, ",") {
			card.Types = append(card.Types, strings.ToLower(strings.TrimSpace(t)))
		}
	}
	return card
}

func (s *tsvStore) Find(name string, pitch int) (Card, error) {
	i, ok := s.byKey[key{name: name, pitch: pitch}]
	if !ok {
		return Card{}, fmt.Errorf("%w: %q pitch %d", ErrNotFound, name, pitch)
	}
	return s.cards[i], nil
}

func (s *tsvStore) Heroes() []Card {
	var heroes []Card
	for _, c := range s.cards {
		if c.IsHero() {
			heroes = append(heroes, c)
		}
	}
	return heroes
}

func (s *tsvStore) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

func (s *tsvStore) ArtPath(c Card) string {
	return filepath.Join(s.artDir, c.ID+".png")
}
