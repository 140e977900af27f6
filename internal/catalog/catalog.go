// Package catalog holds the fixed set of listings and mock actors, and the
// listing -> owner mapping the ledger authorizes against.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/matchbox/internal/common"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Actor is a participant. Created at sign-in, immutable afterwards.
type Actor struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Provider string `yaml:"provider" json:"provider"`
}

// Listing is a profile other actors can save or pass.
type Listing struct {
	ID            string   `yaml:"id" json:"id"`
	OwnerID       string   `yaml:"owner" json:"owner_id"`
	Name          string   `yaml:"name" json:"name"`
	Age           int      `yaml:"age" json:"age"`
	Bio           string   `yaml:"bio" json:"bio"`
	AvatarText    string   `yaml:"avatar_text" json:"avatar_text"`
	StyleExamples []string `yaml:"style_examples" json:"style_examples"`
	Photo         string   `yaml:"photo,omitempty" json:"photo,omitempty"`
}

type document struct {
	DefaultOwner string    `yaml:"default_owner"`
	Actors       []Actor   `yaml:"actors"`
	Listings     []Listing `yaml:"listings"`
}

// Catalog is immutable after Load.
type Catalog struct {
	actors   []Actor
	listings []Listing

	actorByID   map[string]int
	listingByID map[string]int
}

// Default returns the embedded demo catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads a YAML catalog from path. An empty path yields Default().
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML catalog. Listings without an explicit owner are
// assigned default_owner. Every owner must be a known actor.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Actors) == 0 {
		return nil, errors.New("catalog has no actors")
	}

	c := &Catalog{
		actors:      doc.Actors,
		listings:    doc.Listings,
		actorByID:   make(map[string]int, len(doc.Actors)),
		listingByID: make(map[string]int, len(doc.Listings)),
	}

	for i, a := range c.actors {
		if a.ID == "" {
			return nil, fmt.Errorf("actor #%d has no id", i)
		}
		if _, dup := c.actorByID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate actor %q", a.ID)
		}
		c.actorByID[a.ID] = i
	}

	for i := range c.listings {
		l := &c.listings[i]
		if l.ID == "" {
			return nil, fmt.Errorf("listing #%d has no id", i)
		}
		if _, dup := c.listingByID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate listing %q", l.ID)
		}
		if l.OwnerID == "" {
			l.OwnerID = doc.DefaultOwner
		}
		if _, ok := c.actorByID[l.OwnerID]; !ok {
			return nil, fmt.Errorf("listing %q: unknown owner %q", l.ID, l.OwnerID)
		}
		c.listingByID[l.ID] = i
	}

	return c, nil
}

// Listings returns all listings in catalog order.
func (c *Catalog) Listings() []Listing {
	out := make([]Listing, len(c.listings))
	for i, l := range c.listings {
		out[i] = l
		out[i].StyleExamples = append([]string(nil), l.StyleExamples...)
	}
	return out
}

func (c *Catalog) Listing(id string) (Listing, error) {
	i, ok := c.listingByID[id]
	if !ok {
		return Listing{}, fmt.Errorf("listing %q: %w", id, common.ErrorNotFound)
	}
	l := c.listings[i]
	l.StyleExamples = append([]string(nil), l.StyleExamples...)
	return l, nil
}

// OwnerOf returns the actor id owning listingID.
func (c *Catalog) OwnerOf(listingID string) (string, error) {
	i, ok := c.listingByID[listingID]
	if !ok {
		return "", fmt.Errorf("listing %q: %w", listingID, common.ErrorNotFound)
	}
	return c.listings[i].OwnerID, nil
}

func (c *Catalog) Actors() []Actor {
	return append([]Actor(nil), c.actors...)
}

func (c *Catalog) Actor(id string) (Actor, error) {
	i, ok := c.actorByID[id]
	if !ok {
		return Actor{}, fmt.Errorf("actor %q: %w", id, common.ErrorNotFound)
	}
	return c.actors[i], nil
}

// ActorByProvider picks the mock actor signed in through provider. Unknown
// providers fall back to the first actor.
func (c *Catalog) ActorByProvider(provider string) Actor {
	for _, a := range c.actors {
		if a.Provider == provider {
			return a
		}
	}
	return c.actors[0]
}
