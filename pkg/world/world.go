package world

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/story-kit/pkg/item"
)

// ErrNotFound is returned when a named place or NPC does not exist
var ErrNotFound = errors.New("not found")

// World is the top of the geography: World > Land > Area > Site
type World struct {
	Name  string  `json:"name"`
	Lands []*Land `json:"lands"`
	game  any
}

// Land is a region of a world
type Land struct {
	Name  string  `json:"name"`
	Areas []*Area `json:"areas"`
	world *World
	game  any
}

// Area is a part of a land
type Area struct {
	Name  string  `json:"name"`
	Sites []*Site `json:"sites"`
	land  *Land
	game  any
}

// Site is a single place the player can stand in
type Site struct {
	Name         string      `json:"name"`
	Descriptions []string    `json:"descriptions,omitempty"`
	NPCs         []string    `json:"npcs,omitempty"`
	Items        []item.Item `json:"items,omitempty"`
	Clues        []string    `json:"clues,omitempty"`
	area         *Area
	game         any
}

// New creates an empty world
func New(name string) *World {
	return &World{Name: name}
}

// AddLand creates a land in w and returns it
func (w *World) AddLand(name string) *Land {
	l := &Land{Name: name, world: w, game: w.game}
	w.Lands = append(w.Lands, l)
	return l
}

// Land finds a land by name
func (w *World) Land(name string) (*Land, error) {
	for _, l := range w.Lands {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("land %q in %q: %w", name, w.Name, ErrNotFound)
}

// Site finds a site by its land, area and site names
func (w *World) Site(land, area, site string) (*Site, error) {
	l, err := w.Land(land)
	if err != nil {
		return nil, err
	}
	a, err := l.Area(area)
	if err != nil {
		return nil, err
	}
	return a.Site(site)
}

// Attach hands game to every place in the world
func (w *World) Attach(game any) {
	w.game = game
	for _, l := range w.Lands {
		l.attach(w, game)
	}
}

// Game returns the game the world is attached to
func (w *World) Game() any { return w.game }

func (w *World) String() string { return w.Name }

// Describe renders the world as an indented tree
func (w *World) Describe() string {
	var b strings.Builder
	b.WriteString(w.Name + "\n")
	for _, l := range w.Lands {
		b.WriteString("  " + l.Name + "\n")
		for _, a := range l.Areas {
			b.WriteString("    " + a.Name + "\n")
			for _, s := range a.Sites {
				b.WriteString("      " + s.Name + "\n")
			}
		}
	}
	return b.String()
}

// AddArea creates an area in l and returns it
func (l *Land) AddArea(name string) *Area {
	a := &Area{Name: name, land: l, game: l.game}
	l.Areas = append(l.Areas, a)
	return a
}

// Area finds an area by name
func (l *Land) Area(name string) (*Area, error) {
	for _, a := range l.Areas {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("area %q in %q: %w", name, l.Name, ErrNotFound)
}

// World is the world the land belongs to
func (l *Land) World() *World { return l.world }

func (l *Land) String() string { return l.Name }

func (l *Land) attach(w *World, game any) {
	l.world, l.game = w, game
	for _, a := range l.Areas {
		a.attach(l, game)
	}
}

// AddSite creates a site in a and returns it
func (a *Area) AddSite(name string, descriptions ...string) *Site {
	s := &Site{Name: name, Descriptions: descriptions, area: a, game: a.game}
	a.Sites = append(a.Sites, s)
	return s
}

// Site finds a site by name
func (a *Area) Site(name string) (*Site, error) {
	for _, s := range a.Sites {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("site %q in %q: %w", name, a.Name, ErrNotFound)
}

// Land is the land the area belongs to
func (a *Area) Land() *Land { return a.land }

func (a *Area) String() string { return a.Name }

func (a *Area) attach(l *Land, game any) {
	a.land, a.game = l, game
	for _, s := range a.Sites {
		s.area, s.game = a, game
	}
}

// Area is the area the site belongs to
func (s *Site) Area() *Area { return s.area }

// Game returns the game the site is attached to
func (s *Site) Game() any { return s.game }

// AddNPC places an NPC, by name, at the site
func (s *Site) AddNPC(name string) {
	if !slices.Contains(s.NPCs, name) {
		s.NPCs = append(s.NPCs, name)
	}
}

// RemoveNPC takes an NPC away from the site
func (s *Site) RemoveNPC(name string) error {
	i := slices.Index(s.NPCs, name)
	if i < 0 {
		return fmt.Errorf("npc %q at %q: %w", name, s.Name, ErrNotFound)
	}
	s.NPCs = slices.Delete(s.NPCs, i, i+1)
	return nil
}

// HasNPC reports whether the NPC is at the site
func (s *Site) HasNPC(name string) bool {
	return slices.Contains(s.NPCs, name)
}

// AddItem leaves an item at the site
func (s *Site) AddItem(i item.Item) {
	s.Items = append(s.Items, i)
}

func (s *Site) String() string { return s.Name }
