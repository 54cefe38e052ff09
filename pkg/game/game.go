package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-kit/pkg/character"
	"github.com/jwebster45206/story-kit/pkg/preserve"
	"github.com/jwebster45206/story-kit/pkg/tutorial"
	"github.com/jwebster45206/story-kit/pkg/world"
)

// KilledNPC is an entry in the respawn queue
type KilledNPC struct {
	Name         string `json:"name"`
	Day          int    `json:"day"`
	RespawnAfter int    `json:"respawn_after"`
}

// Game is one save-backed playthrough. Triggers written against a game use
// the root name "game", e.g. "game.day" or "game.player.site".
type Game struct {
	preserve.Meta `json:"save"`

	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Username      string            `json:"username"`
	Day           int               `json:"day"`
	Playing       bool              `json:"playing"`
	Score         int               `json:"score"`
	Player        *character.Player `json:"player"`
	KilledNPCs    []KilledNPC       `json:"killed_npcs,omitempty"`
	Vars          map[string]int    `json:"vars,omitempty"`
	TutorialState *tutorial.State   `json:"tutorial_state,omitempty"`

	// Live collaborators rebuilt from code after loading
	Tutorial *tutorial.Tutorial `json:"-"`
	World    *world.World       `json:"-"`
}

// New creates a game on day 1
func New(title, username string, player *character.Player) *Game {
	return &Game{
		ID:       uuid.New(),
		Title:    title,
		Username: username,
		Day:      1,
		Playing:  true,
		Player:   player,
		Vars:     map[string]int{},
	}
}

// SaveName is the save name a user's game is stored under
func SaveName(username, title string) string {
	return fmt.Sprintf("(%s) %s", username, title)
}

// Attach wires the code-defined collaborators into a new or loaded game and
// restores their persisted state.
func (g *Game) Attach(w *world.World, t *tutorial.Tutorial) {
	g.World = w
	if w != nil {
		w.Attach(g)
	}
	g.Tutorial = t
	if t != nil && g.TutorialState != nil {
		t.Restore(*g.TutorialState)
	}
	if g.Vars == nil {
		g.Vars = map[string]int{}
	}
}

// Sync copies live collaborator state into the persisted fields
func (g *Game) Sync() {
	if g.Tutorial != nil {
		s := g.Tutorial.State()
		g.TutorialState = &s
	}
}

// AddKilledNPC queues an NPC for respawn
func (g *Game) AddKilledNPC(npc *character.NPC) {
	npc.Kill()
	g.KilledNPCs = append(g.KilledNPCs, KilledNPC{Name: npc.Name, Day: g.Day, RespawnAfter: npc.RespawnAfterDays})
}

// NextDay advances the day and returns the names of NPCs due to respawn,
// removing them from the queue.
func (g *Game) NextDay() []string {
	g.Day++
	var due []string
	kept := g.KilledNPCs[:0]
	for _, k := range g.KilledNPCs {
		if g.Day-k.Day >= k.RespawnAfter {
			due = append(due, k.Name)
			continue
		}
		kept = append(kept, k)
	}
	g.KilledNPCs = kept
	return due
}

// Var reads a game variable, zero when unset
func (g *Game) Var(name string) int { return g.Vars[name] }

// SetVar writes a game variable
func (g *Game) SetVar(name string, v int) {
	if g.Vars == nil {
		g.Vars = map[string]int{}
	}
	g.Vars[name] = v
}

func (g *Game) String() string {
	return fmt.Sprintf("Game Save - %s (Day %d)", g.Meta.Name, g.Day)
}
