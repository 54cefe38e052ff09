package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/jwebster45206/story-kit/pkg/achievement"
	"github.com/jwebster45206/story-kit/pkg/action"
	"github.com/jwebster45206/story-kit/pkg/character"
	"github.com/jwebster45206/story-kit/pkg/combat"
	"github.com/jwebster45206/story-kit/pkg/console"
	"github.com/jwebster45206/story-kit/pkg/game"
	"github.com/jwebster45206/story-kit/pkg/item"
	"github.com/jwebster45206/story-kit/pkg/preserve"
	"github.com/jwebster45206/story-kit/pkg/trigger"
	"github.com/jwebster45206/story-kit/pkg/tutorial"
	"github.com/jwebster45206/story-kit/pkg/world"
)

const (
	adventureTitle = "The Vale"
	homeLand       = "Vale"
	lanternCost    = 25
	wolvesVar      = "wolves"
)

var lantern = item.New("lantern", lanternCost, 0.2)

// adventure is the demo content: one small world played through a game.Game
type adventure struct {
	game  *game.Game
	npcs  map[string]*character.NPC
	homes map[string]*world.Site
	rng   *rand.Rand
	out   []string
}

// newGame starts a fresh playthrough for username
func newGame(username string) *game.Game {
	p := character.NewPlayer(username, nil)
	p.Currency = 40
	p.MoveTo(homeLand, "Town", "gate")
	g := game.New(adventureTitle, username, p)
	g.SetVar(wolvesVar, 0)
	return g
}

// gameMigrations upgrade saves written by older builds
func gameMigrations() *preserve.Migrations[*game.Game] {
	return preserve.NewMigrations[*game.Game]().
		Add(2, "track defeated wolves", func(g *game.Game) error {
			if _, ok := g.Vars[wolvesVar]; !ok {
				g.SetVar(wolvesVar, 0)
			}
			return nil
		})
}

// newAdventure wires the world, NPCs, actions and tutorial into g
func newAdventure(g *game.Game, rng *rand.Rand) (*adventure, error) {
	if g.Player == nil {
		return nil, errors.New("game has no player")
	}
	a := &adventure{
		game:  g,
		npcs:  map[string]*character.NPC{},
		homes: map[string]*world.Site{},
		rng:   rng,
	}

	w := world.New("Eldoria")
	vale := w.AddLand(homeLand)
	town := vale.AddArea("Town")
	gate := town.AddSite("gate", "The town gate creaks in the wind.")
	market := town.AddSite("market", "Stalls crowd the square.", "Mira keeps a lantern stall by the well.")
	town.AddSite("inn", "The Sleeping Fox. A fire crackles in the hearth.")
	clearing := vale.AddArea("Woods").AddSite("clearing", "Pines ring a quiet clearing. Something has been gnawing the bones here.")
	gate.AddItem(item.Currency("copper coin", 1))

	mira, err := character.NewNPC("Mira", character.Race{Name: "Human", Offense: 20, Defence: 30, Agility: 40}, market.Name,
		character.Stationary(),
		character.WithGender("female"),
		character.WithCurrency(500),
		character.WithBaseInventory(item.Inventory{Items: []item.Item{lantern}}),
	)
	if err != nil {
		return nil, err
	}
	wolf, err := character.NewNPC("Grey Wolf", character.Race{Name: "Wolf", Offense: 45, Defence: 20, Agility: 60}, clearing.Name,
		character.WithHealth(60, 60),
		character.WithRespawnAfter(2),
		character.WithLoot(&item.Loot{
			Items: item.NewGenerator([]item.Item{
				item.New("wolf pelt", 30, 0.3),
				item.New("wolf fang", 12, 0.1),
				item.New("silver ring", 80, 0.9),
			}, rng),
			MaxItems: 2,
		}),
		character.WithPresence(trigger.New("game.player.site", clearing.Name)),
	)
	if err != nil {
		return nil, err
	}
	for site, npc := range map[*world.Site]*character.NPC{market: mira, clearing: wolf} {
		a.npcs[npc.Name] = npc
		a.homes[npc.Name] = site
		site.AddNPC(npc.Name)
	}

	// NPCs still waiting to respawn stay dead after a load
	for _, k := range g.KilledNPCs {
		if npc, ok := a.npcs[k.Name]; ok {
			npc.Kill()
			_ = a.homes[k.Name].RemoveNPC(k.Name)
		}
	}

	g.Player.SetActions(a.actions())
	g.Attach(w, a.tutorial())
	if _, ok := g.Vars[wolvesVar]; !ok {
		g.SetVar(wolvesVar, 0)
	}
	return a, nil
}

// Notify collects achievement announcements for the turn log
func (a *adventure) Notify(message string) { a.out = append(a.out, message) }

func (a *adventure) say(format string, args ...any) {
	a.out = append(a.out, fmt.Sprintf(format, args...))
}

// drain returns and clears the messages produced since the last call
func (a *adventure) drain() []string {
	out := a.out
	a.out = nil
	return out
}

func achievements() []*achievement.Achievement {
	return []*achievement.Achievement{
		achievement.New("Window Shopper", "Visit the market",
			trigger.New("game.player.site", "market")),
		achievement.New("Lantern Bearer", "Carry something you bought",
			trigger.New("game.player.inventory.len", 1, trigger.WithComparator(trigger.AtLeast))),
		achievement.New("Wolfsbane", "Defeat the grey wolf",
			trigger.New("game.vars.wolves", 1, trigger.WithComparator(trigger.AtLeast))),
		achievement.New("Early Riser", "See a second morning",
			trigger.New("game.day", 2, trigger.WithComparator(trigger.AtLeast))),
	}
}

func (a *adventure) tutorial() *tutorial.Tutorial {
	hint := func(lines ...string) func(*tutorial.Tutorial, any) error {
		return func(t *tutorial.Tutorial, _ any) error {
			a.say("%s", console.Hint(lines...))
			t.Advance()
			return nil
		}
	}
	return tutorial.New(
		tutorial.Stage{Run: hint("Pick an action by typing its number.", "Type /help for commands.")},
		tutorial.Stage{
			Run:      hint("Mira sells lanterns. Talk to her, then buy one."),
			Triggers: []trigger.Trigger{trigger.New("game.player.site", "market")},
		},
		tutorial.Stage{
			Run: hint("Something howls in the clearing. With a light you might face it."),
			Triggers: []trigger.Trigger{
				trigger.New("game.player.inventory.len", 1, trigger.WithComparator(trigger.AtLeast)),
			},
		},
		tutorial.Stage{
			Run: hint("The wolf will be back. Rest at the inn to pass the days."),
			Triggers: []trigger.Trigger{
				trigger.New("game.vars.wolves", 1, trigger.WithComparator(trigger.AtLeast)),
			},
		},
	)
}

func (a *adventure) actions() *action.Group[*character.Player] {
	elsewhere := func(site string) trigger.Trigger {
		return trigger.New("self.site", site, trigger.WithComparator(trigger.NotEqual))
	}
	return action.NewGroup[*character.Player]().
		Add(1, "go to the gate", a.travel("Town", "gate"), elsewhere("gate")).
		Add(2, "go to the market", a.travel("Town", "market"), elsewhere("market")).
		Add(3, "go to the inn", a.travel("Town", "inn"), elsewhere("inn")).
		Add(4, "go to the clearing", a.travel("Woods", "clearing"), elsewhere("clearing")).
		Add(5, "talk to Mira", a.talk, trigger.New("self.npc", "Mira")).
		Add(6, "buy a lantern", a.buyLantern,
			trigger.New("self.npc", "Mira"),
			trigger.New("self.currency", lanternCost, trigger.WithComparator(trigger.AtLeast))).
		Add(7, "fight the wolf", a.fight, trigger.New("self.npc", "Grey Wolf")).
		Add(8, "sleep until morning", a.sleep, trigger.New("self.site", "inn"))
}

func (a *adventure) travel(area, site string) func(*character.Player) error {
	return func(p *character.Player) error {
		s, err := a.game.World.Site(homeLand, area, site)
		if err != nil {
			return err
		}
		p.MoveTo(homeLand, area, site)
		for _, d := range s.Descriptions {
			a.say("%s", d)
		}
		for _, name := range s.NPCs {
			npc := a.npcs[name]
			if npc == nil || !npc.Alive() {
				continue
			}
			here, err := npc.Present(a.game)
			if err != nil {
				return err
			}
			if here {
				p.NPC = name
				a.say("%s is here.", console.Cyan(name))
				break
			}
		}
		return nil
	}
}

func (a *adventure) talk(p *character.Player) error {
	a.say("%s", console.Speech("Mira", fmt.Sprintf("A lantern for the woods? %d coins, and worth every one.", lanternCost)))
	return nil
}

func (a *adventure) buyLantern(p *character.Player) error {
	mira := a.npcs["Mira"]
	p.Currency -= lanternCost
	mira.Currency += lanternCost
	bought := lantern
	p.Inventory.Items = append(p.Inventory.Items, bought)
	a.say("You buy a %s. %d coins left.", bought.Name, p.Currency)
	return nil
}

// strongest picks the weapon with the highest offense
func strongest(options []item.Weapon) (item.Weapon, error) {
	if len(options) == 0 {
		return item.Weapon{}, errors.New("no weapons")
	}
	return slices.MaxFunc(options, func(x, y item.Weapon) int { return x.Offense - y.Offense }), nil
}

func (a *adventure) fight(p *character.Player) error {
	npc := a.npcs[p.NPC]
	if npc == nil || !npc.Alive() {
		return fmt.Errorf("nobody to fight")
	}
	pf, err := combat.FromPlayer(p)
	if err != nil {
		return err
	}
	of, err := combat.FromNPC(npc)
	if err != nil {
		return err
	}

	rounds := 0
	winner, err := combat.NewFight(pf, of, a.rng).Run(strongest, func(*combat.RoundResult) { rounds++ })
	p.Health, npc.Health = pf.HP(), of.HP()
	if errors.Is(err, combat.ErrStalemate) {
		a.say("After %d rounds the %s slinks back into the trees.", rounds, npc.Name)
		return nil
	}
	if err != nil {
		return err
	}

	if winner != pf {
		a.say("%s You wake up at the inn.", console.Red(fmt.Sprintf("The %s overwhelms you after %d rounds.", npc.Name, rounds)))
		p.Respawn()
		p.MoveTo(homeLand, "Town", "inn")
		return nil
	}

	a.say("%s", console.Green(fmt.Sprintf("You defeat the %s in %d rounds.", npc.Name, rounds)))
	if err := a.homes[npc.Name].RemoveNPC(npc.Name); err != nil {
		return err
	}
	a.game.AddKilledNPC(npc)
	for _, it := range npc.Inventory.Items {
		a.say("You take a %s.", it.Name)
	}
	p.Inventory.Merge(npc.Inventory)
	npc.Inventory = item.Inventory{}
	p.NPC = ""
	a.game.SetVar(wolvesVar, a.game.Var(wolvesVar)+1)
	a.game.Score += 5
	return nil
}

func (a *adventure) sleep(p *character.Player) error {
	for _, name := range a.game.NextDay() {
		npc, ok := a.npcs[name]
		if !ok {
			continue
		}
		if err := npc.Respawn(); err != nil {
			return err
		}
		a.homes[name].AddNPC(name)
	}
	p.Respawn()
	a.say("You sleep soundly. Day %d begins.", a.game.Day)
	return nil
}
