package combat

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/jwebster45206/story-kit/pkg/item"
)

// MaxRounds bounds Run when neither side can hurt the other
const MaxRounds = 500

var (
	// ErrFightOver is returned when a round is requested after a winner is known
	ErrFightOver = errors.New("fight is over")
	// ErrStalemate is returned by Run after MaxRounds without a winner
	ErrStalemate = errors.New("fight ended in a stalemate")
)

// WeaponChooser picks the player's weapon for a round
type WeaponChooser func(options []item.Weapon) (item.Weapon, error)

// RoundResult describes one round
type RoundResult struct {
	PlayerWeapon        item.Weapon
	OpponentWeapon      item.Weapon
	PlayerPerformance   float64
	OpponentPerformance float64
	// Damage actually dealt this round
	PlayerDamage   int
	OpponentDamage int
	// Winner is set when the round ended the fight
	Winner *Fighter
}

// Even reports a round in which nobody was hurt
func (r *RoundResult) Even() bool {
	return r.PlayerPerformance == r.OpponentPerformance
}

// Fight is a duel between the player and an opponent
type Fight struct {
	Player   *Fighter
	Opponent *Fighter
	rng      *rand.Rand
	winner   *Fighter
}

// NewFight creates a fight. A nil rng uses the global source.
func NewFight(player, opponent *Fighter, rng *rand.Rand) *Fight {
	return &Fight{Player: player, Opponent: opponent, rng: rng}
}

// Winner is the fighter left standing, or nil while the fight goes on
func (f *Fight) Winner() *Fighter { return f.winner }

// Round plays one round. The better performer strikes first and takes half
// damage; on an exact tie nobody is hurt.
func (f *Fight) Round(choose WeaponChooser) (*RoundResult, error) {
	if f.winner != nil {
		return nil, ErrFightOver
	}

	playerWeapon, err := choose(f.Player.Armoury())
	if err != nil {
		return nil, fmt.Errorf("choose weapon: %w", err)
	}
	opponentWeapon := f.opponentWeapon()

	res := &RoundResult{
		PlayerWeapon:        playerWeapon,
		OpponentWeapon:      opponentWeapon,
		PlayerPerformance:   f.performance(f.Player, playerWeapon),
		OpponentPerformance: f.performance(f.Opponent, opponentWeapon),
	}
	if res.Even() {
		return res, nil
	}

	toOpponent := f.damage(f.Player, playerWeapon, f.Opponent, opponentWeapon)
	toPlayer := f.damage(f.Opponent, opponentWeapon, f.Player, playerWeapon)

	first, second := f.Player, f.Opponent
	firstDamage, secondDamage := toOpponent, toPlayer/2
	if res.OpponentPerformance > res.PlayerPerformance {
		first, second = f.Opponent, f.Player
		firstDamage, secondDamage = toPlayer, toOpponent/2
	}

	// first strikes second, then second strikes back if still standing
	dead, err := second.Damage(firstDamage)
	if err != nil {
		return nil, err
	}
	f.record(res, second, firstDamage)
	if dead {
		f.winner = first
		res.Winner = first
		return res, nil
	}

	dead, err = first.Damage(secondDamage)
	if err != nil {
		return nil, err
	}
	f.record(res, first, secondDamage)
	if dead {
		f.winner = second
		res.Winner = second
	}
	return res, nil
}

// Run plays rounds until one side falls. onRound, if set, sees every round.
func (f *Fight) Run(choose WeaponChooser, onRound func(*RoundResult)) (*Fighter, error) {
	for round := 0; f.winner == nil; round++ {
		if round == MaxRounds {
			return nil, ErrStalemate
		}
		res, err := f.Round(choose)
		if err != nil {
			return nil, err
		}
		if onRound != nil {
			onRound(res)
		}
	}
	return f.winner, nil
}

func (f *Fight) record(res *RoundResult, target *Fighter, dmg int) {
	if target == f.Player {
		res.PlayerDamage = dmg
	} else {
		res.OpponentDamage = dmg
	}
}

// performance mixes statistics, weapon and luck into a score around 25..62
func (f *Fight) performance(c *Fighter, w item.Weapon) float64 {
	off := float64(c.Stat(AttrOffense)+100) / 200 * float64(w.Offense+100) / 200
	def := float64(c.Stat(AttrDefence)+100) / 200 * float64(w.Defence+100) / 200
	agi := float64(c.Stat(AttrAgility)+100) / 200 * float64(w.Range+100) / 400
	return (off + def + agi + f.uniform(0, 1.5)) * 25
}

// damage is what attacker deals to defender before performance halving
func (f *Fight) damage(attacker *Fighter, aw item.Weapon, defender *Fighter, dw item.Weapon) int {
	hit := float64(attacker.Stat(AttrOffense)+aw.Offense) * f.uniform(0.8, 1.2) * 0.5
	block := float64(defender.Stat(AttrDefence)+dw.Defence) * f.uniform(0.8, 1.2) * 0.5
	return int(math.Round(math.Max(hit-block, 0)))
}

// opponentWeapon favours weapons with higher offense plus defence
func (f *Fight) opponentWeapon() item.Weapon {
	options := f.Opponent.Armoury()
	weights := make([]float64, len(options))
	for i, w := range options {
		weights[i] = math.Max(float64(w.Offense+w.Defence), 0)
	}
	g := item.NewGenerator(options, f.rng)
	picked, err := g.Generate(1, weights)
	if err != nil {
		// all weights zero, e.g. only fists
		picked, _ = g.Generate(1, nil)
	}
	return picked[0]
}

func (f *Fight) uniform(lo, hi float64) float64 {
	r := rand.Float64
	if f.rng != nil {
		r = f.rng.Float64
	}
	return lo + r()*(hi-lo)
}
