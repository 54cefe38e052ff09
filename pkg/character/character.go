package character

import "fmt"

// MinStat and MaxStat bound every character statistic
const (
	MinStat = 0
	MaxStat = 100
)

// Race supplies the base statistics of its members
type Race struct {
	Name    string `json:"name"`
	Offense int    `json:"offense"`
	Defence int    `json:"defence"`
	Agility int    `json:"agility"`
}

// Stats are the combat statistics of a character
type Stats struct {
	Offense int `json:"offense"`
	Defence int `json:"defence"`
	Agility int `json:"agility"`
}

// Capped returns s with every value limited to MinStat..MaxStat
func (s Stats) Capped() Stats {
	return Stats{
		Offense: Cap(s.Offense, MinStat, MaxStat),
		Defence: Cap(s.Defence, MinStat, MaxStat),
		Agility: Cap(s.Agility, MinStat, MaxStat),
	}
}

// Cap limits value to lower..upper. It panics if upper < lower.
func Cap(value, lower, upper int) int {
	if upper < lower {
		panic(fmt.Sprintf("character: upper bound %d is below lower bound %d", upper, lower))
	}
	return min(max(value, lower), upper)
}
