package item

import "fmt"

// Item is anything that can be carried, bought or sold. Rarity runs from 0
// (common) to 1 (unique).
type Item struct {
	Name        string  `json:"name"`
	Cost        int     `json:"cost"`
	Rarity      float64 `json:"rarity"`
	RawCurrency bool    `json:"raw_currency,omitempty"`
	Sellable    bool    `json:"sellable"`
}

// New creates a sellable item
func New(name string, cost int, rarity float64) Item {
	return Item{Name: name, Cost: cost, Rarity: rarity, Sellable: true}
}

// Currency creates an item that is only worth its face value
func Currency(name string, value int) Item {
	return Item{Name: name, Cost: value, RawCurrency: true, Sellable: true}
}

func (i Item) String() string {
	return fmt.Sprintf("%s (%d)", i.Name, i.Cost)
}

// Weapon is an item usable in combat
type Weapon struct {
	Item
	Offense int `json:"offense"`
	Defence int `json:"defence"`
	Range   int `json:"range"`
}

// NewWeapon creates a sellable weapon
func NewWeapon(name string, cost int, rarity float64, offense, defence, attackRange int) Weapon {
	return Weapon{Item: New(name, cost, rarity), Offense: offense, Defence: defence, Range: attackRange}
}

// Unarmed is the weapon used when a fighter carries none
func Unarmed() Weapon {
	return Weapon{Item: Item{Name: "Fists"}}
}

// Artefact is a rare item with significance to the world
type Artefact struct {
	Item
}

// NewArtefact creates a sellable artefact
func NewArtefact(name string, cost int, rarity float64) Artefact {
	return Artefact{Item: New(name, cost, rarity)}
}

// Inventory holds what a character carries
type Inventory struct {
	Items     []Item     `json:"items,omitempty"`
	Weapons   []Weapon   `json:"weapons,omitempty"`
	Artefacts []Artefact `json:"artefacts,omitempty"`
}

// Len is the number of things carried
func (inv Inventory) Len() int {
	return len(inv.Items) + len(inv.Weapons) + len(inv.Artefacts)
}

// TriggerAttribute exposes "len" and "sell_value" to trigger paths
func (inv Inventory) TriggerAttribute(name string) (any, bool) {
	switch name {
	case "len":
		return inv.Len(), true
	case "sell_value":
		return inv.SellValue(), true
	}
	return nil, false
}

// Clone returns an inventory that shares no slices with inv
func (inv Inventory) Clone() Inventory {
	return Inventory{
		Items:     append([]Item(nil), inv.Items...),
		Weapons:   append([]Weapon(nil), inv.Weapons...),
		Artefacts: append([]Artefact(nil), inv.Artefacts...),
	}
}

// Merge appends everything in other
func (inv *Inventory) Merge(other Inventory) {
	inv.Items = append(inv.Items, other.Items...)
	inv.Weapons = append(inv.Weapons, other.Weapons...)
	inv.Artefacts = append(inv.Artefacts, other.Artefacts...)
}

// Armoury lists the weapons to fight with, falling back to unarmed
func (inv Inventory) Armoury(unarmed Weapon) []Weapon {
	if len(inv.Weapons) == 0 {
		return []Weapon{unarmed}
	}
	return append([]Weapon(nil), inv.Weapons...)
}

// SellValue is the total cost of every sellable thing
func (inv Inventory) SellValue() int {
	total := 0
	for _, i := range inv.Items {
		if i.Sellable {
			total += i.Cost
		}
	}
	for _, w := range inv.Weapons {
		if w.Sellable {
			total += w.Cost
		}
	}
	for _, a := range inv.Artefacts {
		if a.Sellable {
			total += a.Cost
		}
	}
	return total
}

// Bound marks everything as not sellable, e.g. an NPC's own belongings
func (inv Inventory) Bound() Inventory {
	out := inv.Clone()
	for i := range out.Items {
		out.Items[i].Sellable = false
	}
	for i := range out.Weapons {
		out.Weapons[i].Sellable = false
	}
	for i := range out.Artefacts {
		out.Artefacts[i].Sellable = false
	}
	return out
}
