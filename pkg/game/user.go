package game

import (
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-kit/pkg/achievement"
	"github.com/jwebster45206/story-kit/pkg/preserve"
)

// User is a save-backed account that tracks games and achievements
type User struct {
	preserve.Meta `json:"save"`

	ID       uuid.UUID       `json:"id"`
	Username string          `json:"username"`
	Games    []string        `json:"games,omitempty"`
	Earned   map[string]bool `json:"achievements,omitempty"`

	Achievements []*achievement.Achievement `json:"-"`
}

// NewUser creates an account
func NewUser(username string) *User {
	return &User{ID: uuid.New(), Username: username, Earned: map[string]bool{}}
}

// AttachAchievements installs the code-defined achievements and marks the
// ones this user already earned.
func (u *User) AttachAchievements(list []*achievement.Achievement) {
	u.Achievements = list
	achievement.Restore(list, u.Earned)
}

// UpdateAchievements checks every achievement against game, notifying n of
// new ones, and records completion.
func (u *User) UpdateAchievements(game any, n achievement.Notifier) ([]*achievement.Achievement, error) {
	earned, err := achievement.CheckAll(u.Achievements, game, n)
	if len(earned) > 0 {
		if u.Earned == nil {
			u.Earned = map[string]bool{}
		}
		for _, a := range earned {
			u.Earned[a.Name] = true
		}
	}
	return earned, err
}

// AddGame records a game save name once
func (u *User) AddGame(saveName string) {
	if !slices.Contains(u.Games, saveName) {
		u.Games = append(u.Games, saveName)
	}
}
