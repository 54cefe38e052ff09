package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/story-kit/pkg/achievement"
	"github.com/jwebster45206/story-kit/pkg/preserve"
)

// Session drives the game loop for one user playing one game
type Session struct {
	Game     *Game
	User     *User
	Games    *preserve.Manager[*Game]
	Users    *preserve.Manager[*User]
	Notifier achievement.Notifier
	Logger   *slog.Logger
}

// TickResult reports what happened during one turn
type TickResult struct {
	TutorialRan  bool
	Achievements []*achievement.Achievement
}

// Tick plays one turn: refresh the player's actions, run the tutorial stage
// if its triggers pass, let turn act on the game, update achievements, then
// save the game and the user.
func (s *Session) Tick(ctx context.Context, turn func(*Game) error) (*TickResult, error) {
	res := &TickResult{}
	g := s.Game

	if g.Player != nil {
		if err := g.Player.AdjustActions(); err != nil {
			return res, fmt.Errorf("adjust actions: %w", err)
		}
	}

	if g.Tutorial != nil {
		ran, err := g.Tutorial.Step(g)
		if err != nil {
			return res, err
		}
		res.TutorialRan = ran
	}

	if turn != nil {
		if err := turn(g); err != nil {
			return res, err
		}
	}

	if s.User != nil {
		earned, err := s.User.UpdateAchievements(g, s.Notifier)
		res.Achievements = earned
		if err != nil {
			return res, err
		}
	}

	if err := s.Save(ctx); err != nil {
		return res, err
	}
	s.logger().Debug("Tick complete", "game", g.Meta.Name, "day", g.Day, "tutorial_ran", res.TutorialRan, "achievements", len(res.Achievements))
	return res, nil
}

// Save writes the game and user snapshots
func (s *Session) Save(ctx context.Context) error {
	s.Game.Sync()
	if s.Games != nil {
		if err := s.Games.Save(ctx, s.Game); err != nil {
			return err
		}
	}
	if s.User != nil && s.Users != nil {
		if err := s.Users.Save(ctx, s.User); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
