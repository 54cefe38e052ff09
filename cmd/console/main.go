package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/story-kit/internal/config"
	"github.com/jwebster45206/story-kit/internal/logger"
	"github.com/jwebster45206/story-kit/pkg/console"
	"github.com/jwebster45206/story-kit/pkg/game"
	"github.com/jwebster45206/story-kit/pkg/menu"
	"github.com/jwebster45206/story-kit/pkg/phase"
	"github.com/jwebster45206/story-kit/pkg/preserve"
)

const maxLoginAttempts = 3

// errQuit ends the phase loop from the main menu
var errQuit = errors.New("quit")

// consoleApp holds what the phases share
type consoleApp struct {
	ctx   context.Context
	cfg   *config.Config
	log   *slog.Logger
	store preserve.Store
	users *preserve.Manager[*game.User]
	games *preserve.Manager[*game.Game]
	lines *console.LinePrompter
	out   io.Writer

	user *game.User
	game *game.Game
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The UI owns the terminal, so logs go to a file
	logPath := filepath.Join(os.TempDir(), "story-kit-console.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()
	log := logger.SetupTo(logFile, cfg)

	ctx := context.Background()
	store, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open save store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	codec, err := preserve.CodecByName(cfg.SaveCodec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	secret := console.NewSecretPrompter()
	app := &consoleApp{
		ctx:   ctx,
		cfg:   cfg,
		log:   log,
		store: store,
		users: preserve.NewManager(store, func() *game.User { return &game.User{} },
			preserve.WithCodec(codec), preserve.WithPrompter(secret), preserve.WithLogger(logger.WithComponent(log, "users"))),
		games: preserve.NewManager(store, func() *game.Game { return &game.Game{} },
			preserve.WithCodec(codec), preserve.WithPrompter(secret), preserve.WithLogger(logger.WithComponent(log, "games")),
			preserve.WithMigrations(gameMigrations())),
		lines: console.NewLinePrompter(os.Stdin, os.Stdout),
		out:   os.Stdout,
	}

	phases := phase.NewApp(
		phase.New("login", app.login),
		phase.New("menu", app.mainMenu),
		phase.New("play", app.play),
	).WithLogger(logger.WithComponent(log, "phases"))

	if err := phases.Start(); err != nil && !errors.Is(err, errQuit) {
		log.Error("Console stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newStore opens the configured save backend
func newStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (preserve.Store, func(), error) {
	if cfg.SaveBackend == config.BackendRedis {
		rs, err := preserve.NewRedisStoreFromURL(cfg.RedisURL, cfg.SaveTTL, log)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			_ = rs.Close()
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	}
	return preserve.NewFileStore(), func() {}, nil
}

// where describes a save location for the user
func (c *consoleApp) where(loc preserve.Location) string {
	switch s := c.store.(type) {
	case *preserve.FileStore:
		return s.File(loc)
	case *preserve.RedisStore:
		return s.Key(loc)
	}
	return loc.String()
}

func (c *consoleApp) location(name string) preserve.Location {
	return preserve.Location{Path: c.cfg.SavePath, Name: name}
}

// login loads the user's account, creating it on first use
func (c *consoleApp) login(app *phase.App) (any, error) {
	fmt.Fprintln(c.out, console.Rule(console.DefaultWidth))
	fmt.Fprintln(c.out, console.Bold("STORY KIT"))
	fmt.Fprintln(c.out, console.Rule(console.DefaultWidth))

	username, err := c.lines.Prompt("Username: ")
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("a username is required")
	}
	if err := preserve.ValidName(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	loc := c.location(username)
	var user *game.User
	for attempt := 1; ; attempt++ {
		user, err = c.users.Load(c.ctx, loc, preserve.WithPromptMessage(fmt.Sprintf("Password for %s: ", username)))
		if !preserve.IsVerificationFailed(err) || attempt == maxLoginAttempts {
			break
		}
		fmt.Fprintln(c.out, console.Red("Wrong password."))
	}
	switch {
	case err == nil:
		fmt.Fprintf(c.out, "Welcome back, %s.\n", username)
	case preserve.IsNotFound(err):
		password, perr := console.NewSecretPrompter().Prompt("Choose a password (blank for none): ")
		if perr != nil {
			return nil, perr
		}
		user = game.NewUser(username)
		if err := c.users.Create(c.ctx, user, loc, preserve.WithPassword(password)); err != nil {
			return nil, err
		}
		fmt.Fprintf(c.out, "Created account %s.\n", username)
	default:
		return nil, err
	}

	user.AttachAchievements(achievements())
	c.user = user
	return user, nil
}

// mainMenu picks the game to play
func (c *consoleApp) mainMenu(app *phase.App) (any, error) {
	c.game = nil
	m := menu.Instance("main", func() *menu.Menu {
		return menu.New("Main Menu", menu.DefaultQuery).
			Add(1, "new game", func(*menu.Menu) (any, error) { return c.newGame() }).
			Add(2, "continue", func(*menu.Menu) (any, error) { return c.loadGame() }).
			AddLoop(3, "list saves", func(*menu.Menu) (any, error) { return nil, c.listSaves() }).
			Add(4, "delete save", func(*menu.Menu) (any, error) { return nil, c.deleteGame() }).
			Add(5, "quit", func(*menu.Menu) (any, error) { return nil, errQuit })
	})

	for c.game == nil {
		_, err := m.Run(c.lines.Reader(), c.out)
		switch {
		case errors.Is(err, errQuit):
			app.Exit()
			return nil, nil
		case errors.Is(err, menu.ErrNotInteger), errors.Is(err, menu.ErrInvalidOption):
			fmt.Fprintln(c.out, console.Red(err.Error()))
		case preserve.IsNotFound(err), preserve.IsAlreadyExists(err), preserve.IsVerificationFailed(err), preserve.IsAccessDenied(err):
			fmt.Fprintln(c.out, console.Red(err.Error()))
		case err != nil:
			return nil, err
		}
	}
	return c.game, nil
}

func (c *consoleApp) newGame() (any, error) {
	g := newGame(c.user.Username)
	if err := c.games.Create(c.ctx, g, c.location(game.SaveName(c.user.Username, g.Title))); err != nil {
		return nil, err
	}
	c.user.AddGame(g.Meta.Name)
	if err := c.users.Save(c.ctx, c.user); err != nil {
		return nil, err
	}
	c.game = g
	return g, nil
}

func (c *consoleApp) loadGame() (any, error) {
	name := game.SaveName(c.user.Username, adventureTitle)
	g, err := c.games.Load(c.ctx, c.location(name),
		preserve.WithChecks(preserve.Check[*game.Game]{
			Message: "this save belongs to another user",
			Allow:   func(g *game.Game) (bool, error) { return g.Username == c.user.Username, nil },
		}))
	if err != nil {
		return nil, err
	}
	c.game = g
	return g, nil
}

func (c *consoleApp) listSaves() error {
	if len(c.user.Games) == 0 {
		fmt.Fprintln(c.out, "No saves yet.")
		return nil
	}
	for _, name := range c.user.Games {
		fmt.Fprintf(c.out, "• %s (%s)\n", name, c.where(c.location(name)))
	}
	return nil
}

func (c *consoleApp) deleteGame() error {
	g, err := c.games.Load(c.ctx, c.location(game.SaveName(c.user.Username, adventureTitle)))
	if err != nil {
		return err
	}
	if err := c.games.Delete(c.ctx, g); err != nil {
		return err
	}
	c.user.Games = slices.DeleteFunc(c.user.Games, func(n string) bool { return n == g.Meta.Name })
	fmt.Fprintf(c.out, "Deleted %s.\n", g.Meta.Name)
	return c.users.Save(c.ctx, c.user)
}

// play runs the UI for the chosen game and then returns to the menu
func (c *consoleApp) play(app *phase.App) (any, error) {
	adv, err := newAdventure(c.game, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(c.game.Day))))
	if err != nil {
		return nil, err
	}
	session := &game.Session{
		Game:     c.game,
		User:     c.user,
		Games:    c.games,
		Users:    c.users,
		Notifier: adv,
		Logger:   c.log,
	}

	p := tea.NewProgram(NewConsoleUI(c.ctx, session, adv, c.where(c.game.Location())),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	if err := session.Save(c.ctx); err != nil {
		return nil, err
	}
	return c.game, app.GoTo(1)
}
