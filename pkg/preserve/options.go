package preserve

import (
	"fmt"
	"log/slog"
)

// ManagerOption configures a Manager
type ManagerOption func(*managerConfig)

type managerConfig struct {
	codec      Codec
	prompter   Prompter
	logger     *slog.Logger
	migrations any
}

// WithCodec selects the save encoding. JSONCodec is the default.
func WithCodec(c Codec) ManagerOption {
	return func(cfg *managerConfig) { cfg.codec = c }
}

// WithPrompter sets where passwords are read from when a call supplies none
func WithPrompter(p Prompter) ManagerOption {
	return func(cfg *managerConfig) { cfg.prompter = p }
}

// WithLogger replaces slog.Default
func WithLogger(l *slog.Logger) ManagerOption {
	return func(cfg *managerConfig) { cfg.logger = l }
}

// WithMigrations enables refresh on load
func WithMigrations[T Entity](m *Migrations[T]) ManagerOption {
	return func(cfg *managerConfig) { cfg.migrations = m }
}

// CreateOption configures Create
type CreateOption func(*createConfig)

type createConfig struct {
	password   string
	noAutoSave bool
}

// WithPassword protects the new save. An empty password means no access control.
func WithPassword(password string) CreateOption {
	return func(cfg *createConfig) { cfg.password = password }
}

// WithoutAutoSave keeps the entity in memory until Save is called
func WithoutAutoSave() CreateOption {
	return func(cfg *createConfig) { cfg.noAutoSave = true }
}

// Option configures Load, Delete, Guard and the Edit operations
type Option func(*callConfig)

type callConfig struct {
	secret       *string
	verified     bool
	prompt       string
	nameOverride string
	checks       []check
	setter       func(field any, value any) error
}

type check struct {
	message string
	allow   func(e any) (bool, error)
}

func newCallConfig(opts []Option) *callConfig {
	cfg := &callConfig{prompt: DefaultPasswordPrompt}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSecret supplies the password instead of prompting for it
func WithSecret(secret string) Option {
	return func(cfg *callConfig) { cfg.secret = &secret }
}

// AlreadyVerified skips password verification
func AlreadyVerified() Option {
	return func(cfg *callConfig) { cfg.verified = true }
}

// WithPromptMessage changes the text shown when prompting for the password
func WithPromptMessage(message string) Option {
	return func(cfg *callConfig) { cfg.prompt = message }
}

// NameOverride makes Delete remove a different save name at the same path
func NameOverride(name string) Option {
	return func(cfg *callConfig) { cfg.nameOverride = name }
}

// WithChecks adds access checks run by Load before password verification
func WithChecks[T Entity](checks ...Check[T]) Option {
	return func(cfg *callConfig) {
		for _, c := range checks {
			allow := c.Allow
			cfg.checks = append(cfg.checks, check{
				message: c.Message,
				allow: func(e any) (bool, error) {
					t, ok := e.(T)
					if !ok {
						return false, fmt.Errorf("check expects %T, got %T", t, e)
					}
					return allow(t)
				},
			})
		}
	}
}

// WithSetter makes EditSavedAttribute call fn with a pointer to the field
// instead of assigning value directly, e.g. to append to a slice.
func WithSetter(fn func(field any, value any) error) Option {
	return func(cfg *callConfig) { cfg.setter = fn }
}
