package preserve

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager saves and loads entities of one concrete type
type Manager[T Entity] struct {
	store      Store
	newEntity  func() T
	codec      Codec
	prompter   Prompter
	logger     *slog.Logger
	migrations *Migrations[T]
	now        func() time.Time
}

// NewManager creates a manager. newEntity must return an empty, non-nil
// value to decode saves into.
func NewManager[T Entity](store Store, newEntity func() T, opts ...ManagerOption) *Manager[T] {
	cfg := &managerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	m := &Manager[T]{
		store:     store,
		newEntity: newEntity,
		codec:     cfg.codec,
		prompter:  cfg.prompter,
		logger:    cfg.logger,
		now:       time.Now,
	}
	if m.codec == nil {
		m.codec = JSONCodec{}
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if cfg.migrations != nil {
		mig, ok := cfg.migrations.(*Migrations[T])
		if !ok {
			panic(fmt.Sprintf("preserve: migrations %T do not match manager entity type", cfg.migrations))
		}
		m.migrations = mig
	}
	return m
}

// Store returns the backing store
func (m *Manager[T]) Store() Store { return m.store }

// Create fills in e's bookkeeping for loc and, unless WithoutAutoSave is
// given, writes the first snapshot. An existing save at loc is left untouched
// and AlreadyExists is returned.
func (m *Manager[T]) Create(ctx context.Context, e T, loc Location, opts ...CreateOption) error {
	cfg := &createConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	meta := e.SaveMeta()
	meta.Name = loc.Name
	meta.Path = loc.Path
	meta.SetPassword(cfg.password)
	meta.AutoSave = !cfg.noAutoSave
	meta.InstanceID = uuid.NewString()
	meta.Version = m.migrations.Latest()
	meta.TrackedFields = trackedFields(e)
	meta.CreatedAt = m.now().UTC().Round(0)

	if !meta.AutoSave {
		return nil
	}

	data, err := m.encode(e)
	if err != nil {
		return err
	}
	if err := m.store.Create(ctx, loc, data); err != nil {
		m.logFailure("Failed to create save", loc, err)
		return err
	}
	m.logger.Debug("Save created", "save", loc.Name, "path", loc.Path, "codec", m.codec.Name())
	return nil
}

// Save overwrites the snapshot with e's full current state
func (m *Manager[T]) Save(ctx context.Context, e T) error {
	loc := e.SaveMeta().Location()
	data, err := m.encode(e)
	if err != nil {
		return err
	}
	if err := m.store.Write(ctx, loc, data); err != nil {
		m.logFailure("Failed to save", loc, err)
		return err
	}
	m.logger.Debug("Saved", "save", loc.Name, "path", loc.Path)
	return nil
}

// Load reads the save at loc. Access checks run first, then password
// verification, then refresh when migrations are configured. Auto-saving
// entities are written back before returning.
func (m *Manager[T]) Load(ctx context.Context, loc Location, opts ...Option) (T, error) {
	var zero T
	cfg := newCallConfig(opts)

	data, err := m.store.Read(ctx, loc)
	if err != nil {
		m.logFailure("Failed to load save", loc, err)
		return zero, err
	}

	e := m.newEntity()
	if err := m.codec.Unmarshal(data, e); err != nil {
		m.logger.Warn("Save could not be decoded", "save", loc.Name, "path", loc.Path, "error", err)
		return zero, SchemaIncompatible(err, "save %s cannot be decoded", loc)
	}

	for _, c := range cfg.checks {
		ok, err := c.allow(e)
		if err != nil || !ok {
			m.logger.Warn("Access check failed", "save", loc.Name, "reason", c.message)
			denied := AccessDenied(c.message)
			denied.Cause = err
			return zero, denied
		}
	}

	if err := m.verify(e.SaveMeta(), cfg); err != nil {
		return zero, err
	}

	meta := e.SaveMeta()
	meta.Path = loc.Path
	meta.Name = loc.Name

	if m.migrations != nil {
		if err := m.Refresh(e); err != nil {
			return zero, err
		}
	}

	if meta.AutoSave {
		if err := m.Save(ctx, e); err != nil {
			return zero, err
		}
	}
	m.logger.Debug("Save loaded", "save", loc.Name, "path", loc.Path, "version", meta.Version)
	return e, nil
}

// Refresh upgrades e to the latest version by running every pending
// migration in ascending order, then records the current field set.
func (m *Manager[T]) Refresh(e T) error {
	meta := e.SaveMeta()
	latest := m.migrations.Latest()
	if meta.Version > latest {
		return SchemaIncompatible(nil, "save %s is version %d but only version %d is known", meta.Location(), meta.Version, latest)
	}

	for _, step := range m.migrations.Pending(meta.Version) {
		if err := step.Apply(e); err != nil {
			return SchemaIncompatible(err, "save %s is out of date and cannot be upgraded to version %d", meta.Location(), step.Version)
		}
		m.logger.Debug("Migration applied", "save", meta.Name, "version", step.Version, "description", step.Description)
		meta.Version = step.Version
	}
	if meta.Version < 1 {
		meta.Version = 1
	}

	current := trackedFields(e)
	if added := newFields(meta.TrackedFields, current); len(added) > 0 {
		m.logger.Info("Save refreshed with new fields", "save", meta.Name, "fields", added, "version", meta.Version)
	}
	meta.TrackedFields = current
	return nil
}

// EditSaveName moves the save to newName at the same path
func (m *Manager[T]) EditSaveName(ctx context.Context, e T, newName string, opts ...Option) error {
	meta := e.SaveMeta()
	if err := m.verify(meta, newCallConfig(opts)); err != nil {
		return err
	}

	oldLoc := meta.Location()
	if newName == oldLoc.Name {
		return nil
	}
	newLoc := Location{Path: oldLoc.Path, Name: newName}

	exists, err := m.store.Exists(ctx, newLoc)
	if err != nil {
		return err
	}
	if exists {
		return AlreadyExists(newLoc)
	}

	meta.Name = newName
	data, err := m.encode(e)
	if err == nil {
		err = m.store.Create(ctx, newLoc, data)
	}
	if err != nil {
		meta.Name = oldLoc.Name
		m.logFailure("Failed to rename save", newLoc, err)
		return err
	}

	if err := m.store.Delete(ctx, oldLoc); err != nil && !IsNotFound(err) {
		m.logFailure("Failed to remove old save", oldLoc, err)
		return err
	}
	m.logger.Info("Save renamed", "from", oldLoc.Name, "to", newName, "path", oldLoc.Path)
	return nil
}

// EditSavePassword replaces the password. An empty password removes it.
func (m *Manager[T]) EditSavePassword(ctx context.Context, e T, password string, opts ...Option) error {
	meta := e.SaveMeta()
	if err := m.verify(meta, newCallConfig(opts)); err != nil {
		return err
	}
	meta.SetPassword(password)
	return m.saveIfAuto(ctx, e)
}

// EditSavedAttribute sets one top-level field, named by its Go name or json
// tag. With WithSetter the setter receives a pointer to the field instead.
func (m *Manager[T]) EditSavedAttribute(ctx context.Context, e T, field string, value any, opts ...Option) error {
	cfg := newCallConfig(opts)
	meta := e.SaveMeta()
	if err := m.verify(meta, cfg); err != nil {
		return err
	}

	fv, ok := findField(e, field)
	if !ok {
		return NotFound("saved attribute %q does not exist", field)
	}

	if cfg.setter != nil {
		if err := cfg.setter(fv.Addr().Interface(), value); err != nil {
			return fmt.Errorf("set %q: %w", field, err)
		}
	} else if err := assign(fv, value); err != nil {
		return SchemaIncompatible(err, "saved attribute %q", field)
	}
	return m.saveIfAuto(ctx, e)
}

// Delete removes the save. A failed verification is reported as AccessDenied.
func (m *Manager[T]) Delete(ctx context.Context, e T, opts ...Option) error {
	cfg := newCallConfig(opts)
	meta := e.SaveMeta()
	if err := m.verify(meta, cfg); err != nil {
		return &Error{Code: CodeAccessDenied, Message: "save cannot be deleted", Cause: err}
	}

	loc := meta.Location()
	if cfg.nameOverride != "" {
		loc.Name = cfg.nameOverride
	}
	if err := m.store.Delete(ctx, loc); err != nil {
		m.logFailure("Failed to delete save", loc, err)
		return err
	}
	m.logger.Info("Save deleted", "save", loc.Name, "path", loc.Path)
	return nil
}

// Guard runs fn only once the password has been verified
func (m *Manager[T]) Guard(ctx context.Context, e T, fn func(ctx context.Context) error, opts ...Option) error {
	if err := m.verify(e.SaveMeta(), newCallConfig(opts)); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *Manager[T]) saveIfAuto(ctx context.Context, e T) error {
	if !e.SaveMeta().AutoSave {
		return nil
	}
	return m.Save(ctx, e)
}

func (m *Manager[T]) verify(meta *Meta, cfg *callConfig) error {
	if cfg.verified || !meta.Protected() {
		return nil
	}

	var candidate string
	switch {
	case cfg.secret != nil:
		candidate = *cfg.secret
	case m.prompter != nil:
		s, err := m.prompter.Prompt(cfg.prompt)
		if err != nil {
			failed := VerificationFailed()
			failed.Cause = err
			return failed
		}
		candidate = s
	default:
		m.logger.Warn("No password supplied for protected save", "save", meta.Name)
		return VerificationFailed()
	}

	if !meta.VerifyPassword(candidate) {
		m.logger.Warn("Password verification failed", "save", meta.Name)
		return VerificationFailed()
	}
	return nil
}

func (m *Manager[T]) encode(e T) ([]byte, error) {
	data, err := m.codec.Marshal(e)
	if err != nil {
		return nil, IOError(err, "failed to encode save %s", e.SaveMeta().Location())
	}
	return data, nil
}

func (m *Manager[T]) logFailure(msg string, loc Location, err error) {
	if IsIO(err) {
		m.logger.Error(msg, "save", loc.Name, "path", loc.Path, "error", err)
		return
	}
	m.logger.Warn(msg, "save", loc.Name, "path", loc.Path, "error", err)
}

// findField locates an exported top-level field outside the embedded Meta
func findField(e any, name string) (reflect.Value, bool) {
	v := reflect.ValueOf(e)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	t := v.Type()
	var folded []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous || isMeta(t.Field(f.Index[0]).Type) {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if f.Name == name || tag == name {
			folded = f.Index
			break
		}
		if folded == nil && strings.EqualFold(f.Name, name) {
			folded = f.Index
		}
	}
	if folded == nil {
		return reflect.Value{}, false
	}
	fv, err := v.FieldByIndexErr(folded)
	if err != nil || !fv.CanSet() {
		return reflect.Value{}, false
	}
	return fv, true
}

func assign(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(field.Type()):
		field.Set(v)
	case isNumber(v.Kind()) && isNumber(field.Kind()):
		cv, err := convertExact(v, field.Type())
		if err != nil {
			return err
		}
		field.Set(cv)
	default:
		return fmt.Errorf("cannot assign %T to field of type %s", value, field.Type())
	}
	return nil
}

// convertExact converts a number to t and fails when the value would be
// truncated, wrapped or change sign. Narrowing between float kinds only
// rejects overflow.
func convertExact(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	cv := v.Convert(t)
	lossy := negative(v) != negative(cv)
	if isFloat(v.Kind()) && isFloat(t.Kind()) {
		lossy = lossy || (!math.IsInf(v.Float(), 0) && math.IsInf(cv.Float(), 0))
	} else {
		lossy = lossy || !cv.Convert(v.Type()).Equal(v)
	}
	if lossy {
		return reflect.Value{}, fmt.Errorf("%v does not fit a field of type %s", v.Interface(), t)
	}
	return cv, nil
}

func negative(v reflect.Value) bool {
	switch {
	case v.CanInt():
		return v.Int() < 0
	case v.CanFloat():
		return v.Float() < 0
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
