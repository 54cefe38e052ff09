package preserve

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type knightV1 struct {
	Meta   `json:"save"`
	Knight string `json:"a"`
	Rank   int    `json:"b"`
}

type knightV2 struct {
	Meta   `json:"save"`
	Knight string `json:"a"`
	Rank   int    `json:"b"`
	Horse  string `json:"c"`
}

func TestManager_RefreshBackfillsNewFields(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore()
	loc := Location{Path: t.TempDir(), Name: "knight"}

	v1 := NewManager(store, func() *knightV1 { return &knightV1{} })
	old := &knightV1{Knight: "Gawain", Rank: 2}
	require.NoError(t, v1.Create(ctx, old, loc))
	assert.Equal(t, 1, old.Version)
	assert.Equal(t, []string{"a", "b"}, old.TrackedFields)

	var logs bytes.Buffer
	migrations := NewMigrations[*knightV2]().
		Add(2, "give every knight a horse", func(k *knightV2) error {
			k.Horse = "Gringolet"
			return nil
		})
	v2 := NewManager(store, func() *knightV2 { return &knightV2{} },
		WithMigrations(migrations),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	k, err := v2.Load(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, "Gawain", k.Knight)
	assert.Equal(t, 2, k.Rank)
	assert.Equal(t, "Gringolet", k.Horse)
	assert.Equal(t, 2, k.Version)
	assert.Equal(t, []string{"a", "b", "c"}, k.TrackedFields)
	assert.Contains(t, logs.String(), "Save refreshed with new fields")
	assert.Equal(t, old.InstanceID, k.InstanceID)

	// The upgraded save was written back, so loading again runs nothing
	calls := 0
	migrations.steps[0].Apply = func(*knightV2) error { calls++; return nil }
	again, err := v2.Load(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, "Gringolet", again.Horse)
}

func TestManager_RefreshRunsPendingInOrder(t *testing.T) {
	var order []int
	step := func(v int) func(*knightV2) error {
		return func(*knightV2) error {
			order = append(order, v)
			return nil
		}
	}
	migrations := NewMigrations[*knightV2]().
		Add(4, "", step(4)).
		Add(2, "", step(2)).
		Add(3, "", step(3))
	m := NewManager(NewFileStore(), func() *knightV2 { return &knightV2{} }, WithMigrations(migrations))

	k := &knightV2{Meta: Meta{Version: 2}}
	require.NoError(t, m.Refresh(k))
	assert.Equal(t, []int{3, 4}, order)
	assert.Equal(t, 4, k.Version)
	assert.Equal(t, 4, migrations.Latest())
}

func TestManager_RefreshFailures(t *testing.T) {
	boom := errors.New("no stables")
	migrations := NewMigrations[*knightV2]().
		Add(2, "", func(*knightV2) error { return boom })
	m := NewManager(NewFileStore(), func() *knightV2 { return &knightV2{} }, WithMigrations(migrations))

	k := &knightV2{Meta: Meta{Version: 1}}
	err := m.Refresh(k)
	assert.True(t, IsSchemaIncompatible(err))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "out of date")
	assert.Equal(t, 1, k.Version)

	future := &knightV2{Meta: Meta{Version: 7}}
	assert.True(t, IsSchemaIncompatible(m.Refresh(future)))
}

func TestManager_LoadRefreshErrorNamesLoadedLocation(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore()
	loc := Location{Path: t.TempDir(), Name: "knight"}

	v1 := NewManager(store, func() *knightV1 { return &knightV1{} })
	require.NoError(t, v1.Create(ctx, &knightV1{Knight: "Gawain"}, loc))

	data, err := store.Read(ctx, loc)
	require.NoError(t, err)
	moved := Location{Path: t.TempDir(), Name: "moved"}
	require.NoError(t, store.Write(ctx, moved, data))

	migrations := NewMigrations[*knightV2]().
		Add(2, "", func(*knightV2) error { return errors.New("no stables") })
	v2 := NewManager(store, func() *knightV2 { return &knightV2{} }, WithMigrations(migrations))

	_, err = v2.Load(ctx, moved)
	require.True(t, IsSchemaIncompatible(err))
	assert.Contains(t, err.Error(), moved.String())
	assert.NotContains(t, err.Error(), loc.Path)
}

func TestManager_CreateUsesLatestVersion(t *testing.T) {
	migrations := NewMigrations[*knightV2]().Add(3, "", func(*knightV2) error { return nil })
	m := NewManager(NewFileStore(), func() *knightV2 { return &knightV2{} }, WithMigrations(migrations))

	k := &knightV2{}
	require.NoError(t, m.Create(context.Background(), k, Location{Path: t.TempDir(), Name: "k"}))
	assert.Equal(t, 3, k.Version)
}

func TestMigrations_Add(t *testing.T) {
	m := NewMigrations[*knightV2]()
	assert.Equal(t, 1, m.Latest())
	assert.Panics(t, func() { m.Add(1, "", nil) })
	m.Add(2, "", nil)
	assert.Panics(t, func() { m.Add(2, "", nil) })
}

func TestNewManager_MismatchedMigrationsPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewManager(NewFileStore(), func() *knightV1 { return &knightV1{} },
			WithMigrations(NewMigrations[*knightV2]()))
	})
}
