package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir()
	SetDir(dir)
	t.Cleanup(func() { SetDir(prev) })
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestEmbeddedArchetypesLoad(t *testing.T) {
	useDir(t, "")
	r := NewRegistry()
	names := r.Archetypes()
	require.Equal(t, []string{"citizen", "gunman", "zombie"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			spec, err := r.NPC(name)
			require.NoError(t, err)
			assert.Equal(t, name, spec.Name)
			assert.LessOrEqual(t, spec.Speed.Min, spec.Speed.Max)
			assert.Greater(t, spec.Hull.Height, 0.0)
			assert.Greater(t, spec.MeleeStrikeTime, 0.0)
			if spec.UseWeapon {
				_, err := r.Item(spec.Weapon)
				assert.NoError(t, err)
			}
			if spec.Script != "" {
				_, err := LoadScript(spec.Script)
				assert.NoError(t, err)
			}
		})
	}
}

func TestNPCDefaults(t *testing.T) {
	useDir(t, "")
	spec, err := LoadNPCSpec("citizen")
	require.NoError(t, err)
	assert.Equal(t, 0.0, spec.SpawnHealth)
	assert.Equal(t, RangeSpec{Min: 100, Max: 500}, spec.Speed)
	assert.Equal(t, 1.0, spec.MeleeStrikeTime)
	assert.Equal(t, HullSpec{Height: 72, Radius: 8}, spec.Hull)
	assert.Equal(t, 64.0, spec.EyeHeight)
	assert.Nil(t, spec.Melee)

	zombie, err := LoadNPCSpec("npcs/zombie.yaml")
	require.NoError(t, err)
	require.NotNil(t, zombie.Melee)
	require.NotNil(t, zombie.Melee.RequireTarget)
	assert.True(t, *zombie.Melee.RequireTarget)
}

func TestItemAndLevelLoad(t *testing.T) {
	useDir(t, "")
	pistol, err := LoadItemSpec("pistol")
	require.NoError(t, err)
	assert.Equal(t, "pistol", pistol.Kind)
	assert.Equal(t, 0.4, pistol.FireInterval)

	crowbar, err := LoadItemSpec("crowbar")
	require.NoError(t, err)
	assert.Equal(t, "carriable", crowbar.Kind)
	assert.Equal(t, 4096.0, crowbar.Range)

	level, err := LoadLevelSpec("arena")
	require.NoError(t, err)
	assert.NotEmpty(t, level.Boxes)
	assert.NotEmpty(t, level.NPCs)
	require.Len(t, level.Players, 1)
	assert.Equal(t, 100.0, level.Players[0].Health)
	for _, b := range level.Boxes {
		assert.NotEmpty(t, b.Layer)
		assert.NotEmpty(t, b.Surface)
	}
}

func TestUnknownSpecs(t *testing.T) {
	useDir(t, "")
	_, err := LoadNPCSpec("dragon")
	assert.True(t, errors.Is(err, ErrUnknownArchetype), "got %v", err)
	_, err = LoadItemSpec("rocket")
	assert.True(t, errors.Is(err, ErrUnknownItem), "got %v", err)
	_, err = LoadLevelSpec("moon")
	assert.True(t, errors.Is(err, ErrUnknownLevel), "got %v", err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		schema string
		doc    string
		ok     bool
	}{
		{"npc_minimal", "npc", "name: a\n", true},
		{"npc_empty", "npc", "", true},
		{"npc_bad_speed", "npc", "speed: fast\n", false},
		{"npc_unknown_field", "npc", "wings: 2\n", false},
		{"npc_weapon_required", "npc", "use_weapon: true\n", false},
		{"npc_weapon_given", "npc", "use_weapon: true\nweapon: pistol\n", true},
		{"npc_bad_hitbox_group", "npc", "hitboxes:\n  - group: tail\n    min: [0, 0, 0]\n    max: [1, 1, 1]\n", false},
		{"npc_short_vector", "npc", "hitboxes:\n  - group: head\n    min: [0, 0]\n    max: [1, 1, 1]\n", false},
		{"item_fractional_bucket", "item", "bucket: 1.5\n", false},
		{"item_ok", "item", "kind: pistol\nbucket: 1\n", true},
		{"level_bad_layer", "level", "boxes:\n  - min: [0, 0, 0]\n    max: [1, 1, 1]\n    layer: lava\n", false},
		{"level_npc_needs_position", "level", "npcs:\n  - archetype: zombie\n", false},
		{"not_yaml", "npc", "a: [\n", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(c.schema, []byte(c.doc))
			if c.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSpec), "got %v", err)
		})
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	writeFile(t, filepath.Join(dir, "npcs", "zombie.yaml"), "name: zombie\nspawn_health: 250\nspeed:\n  min: 50\n  max: 60\n")
	writeFile(t, filepath.Join(dir, "scripts", "zombie.tengo"), "hooks = {}\n")

	spec, err := LoadNPCSpec("zombie")
	require.NoError(t, err)
	assert.Equal(t, 250.0, spec.SpawnHealth)
	assert.Equal(t, RangeSpec{Min: 50, Max: 60}, spec.Speed)

	src, err := LoadScript("zombie")
	require.NoError(t, err)
	assert.Equal(t, "hooks = {}\n", string(src))

	_, ok := ModTime("npcs/zombie.yaml")
	assert.True(t, ok)

	// Files missing from disk still come from the embedded copy.
	citizen, err := LoadNPCSpec("citizen")
	require.NoError(t, err)
	assert.Equal(t, "citizen", citizen.Name)
}

func TestRegistryApply(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	r := NewRegistry()

	before, err := r.NPC("zombie")
	require.NoError(t, err)
	assert.Equal(t, 100.0, before.SpawnHealth)

	writeFile(t, filepath.Join(dir, "npcs", "zombie.yaml"), "name: zombie\nspawn_health: 10\n")
	cached, err := r.NPC("zombie")
	require.NoError(t, err)
	assert.Equal(t, 100.0, cached.SpawnHealth)

	require.NoError(t, r.Apply(Change{Kind: ChangeNPC, Name: "zombie"}))
	after, err := r.NPC("zombie")
	require.NoError(t, err)
	assert.Equal(t, 10.0, after.SpawnHealth)

	writeFile(t, filepath.Join(dir, "npcs", "zombie.yaml"), "spawn_health: lots\n")
	err = r.Apply(Change{Kind: ChangeNPC, Name: "zombie"})
	assert.True(t, errors.Is(err, ErrInvalidSpec), "got %v", err)
	kept, err := r.NPC("zombie")
	require.NoError(t, err)
	assert.Equal(t, 10.0, kept.SpawnHealth)
}

func TestCleanScriptPath(t *testing.T) {
	cases := map[string]string{
		"zombie":                       "scripts/zombie.tengo",
		"zombie.tengo":                 "scripts/zombie.tengo",
		"scripts/zombie.tengo":         "scripts/zombie.tengo",
		"prefabs/scripts/zombie.tengo": "scripts/zombie.tengo",
		"":                             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanScriptPath(in), in)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		name string
		ok   bool
	}{
		{"/tmp/p/npcs/zombie.yaml", ChangeNPC, "zombie", true},
		{"/tmp/p/items/pistol.yml", ChangeItem, "pistol", true},
		{"/tmp/p/levels/arena.yaml", ChangeLevel, "arena", true},
		{"/tmp/p/scripts/zombie.tengo", ChangeScript, "zombie", true},
		{"/tmp/p/npcs/zombie.yaml~", ChangeUnknown, "", false},
		{"/tmp/p/other/zombie.yaml", ChangeUnknown, "", false},
	}
	for _, c := range cases {
		t.Run(filepath.Base(c.path), func(t *testing.T) {
			change, ok := classify(c.path)
			require.Equal(t, c.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, c.kind, change.Kind)
			assert.Equal(t, c.name, change.Name)
		})
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "npcs"), 0o755))

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, filepath.Join(dir, "npcs", "zombie.yaml"), "name: zombie\n")

	select {
	case change := <-w.Events:
		assert.Equal(t, ChangeNPC, change.Kind)
		assert.Equal(t, "zombie", change.Name)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
