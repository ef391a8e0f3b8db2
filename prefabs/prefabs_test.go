package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/signpost/anim"
)

func TestLoadEmbeddedController(t *testing.T) {
	spec, err := LoadController("player")
	require.NoError(t, err)
	assert.Equal(t, "player", spec.Name)
	require.Len(t, spec.Layers, 1)
	assert.Equal(t, "idle", spec.Layers[0].Default)

	_, err = anim.NewAnimator(spec)
	assert.NoError(t, err)
}

func TestLoadPlayerSpec(t *testing.T) {
	spec, err := LoadPlayerSpec("actors/player.yaml")
	require.NoError(t, err)
	assert.Equal(t, "player", spec.Controller)
	assert.InDelta(t, 0.8, spec.RollCooldown, 1e-9)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x63, B: 0x47, A: 0xff}, spec.StateColors["attack"].Color)

	_, err = LoadController(spec.Controller)
	assert.NoError(t, err)
	_, err = LoadScript(spec.Script)
	assert.NoError(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadController("nobody")
	assert.ErrorContains(t, err, "prefabs: load controllers/nobody.yaml")
	_, err = LoadScript("nobody")
	assert.ErrorContains(t, err, "prefabs: load scripts/nobody.tengo")
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	old := Root
	Root = dir
	t.Cleanup(func() { Root = old })

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "controllers"), 0o755))
	bad := []byte("name: player\nlayers: []\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "controllers", "player.yaml"), bad, 0o644))

	_, err := LoadController("player")
	assert.ErrorIs(t, err, anim.ErrInvalidController)

	_, ok := ModTime("controllers/player.yaml")
	assert.True(t, ok)
	_, ok = ModTime("controllers/other.yaml")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	cases := []struct{ name, want string }{
		{"player", "scripts/player.tengo"},
		{"player.tengo", "scripts/player.tengo"},
		{"scripts/player", "scripts/player.tengo"},
		{"prefabs/scripts/player.tengo", "scripts/player.tengo"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, resolve("scripts", ".tengo", c.name), c.name)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind Kind
		name string
	}{
		{"prefabs/controllers/player.yaml", KindController, "player"},
		{"/tmp/x/actors/boss.yml", KindActor, "boss"},
		{"scripts/player.tengo", KindScript, "player"},
		{"scripts/player.yaml", KindUnknown, ""},
		{"prefabs/readme.md", KindUnknown, ""},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			kind, name := Classify(c.path)
			assert.Equal(t, c.kind, kind)
			assert.Equal(t, c.name, name)
		})
	}
}

func TestWatcherReportsScriptChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	target := filepath.Join(dir, "scripts", "player.tengo")
	require.NoError(t, os.WriteFile(target, []byte("hooks := {}\n"), 0o644))

	select {
	case c := <-w.Events:
		assert.Equal(t, KindScript, c.Kind)
		assert.Equal(t, "player", c.Name)
		assert.Equal(t, target, c.Path)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}
