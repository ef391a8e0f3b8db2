package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

//go:embed controllers/*.yaml actors/*.yaml scripts/*.tengo
var FS embed.FS

// Root is the on-disk directory that overrides embedded files, so specs and
// scripts can be edited and hot reloaded without rebuilding.
var Root = "prefabs"

// Load reads name from disk under Root when present, otherwise from the
// embedded copy.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return FS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPath(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, Root+"/"); ok {
		s = after
	}
	return path.Clean(s)
}

// resolve maps a short name like "player" into dir with ext, and leaves
// qualified names alone.
func resolve(dir, ext, name string) string {
	s := cleanPath(name)
	if !strings.HasPrefix(s, dir+"/") {
		s = dir + "/" + s
	}
	if path.Ext(s) == "" {
		s += ext
	}
	return s
}

func diskPath(clean string) string {
	return filepath.Join(Root, filepath.FromSlash(clean))
}
