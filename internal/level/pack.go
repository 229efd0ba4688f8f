package level

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/levels.yaml defaults/images/*.png
var defaultFS embed.FS

// Pack is an ordered set of levels plus the file system their image paths
// are relative to.
type Pack struct {
	Levels []Level
	FS     fs.FS
}

type yamlPack struct {
	Levels []Level `yaml:"levels"`
}

// Parse parses a YAML level pack and validates every level.
// Level ids must run 1..N in order because unlocking follows the id.
func Parse(data []byte) ([]Level, error) {
	var yp yamlPack
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return nil, fmt.Errorf("level: yaml unmarshal: %w", err)
	}
	if len(yp.Levels) == 0 {
		return nil, fmt.Errorf("level: %w: pack has no levels", ErrInvalidLevel)
	}

	for i, lvl := range yp.Levels {
		if err := lvl.Validate(); err != nil {
			return nil, fmt.Errorf("level: %w", err)
		}
		if lvl.ID != i+1 {
			return nil, fmt.Errorf("level: %w: level at position %d has id %d, want %d",
				ErrInvalidLevel, i+1, lvl.ID, i+1)
		}
	}
	return yp.Levels, nil
}

// Default returns the built-in level pack.
func Default() (*Pack, error) {
	data, err := defaultFS.ReadFile("defaults/levels.yaml")
	if err != nil {
		return nil, fmt.Errorf("level: read embedded pack: %w", err)
	}
	levels, err := Parse(data)
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(defaultFS, "defaults")
	if err != nil {
		return nil, fmt.Errorf("level: embedded images: %w", err)
	}
	return &Pack{Levels: levels, FS: sub}, nil
}

// LoadFile loads a level pack from a YAML file. Image paths resolve
// relative to the file's directory.
func LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: reading file %s: %w", path, err)
	}
	levels, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return &Pack{Levels: levels, FS: os.DirFS(filepath.Dir(path))}, nil
}

// Load returns the pack at path, or the built-in pack when path is empty.
func Load(path string) (*Pack, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Count returns the number of levels.
func (p *Pack) Count() int {
	return len(p.Levels)
}

// Get returns the level at the given index (0-based).
func (p *Pack) Get(index int) (Level, bool) {
	if index < 0 || index >= len(p.Levels) {
		return Level{}, false
	}
	return p.Levels[index], true
}

// ByID returns the level with the given id.
func (p *Pack) ByID(id int) (Level, bool) {
	return p.Get(id - 1)
}
