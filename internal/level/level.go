// Package level defines the static puzzle content: a celebrity portrait with
// a missing mouth and four candidate mouths, exactly one of which fits.
package level

import (
	"errors"
	"fmt"
)

// OptionCount is the number of mouth options every level offers.
const OptionCount = 4

// ErrInvalidLevel is wrapped by every validation failure.
var ErrInvalidLevel = errors.New("invalid level")

// Overlay places the chosen mouth on the base image, in percent of the
// image size.
type Overlay struct {
	Top       float64 `yaml:"top"`
	Left      float64 `yaml:"left"`
	Width     float64 `yaml:"width"`
	Transform string  `yaml:"transform,omitempty"`
}

// Option is one candidate mouth.
type Option struct {
	ID    string `yaml:"id"`
	Image string `yaml:"image"`
}

// Level is a single puzzle. Levels are immutable once loaded.
type Level struct {
	ID              int      `yaml:"id"`
	Celebrity       string   `yaml:"celebrity"`
	BaseImage       string   `yaml:"base_image"`
	CompletedImage  string   `yaml:"completed_image"`
	Overlay         Overlay  `yaml:"overlay"`
	Options         []Option `yaml:"options"`
	CorrectOptionID string   `yaml:"correct"`
}

// Validate checks the content contract: four options with distinct ids and
// a correct id that matches exactly one of them.
func (l Level) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidLevel, l.ID)
	}
	if l.BaseImage == "" || l.CompletedImage == "" {
		return fmt.Errorf("%w: level %d: base and completed images are required", ErrInvalidLevel, l.ID)
	}
	if len(l.Options) != OptionCount {
		return fmt.Errorf("%w: level %d: want %d options, got %d", ErrInvalidLevel, l.ID, OptionCount, len(l.Options))
	}

	seen := make(map[string]bool, len(l.Options))
	matches := 0
	for _, opt := range l.Options {
		if opt.ID == "" || opt.Image == "" {
			return fmt.Errorf("%w: level %d: option id and image are required", ErrInvalidLevel, l.ID)
		}
		if seen[opt.ID] {
			return fmt.Errorf("%w: level %d: duplicate option %q", ErrInvalidLevel, l.ID, opt.ID)
		}
		seen[opt.ID] = true
		if opt.ID == l.CorrectOptionID {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("%w: level %d: correct option %q matches no option", ErrInvalidLevel, l.ID, l.CorrectOptionID)
	}
	return nil
}

// IsCorrect reports whether optionID is the level's answer.
func (l Level) IsCorrect(optionID string) bool {
	return optionID != "" && optionID == l.CorrectOptionID
}

// Option returns the option with the given id.
func (l Level) Option(id string) (Option, bool) {
	for _, opt := range l.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Images returns every image path the level needs, without duplicates,
// in display order: base, completed, then options.
func (l Level) Images() []string {
	paths := make([]string, 0, 2+len(l.Options))
	seen := make(map[string]bool, cap(paths))
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	add(l.BaseImage)
	add(l.CompletedImage)
	for _, opt := range l.Options {
		add(opt.Image)
	}
	return paths
}
