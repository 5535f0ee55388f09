package source

import (
	"time"
)

// Item is a normalized feed entry produced by a source fetch
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	Published   *time.Time
	Source      string
}

// Descriptor identifies a configured source
type Descriptor struct {
	Name string
	URL  string
	Kind string
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Kind     string         `yaml:"kind"`
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled bool `yaml:"enabled"`
	Timeout int  `yaml:"timeout"` // seconds
}
