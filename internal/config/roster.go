package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// RosterEntry is one participant in a roster file. Tiers may be written as
// numbers or bracket labels.
type RosterEntry struct {
	ID    string   `koanf:"id"`
	Name  string   `koanf:"name"`
	Tiers []string `koanf:"tiers"`
	Group string   `koanf:"group"`
}

// Roster is a roster file: optional generation settings plus participants.
type Roster struct {
	Tolerance    string        `koanf:"tolerance"`
	Mode         string        `koanf:"mode"`
	Scale        string        `koanf:"scale"`
	Participants []RosterEntry `koanf:"participants"`
}

// LoadRoster reads a YAML roster file.
func LoadRoster(path string) (*Roster, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: roster %s: %w", ErrLoadConfig, path, err)
	}
	var r Roster
	if err := k.UnmarshalWithConf("", &r, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: roster %s: %w", ErrLoadConfig, path, err)
	}
	if len(r.Participants) == 0 {
		return nil, fmt.Errorf("%w: roster %s has no participants", ErrInvalidConfig, path)
	}
	return &r, nil
}
