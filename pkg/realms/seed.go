package realms

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the on-disk shape of a realm. YAML and JSON are both accepted.
type Seed struct {
	Name      string       `yaml:"name"`
	PublicKey string       `yaml:"public_key"`
	Clients   []ClientSeed `yaml:"clients"`
}

type ClientSeed struct {
	ClientID     string   `yaml:"client_id"`
	Kind         string   `yaml:"kind"`
	Enabled      *bool    `yaml:"enabled"`
	WebOrigins   []string `yaml:"web_origins"`
	RedirectURIs []string `yaml:"redirect_uris"`
}

// ParseSeeds decodes a list of realm seeds.
func ParseSeeds(data []byte) ([]Seed, error) {
	var seeds []Seed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse realm seed: %w", err)
	}
	for i, s := range seeds {
		if s.Name == "" {
			return nil, fmt.Errorf("parse realm seed: entry %d has no name", i)
		}
	}
	return seeds, nil
}

// LoadSeeds reads seeds from a file when path is set, else from inline data.
func LoadSeeds(path, inline string) ([]Seed, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read realm seed: %w", err)
		}
		return ParseSeeds(data)
	}
	if inline == "" {
		return nil, nil
	}
	return ParseSeeds([]byte(inline))
}

// Realm converts the seed into a normalized Realm.
func (s Seed) Realm() *Realm {
	clients := make([]*Client, 0, len(s.Clients))
	for _, c := range s.Clients {
		enabled := true
		if c.Enabled != nil {
			enabled = *c.Enabled
		}
		clients = append(clients, &Client{
			ClientID:     c.ClientID,
			Kind:         ClientKind(c.Kind),
			Enabled:      enabled,
			WebOrigins:   c.WebOrigins,
			RedirectURIs: c.RedirectURIs,
		})
	}
	return NewRealm(s.Name, s.PublicKey, clients...)
}
