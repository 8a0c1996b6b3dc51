package locationd

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/locations.yaml
var defaultDataset []byte

// Dataset is an ordered country -> state -> city tree.
type Dataset struct {
	Countries []Country `yaml:"countries"`
}

type Country struct {
	Name   string  `yaml:"name"`
	States []State `yaml:"states"`
}

type State struct {
	Name   string   `yaml:"name"`
	Cities []string `yaml:"cities"`
}

// Default returns the built-in dataset.
func Default() *Dataset {
	ds, err := Parse(defaultDataset)
	if err != nil {
		panic(fmt.Sprintf("locationd: built-in dataset is invalid: %v", err))
	}
	return ds
}

// Load reads a YAML dataset from path. An empty path returns Default().
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes and validates a YAML dataset.
func Parse(b []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(b, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks that every name is non-empty and unique among its siblings.
func (d *Dataset) Validate() error {
	countries := map[string]bool{}
	for i, c := range d.Countries {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("country %d: empty name", i)
		}
		if countries[c.Name] {
			return fmt.Errorf("duplicate country %q", c.Name)
		}
		countries[c.Name] = true

		states := map[string]bool{}
		for j, s := range c.States {
			if strings.TrimSpace(s.Name) == "" {
				return fmt.Errorf("country %q: state %d: empty name", c.Name, j)
			}
			if states[s.Name] {
				return fmt.Errorf("country %q: duplicate state %q", c.Name, s.Name)
			}
			states[s.Name] = true

			cities := map[string]bool{}
			for k, city := range s.Cities {
				if strings.TrimSpace(city) == "" {
					return fmt.Errorf("country %q: state %q: city %d: empty name", c.Name, s.Name, k)
				}
				if cities[city] {
					return fmt.Errorf("country %q: state %q: duplicate city %q", c.Name, s.Name, city)
				}
				cities[city] = true
			}
		}
	}
	return nil
}

// CountryNames lists every country.
func (d *Dataset) CountryNames() []string {
	out := make([]string, 0, len(d.Countries))
	for _, c := range d.Countries {
		out = append(out, c.Name)
	}
	return out
}

// StateNames lists the states of country. ok is false if country is unknown.
func (d *Dataset) StateNames(country string) (names []string, ok bool) {
	c := d.country(country)
	if c == nil {
		return nil, false
	}
	out := make([]string, 0, len(c.States))
	for _, s := range c.States {
		out = append(out, s.Name)
	}
	return out, true
}

// CityNames lists the cities of state in country. ok is false if either is unknown.
func (d *Dataset) CityNames(country, state string) (names []string, ok bool) {
	c := d.country(country)
	if c == nil {
		return nil, false
	}
	for _, s := range c.States {
		if s.Name == state {
			out := make([]string, len(s.Cities))
			copy(out, s.Cities)
			return out, true
		}
	}
	return nil, false
}

func (d *Dataset) country(name string) *Country {
	for i := range d.Countries {
		if d.Countries[i].Name == name {
			return &d.Countries[i]
		}
	}
	return nil
}
