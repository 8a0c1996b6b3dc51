package location

import (
	"fmt"
	"strings"
)

// Level is one tier of the country -> state -> city hierarchy. Levels are ordered: a lower value is a shallower (parent) level.
type Level int

const (
	Country Level = iota
	State
	City
)

// NumLevels is the number of levels. Selection and OptionSet are arrays indexed by Level.
const NumLevels = 3

// Levels lists every level from shallowest to deepest.
var Levels = [NumLevels]Level{Country, State, City}

var levelNames = [NumLevels]string{"country", "state", "city"}

// String returns the lowercase name of l ("country", "state", "city").
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= Country && l <= City
}

// Next returns the level that depends on l. City has no next level.
func (l Level) Next() (Level, bool) {
	if !l.Valid() || l == City {
		return 0, false
	}
	return l + 1, true
}

// Parent returns the level l depends on. Country has no parent.
func (l Level) Parent() (Level, bool) {
	if !l.Valid() || l == Country {
		return 0, false
	}
	return l - 1, true
}

// Deeper returns every level strictly deeper than l, shallowest first.
func (l Level) Deeper() []Level {
	var out []Level
	for next, ok := l.Next(); ok; next, ok = next.Next() {
		out = append(out, next)
	}
	return out
}

// Placeholder is the label of the "nothing selected" entry shown first in a level's selector.
func (l Level) Placeholder() string {
	name := l.String()
	return "Select " + strings.ToUpper(name[:1]) + name[1:]
}

// ParseLevel parses a level name case-insensitively. Plural forms ("countries", "states", "cities") are accepted.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "country", "countries":
		return Country, nil
	case "state", "states":
		return State, nil
	case "city", "cities":
		return City, nil
	}
	return 0, fmt.Errorf("unknown level %q", s)
}
