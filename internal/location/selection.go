package location

import "fmt"

// Selection is the chosen value at each level. The empty string means unset.
//
// A Selection built only through With always satisfies the cascade invariant: if a level is unset, every deeper level is unset too.
type Selection [NumLevels]string

// Get returns the value at l, or "" for an invalid level.
func (s Selection) Get(l Level) string {
	if !l.Valid() {
		return ""
	}
	return s[l]
}

// IsSet reports whether a non-empty value is chosen at l.
func (s Selection) IsSet(l Level) bool {
	return s.Get(l) != ""
}

// With returns a copy of s with l set to value and every deeper level unset. value may be "" to clear l. Setting a non-empty value at a level whose
// parents are not all chosen returns s unchanged.
func (s Selection) With(l Level, value string) Selection {
	if !l.Valid() || (value != "" && !s.CanLoad(l)) {
		return s
	}
	s[l] = value
	for _, d := range l.Deeper() {
		s[d] = ""
	}
	return s
}

// CanLoad reports whether every level above l is chosen, which is what fetching options for l needs. Country options need nothing; state options need a
// country; city options need a country and a state.
func (s Selection) CanLoad(l Level) bool {
	if !l.Valid() {
		return false
	}
	for p, ok := l.Parent(); ok; p, ok = p.Parent() {
		if !s.IsSet(p) {
			return false
		}
	}
	return true
}

// Valid reports whether s satisfies the cascade invariant.
func (s Selection) Valid() bool {
	for _, l := range Levels {
		if s.IsSet(l) {
			continue
		}
		for _, d := range l.Deeper() {
			if s.IsSet(d) {
				return false
			}
		}
	}
	return true
}

// Complete reports whether every level is chosen.
func (s Selection) Complete() bool {
	for _, l := range Levels {
		if !s.IsSet(l) {
			return false
		}
	}
	return true
}

// Summary returns the "You selected ..." line, ordered city, state, country. ok is false until every level is chosen.
func (s Selection) Summary() (string, bool) {
	if !s.Complete() {
		return "", false
	}
	return fmt.Sprintf("You selected %s, %s, %s", s[City], s[State], s[Country]), true
}
