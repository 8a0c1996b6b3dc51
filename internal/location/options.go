package location

// OptionSet holds the available choices at each level, in the order the remote service returned them.
type OptionSet [NumLevels][]string

// Get returns the options for l. The returned slice must not be modified.
func (o OptionSet) Get(l Level) []string {
	if !l.Valid() {
		return nil
	}
	return o[l]
}

// Set replaces the options for l with a copy of values. A nil values is stored as an empty list.
func (o *OptionSet) Set(l Level, values []string) {
	if !l.Valid() {
		return
	}
	cp := make([]string, len(values))
	copy(cp, values)
	o[l] = cp
}

// Reset empties the options for l.
func (o *OptionSet) Reset(l Level) {
	o.Set(l, nil)
}

// ResetDeeper empties the options of every level strictly deeper than l.
func (o *OptionSet) ResetDeeper(l Level) {
	for _, d := range l.Deeper() {
		o.Reset(d)
	}
}

// Clone returns a deep copy of o.
func (o OptionSet) Clone() OptionSet {
	var out OptionSet
	for _, l := range Levels {
		out.Set(l, o[l])
	}
	return out
}
