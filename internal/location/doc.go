// Package location defines the country -> state -> city hierarchy shared by the selector, the API client, and the fixture server.
//
// Level is an ordered enumeration with a Next lookup so cascade logic is written once over all levels instead of per-level conditionals. Selection
// holds the chosen value per level; its only mutator, With, clears every deeper level, so the cascade invariant holds by construction. OptionSet
// holds the choices available per level.
package location
