// Package document defines the desired-state configuration document and
// the loaders that produce it.
//
// A Document is an ordered set of sections. Array sections hold entity
// records identified by a slug (or a name where the record has no slug);
// the shop section is a singleton. Reference fields are plain strings naming
// another record's identifier; they gain meaning only when the engine
// resolves them against remote state.
//
// Optional scalar fields are pointers and optional collections are slices so
// that an omitted field (nil) is distinguishable from an explicitly empty one.
// Only present fields take part in a diff.
//
// Supported source formats:
//   - YAML and JSON (.yaml, .yml, .json) via gopkg.in/yaml.v3, unknown keys rejected
//   - TOML (.toml) via github.com/BurntSushi/toml, unknown keys rejected
//   - CUE (.cue) via cuelang.org/go, values must be concrete
package document
