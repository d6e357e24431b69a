// Package config loads the monitor configuration.
//
// A Config is built once at startup: Default() provides every value, a
// YAML or TOML file (chosen by extension) overrides what it names, and
// Validate checks the result. The value is then passed to the components
// that need it; nothing reads configuration from globals.
//
// Durations accept Go syntax ("1s", "200ms") or ISO-8601 ("PT1S").
package config
