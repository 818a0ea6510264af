// Package config loads, normalizes, and validates sdnsurvey configuration.
//
// It supplies study defaults (the column names and exclusion lists used by
// the SDNS survey exports), expands user paths including tilde shortcuts,
// and reads TOML files. Column identifiers, qualification rules, and the
// open-code classification table all live here as data, so a renamed column
// is a configuration change rather than a code change.
//
// Always obtain settings through this package so downstream stages receive
// expanded paths, canonical log formats, and clear validation errors.
package config
