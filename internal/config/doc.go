// Package config loads server, storage, backup and metrics settings from
// defaults, an optional YAML file and STUDYPLAN_ environment variables, and
// validates them before any component is built.
package config
