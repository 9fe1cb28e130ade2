// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

// Package config loads and validates application configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an
// optional YAML file (config.yaml, or the path in CONFIG_PATH), then
// environment variables. Only explicitly mapped environment variables are
// honored; see envTransformFunc for the full table.
//
// The loaded Config is immutable and passed by pointer to the components
// that need it. When a config file was used, its path is recorded in
// Config.SourceFile so the server can watch it with WatchConfigFile and
// pick up log-level changes without a restart.
package config
