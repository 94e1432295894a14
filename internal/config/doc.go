// Package config provides the configuration system for the gradebook CLI.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. Environment Variables   │  ← GRADEBOOK_*
//	├─────────────────────────────┤
//	│  3. .env File               │
//	├─────────────────────────────┤
//	│  2. Config File             │  ← gradebook.toml or gradebook.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Flags are applied by the caller after Load returns.
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment loaders
//   - watcher: fsnotify-based file watching for live reload
//
// # Configuration Files
//
//	# gradebook.toml
//	watch = true
//
//	[logging]
//	level = "debug"
//	format = "console"
//
//	[display]
//	recentLimit = 10
//	precision = 2
//
//	[script]
//	instructionLimit = 1000000
//	timeout = "5s"
//
// # Script Limits
//
// script.instructionLimit counts calls into the gradebook.* Lua functions
// during one run, not Lua VM instructions. A script that exceeds it fails
// with script.ErrInstructionLimit even if it catches the error with pcall.
// Loops that never call into the gradebook are bounded by script.timeout.
package config
