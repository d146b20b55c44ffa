// Package config loads termsession settings.
//
// Settings are read from a TOML or YAML file, chosen by extension, on
// top of the built-in defaults, so a file only needs the keys it
// overrides:
//
//	# ~/.config/termsession/config.toml
//	shell = "/bin/zsh"
//	scrollback = 20000
//	alternate_scroll = false
//
//	[theme]
//	background = "#1d1f21"
//
// Environment variables prefixed with TERMSESSION_ override file values
// (see ApplyEnv). Watch reloads a file whenever it changes on disk.
package config
