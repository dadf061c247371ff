// Package config loads engine settings from defaults, an optional TOML
// file and functional options, in that order.
//
// Example file:
//
//	cache_dir = "/Users/me/Library/Caches/filescout"
//
//	[index]
//	rescan_interval = "15m"
//	extra_roots = ["/Users/me/src"]
//
//	[native]
//	enabled = false
package config
