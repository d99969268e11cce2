// Package config loads nabsearch's settings.
//
// # Configuration Discovery
//
// Load resolves settings in this order, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML file given on the command line, or ~/.config/nabsearch/config.toml
//  3. NABSEARCH_* environment variables (NABSEARCH_HOST, NABSEARCH_TIMEOUT, ...)
//
// A missing config file is not an error; the defaults apply.
//
// # TOML Format
//
//	host = "https://indexer.example"   # required for any network call
//	timeout = "30s"                    # per request, "0s" disables
//	requests_per_second = 0            # client-side pacing, 0 is unlimited
//	result_limit = 100
//	user_agent = ""
//	log_file = "~/.local/share/nabsearch/nabsearch.log"  # "" disables logging
//	log_level = "info"
//	prefs_file = "~/.config/nabsearch/prefs.toml"
//
// Tilde expansion is performed for the config path, log_file and prefs_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable or malformed
// files, and a negative timeout. Validate reports a missing host; commands
// that never contact the indexer can skip it.
package config
