// Package config handles configuration loading for folio.
//
// # Configuration File
//
// Configuration is TOML with environment variable expansion:
//
//	[matrix]
//	homeserver = "https://matrix.org"
//	user_id = "@folio:matrix.org"
//	access_token = "${FOLIO_ACCESS_TOKEN}"
//
//	[bot]
//	# Only respond in these rooms (empty = all joined rooms)
//	allowed_rooms = []
//	scratch_dir = "temp"
//	typing_indicator = true
//
//	[store]
//	path = "folio.db"
//
//	[logging]
//	level = "info"
//
// Syntax for environment references: ${VAR_NAME}. Unset variables expand to
// the empty string, so a missing access token fails validation rather than
// silently connecting unauthenticated.
package config
