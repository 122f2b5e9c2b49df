// Package dedupe tracks recently handled Matrix event IDs so that events
// redelivered by sync (reconnects, gappy syncs) are processed only once.
package dedupe
