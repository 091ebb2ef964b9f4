// Package preset is the static catalog of compression presets and output
// formats.
//
// Lookups are total. An unknown preset id resolves to the Balanced preset
// (with a warning through the caller's logger) and an unknown audio format
// resolves to the mp3 profile, so a batch never stops over a bad menu value.
package preset
