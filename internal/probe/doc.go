// Package probe inspects media files with a single ffprobe JSON call.
//
// The batch uses it for one thing that matters: the container duration,
// which turns encoder elapsed time into a percentage. Any probe failure
// wraps ErrUnknownDuration and the caller falls back to an elapsed-time
// readout.
package probe
