// Package naming derives output file paths and resolves collisions with
// files already on disk.
//
// An output keeps its input's stem and takes the target format's
// extension. When that path exists, a ChoiceFunc decides between
// overwriting it and writing a versioned sibling ("clip_1.mp4",
// "clip_2.mp4", ...).
package naming
