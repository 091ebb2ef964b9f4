package naming

import (
	"path/filepath"
	"strings"
)

// OutputPath builds the output file path for input: the input's base name
// with its last extension replaced by format, placed in outputDir.
//
//	/in/clip.final.mov, /in/compressed_files, "mp4" → /in/compressed_files/clip.final.mp4
func OutputPath(input, outputDir, format string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		// Dotfiles such as ".mov" keep their whole name as the stem.
		stem = base
	}
	return filepath.Join(outputDir, stem+"."+strings.TrimPrefix(format, "."))
}

// splitVersionBase splits path into the part before the extension and the
// extension itself (with dot).
func splitVersionBase(path string) (string, string) {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		return path, ""
	}
	return strings.TrimSuffix(path, ext), ext
}
