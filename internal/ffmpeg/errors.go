package ffmpeg

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for classifying ffmpeg stderr into a short hint for
// the failure log. Checked in order; the first match wins.
var diagnoses = []struct {
	re   *regexp.Regexp
	hint string
}{
	{
		regexp.MustCompile(`(?i)Cannot load nvcuda|No NVENC capable devices|OpenEncodeSessionEx failed|nvenc.*(not available|unsupported)|Driver does not support the required nvenc API`),
		"NVENC is unavailable on this machine; rerun with --gpu=off",
	},
	{
		regexp.MustCompile(`(?i)Unknown encoder|Encoder .* not found`),
		"this ffmpeg build lacks a required encoder; run `shrinkwrap check`",
	},
	{
		regexp.MustCompile(`(?i)No such file or directory`),
		"input file disappeared or path is wrong",
	},
	{
		regexp.MustCompile(`(?i)Invalid data found when processing input|moov atom not found|could not find codec parameters`),
		"input is corrupt or not a media file",
	},
	{
		regexp.MustCompile(`(?i)Permission denied`),
		"permission denied reading input or writing output",
	},
	{
		regexp.MustCompile(`(?i)No space left on device`),
		"output disk is full",
	},
	{
		regexp.MustCompile(`(?i)does not support|Could not find tag for codec|Invalid argument`),
		"the chosen codec is not supported by the output container",
	},
}

// Diagnose returns a one-line hint for a failed encode, or "" when nothing
// in stderr is recognized.
func Diagnose(stderr string) string {
	for _, d := range diagnoses {
		if d.re.MatchString(stderr) {
			return d.hint
		}
	}
	return ""
}

// DiagnoseLines is Diagnose over captured stderr lines.
func DiagnoseLines(lines []string) string {
	return Diagnose(strings.Join(lines, "\n"))
}
