package ytvideodata

import "regexp"

// VideoIDLength is the length of a canonical video identifier.
const VideoIDLength = 11

var (
	videoIDRegexp     = regexp.MustCompile(`^.*(youtu.be/|v/|e/|u/\w+/|embed/|watch\?v=|&v=)([^#&?]*).*`)
	canonicalIDRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID returns the video identifier carried by a short link, watch,
// embed or playlist-qualified URL. Any token that is not exactly
// VideoIDLength characters long is rejected.
func ExtractVideoID(input string) (string, bool) {
	match := videoIDRegexp.FindStringSubmatch(input)
	if match == nil || len(match[2]) != VideoIDLength {
		return "", false
	}

	return match[2], true
}

// IsVideoID reports whether id is a canonical video identifier. It is
// stricter than ExtractVideoID, which accepts any 11 characters after a
// recognised prefix.
func IsVideoID(id string) bool {
	return canonicalIDRegexp.MatchString(id)
}
