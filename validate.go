package cachebox

import "strings"

// ValidateKey rejects keys with a missing segment or id, and segments that
// could never pass ValidateSegmentName.
func ValidateKey(key Key) error {
	if key.Segment == "" {
		return newError(KindInvalidKey, "Invalid key: missing segment", nil)
	}
	if strings.IndexByte(key.Segment, 0) >= 0 {
		return newError(KindInvalidKey, "Invalid key: segment includes null character", nil)
	}
	if key.ID == "" {
		return newError(KindInvalidKey, "Invalid key: missing id", nil)
	}
	return nil
}

// ValidateSegmentName is shared by both connector implementations.
// It is a pure gate; Get/Set/Drop do not call it.
func ValidateSegmentName(name string) error {
	if name == "" {
		return newError(KindInvalidSegment, "Empty string", nil)
	}
	if strings.IndexByte(name, 0) >= 0 {
		return newError(KindInvalidSegment, "Includes null character", nil)
	}
	return nil
}
