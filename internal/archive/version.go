package archive

import "fmt"

// MaxVersion is the largest major or minor value a chunk version can carry.
const MaxVersion = 0x0F

// Version is a chunk-version marker.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// Accepts reports whether data stored with version v can be read by code that
// understands major and any minor >= minor.
func (v Version) Accepts(major, minor int) bool {
	return v.Major == major && v.Minor >= minor
}

func packVersion(major, minor int) (byte, error) {
	if major < 0 || major > MaxVersion || minor < 0 || minor > MaxVersion {
		return 0, fmt.Errorf("%w: %d.%d", ErrVersionRange, major, minor)
	}
	return byte(major<<4 | minor), nil
}

func unpackVersion(b byte) Version {
	return Version{Major: int(b >> 4), Minor: int(b & 0x0F)}
}
