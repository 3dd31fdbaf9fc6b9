package metadata

import (
	"errors"
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoExif is returned by ProbeDescription for files without a readable EXIF block.
var ErrNoExif = errors.New("no exif data")

// ProbeDescription reads ImageDescription without exiftool.
func ProbeDescription(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if x == nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNoExif, path, err)
	}

	tag, err := x.Get(exif.ImageDescription)
	if err != nil {
		if exif.IsTagNotPresentError(err) {
			return "", nil
		}
		return "", fmt.Errorf("read %s of %s: %w", DescriptionTag, path, err)
	}

	value, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("read %s of %s: %w", DescriptionTag, path, err)
	}
	return trimValue(value), nil
}
