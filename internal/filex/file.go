// Package filex has small helpers for working with local files.
package filex

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"
)

// MaxDataURLSource caps the size of files turned into data URLs.
const MaxDataURLSource = 10 << 20

// DataURL reads the file at path and returns it as a base64 data URL whose
// media type is sniffed from the content, not taken from the file name.
func DataURL(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxDataURLSource {
		return "", fmt.Errorf("%s: file too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	mediaType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return dataurl.New(data, mediaType).String(), nil
}
