// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package formats

import (
	"fmt"
	"os"
	"strings"
)

// Format names a supported course dialect.
type Format string

const (
	FormatHTML Format = "html"
	FormatMD   Format = "md"
	FormatOLX  Format = "olx"
)

// Parse validates a format name given explicitly on the command line.
func Parse(name string) (Format, error) {
	switch Format(name) {
	case FormatHTML, FormatMD, FormatOLX:
		return Format(name), nil
	}
	return "", fmt.Errorf("unknown format %q: expected html, md or olx", name)
}

// Detect guesses the format of a path: .html and .md by extension, an
// existing directory is olx. Anything else cannot be resolved and is a
// user-facing error.
func Detect(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".html"):
		return FormatHTML, nil
	case strings.HasSuffix(lower, ".md"):
		return FormatMD, nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return FormatOLX, nil
	}
	return "", fmt.Errorf("could not detect format of %q: use an .html or .md file, or an existing directory", path)
}
