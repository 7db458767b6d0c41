package mediatype

import (
	stdmime "mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Detect sniffs the media type of byte content. The filesystem scanner
// (source package) does not call it; it infers types from file extensions
// only, via TypeByFilename.
func Detect(b []byte) (*MediaType, error) {
	return Parse(mimetype.Detect(b).String())
}

// DetectFile sniffs the media type of the file at path.
func DetectFile(path string) (*MediaType, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(m.String())
}

// TypeByExtension looks up a media type from a file extension (including
// the leading dot, e.g. ".html"), consulting the stdlib's registry first
// and falling back to a small built-in table of common web-build
// extensions the stdlib table omits.
func TypeByExtension(ext string) (*MediaType, bool) {
	if s := stdmime.TypeByExtension(ext); s != "" {
		mt, err := Parse(s)
		if err == nil {
			return mt, true
		}
	}
	if s, ok := extraExtensions[ext]; ok {
		return MustParse(s), true
	}
	return nil, false
}

// TypeByFilename is shorthand for TypeByExtension(filepath.Ext(name)),
// falling back to "application/octet-stream".
func TypeByFilename(name string) *MediaType {
	if mt, ok := TypeByExtension(filepath.Ext(name)); ok {
		return mt
	}
	return MustParse("application/octet-stream")
}

var extraExtensions = map[string]string{
	".md":    "text/markdown",
	".mdx":   "text/markdown",
	".yaml":  "application/yaml",
	".yml":   "application/yaml",
	".toml":  "application/toml",
	".webp":  "image/webp",
	".avif":  "image/avif",
	".woff2": "font/woff2",
}
