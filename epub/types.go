package epub

import "strings"

// Document is a manifest item whose media type marks it as textual content
// (XHTML or HTML), as opposed to images, stylesheets, fonts or the NCX.
// Content is loaded lazily from the underlying archive.
type Document struct {
	// ID is the manifest item ID.
	ID string

	// Href is the ZIP-internal path of the content file.
	Href string

	// MediaType is the manifest media-type (e.g., "application/xhtml+xml").
	MediaType string

	// Nav reports whether this is the ePub 3 navigation document.
	Nav bool

	// Linear is false when the item is referenced from the spine with
	// linear="no". Items absent from the spine are reported as linear.
	Linear bool

	book bookReader
}

// bookReader is implemented by *Book and lets a Document load its bytes
// without holding the whole Book API.
type bookReader interface {
	readFile(path string) ([]byte, error)
}

// spineItem is an entry in the OPF <spine> resolved against the manifest.
type spineItem struct {
	IDRef  string
	Linear bool
}

// manifestItem is an entry in the OPF <manifest>.
type manifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties string
}

// documentMediaTypes lists the manifest media types treated as documents.
var documentMediaTypes = map[string]bool{
	"application/xhtml+xml": true,
	"text/html":             true,
}

// isDocument reports whether the manifest item holds textual content.
func (m *manifestItem) isDocument() bool {
	return documentMediaTypes[strings.ToLower(strings.TrimSpace(m.MediaType))]
}

// hasProperty reports whether the space-separated properties attribute
// contains prop.
func (m *manifestItem) hasProperty(prop string) bool {
	for _, p := range strings.Fields(m.Properties) {
		if p == prop {
			return true
		}
	}
	return false
}
