package epubtext

import (
	"github.com/simp-lee/epubtext/epub"
)

// Part is one document part of a book.
type Part interface {
	// BodyContent returns the markup inside the part's <body>.
	BodyContent() (string, error)
}

// Archive is an opened book. Parts returns the document parts in the order
// they should appear in the output.
type Archive interface {
	Parts() []Part
	Close() error
}

// ReadingOrderArchive is an Archive that can also list its parts in reading
// order. WithReadingOrder requires the opened archive to implement it.
type ReadingOrderArchive interface {
	Archive
	ReadingOrderParts() []Part
}

// OpenFunc opens the book at path.
type OpenFunc func(path string) (Archive, error)

// epubArchive adapts *epub.Book to ReadingOrderArchive.
type epubArchive struct {
	book *epub.Book
}

// OpenEPub opens path with the epub package. Parts lists its documents in
// manifest order and ReadingOrderParts lists the spine documents.
func OpenEPub(path string) (Archive, error) {
	book, err := epub.Open(path)
	if err != nil {
		return nil, err
	}
	return &epubArchive{book: book}, nil
}

func (a *epubArchive) Parts() []Part {
	return documentParts(a.book.Documents())
}

func (a *epubArchive) ReadingOrderParts() []Part {
	return documentParts(a.book.SpineDocuments())
}

func documentParts(docs []epub.Document) []Part {
	parts := make([]Part, len(docs))
	for i, d := range docs {
		parts[i] = d
	}
	return parts
}

func (a *epubArchive) Close() error {
	return a.book.Close()
}

// Warnings exposes the parser's non-fatal warnings for logging.
func (a *epubArchive) Warnings() []string {
	return a.book.Warnings()
}
