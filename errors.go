package epubtext

import "errors"

var (
	// ErrOpen indicates the input could not be opened or parsed as an ePub,
	// or one of its document parts could not be read. No output file is
	// touched when it is returned.
	ErrOpen = errors.New("epubtext: open book")

	// ErrWrite indicates the output file could not be created, written or
	// closed. A partially written file is left in place.
	ErrWrite = errors.New("epubtext: write text")

	// ErrNoReadingOrder is wrapped with ErrOpen when WithReadingOrder is set
	// but the opened archive does not implement ReadingOrderArchive.
	ErrNoReadingOrder = errors.New("epubtext: archive has no reading order")
)
