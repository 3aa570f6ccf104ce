package epubtext

import (
	"path/filepath"
	"strings"
)

const (
	epubExt = ".epub"
	textExt = ".txt"
)

// OutputPath derives the output name by replacing the first ".epub" in path
// with ".txt", wherever it occurs:
//
//	book.epub               -> book.txt
//	archive/notes.epub.epub -> archive/notes.txt.epub
//	book.txt                -> book.txt (the input itself)
func OutputPath(path string) string {
	return strings.Replace(path, epubExt, textExt, 1)
}

// ReplaceExtension swaps the extension of the final path element for ext.
// A name without an extension gets ext appended. Directory names are never
// rewritten.
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// TextPath is ReplaceExtension with ".txt", suitable for WithOutputPath.
func TextPath(path string) string {
	return ReplaceExtension(path, textExt)
}
