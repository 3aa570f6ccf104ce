// Package epubtext converts ePub books into plain-text files.
//
// [Convert] opens the archive and takes the body markup of every document
// part. It removes anything that looks like a tag, joins the parts with
// single spaces and writes the result next to the input:
//
//	out, err := epubtext.Convert("books/sample.epub")
//	// out == "books/sample.txt"
//
// The output name is the input path with its first ".epub" replaced by
// ".txt". A path without ".epub" maps to itself, so converting it
// overwrites the input. Use [WithOutputPath] and [ReplaceExtension] when
// that is not wanted.
//
// Tags are removed with the regular expression <[^>]*> ([StripTags]). The
// markup-aware [StripMarkup] can be selected with [WithStripper].
//
// # Errors
//
// Failures to open or read the book wrap [ErrOpen]; failures to create,
// write or close the output wrap [ErrWrite]. The underlying cause stays
// reachable with errors.Is and errors.As.
package epubtext
