// Package epub reads the document parts of ePub 2 and ePub 3 archives.
//
// It resolves the OPF package document through META-INF/container.xml,
// rejects DRM-protected files with [ErrDRMProtected] and exposes the
// archive's textual content as [Document] handles whose bytes are loaded
// lazily.
//
// # Opening an ePub
//
// Use [Open] to open a file by path, or [NewReader] to read from an [io.ReaderAt]:
//
//	book, err := epub.Open("book.epub")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer book.Close()
//
// # Documents
//
// [Book.Documents] lists every XHTML/HTML manifest item in manifest order,
// including the navigation document. [Book.SpineDocuments] lists the spine
// items that are documents, in reading order.
//
//	for _, doc := range book.Documents() {
//	    body, _ := doc.BodyContent()
//	    fmt.Println(doc.Href, len(body))
//	}
//
// [Document.BodyContent] returns the inner markup of <body> as stored;
// [Document.TextContent] returns plain text.
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - [ErrDRMProtected] – the file is DRM encrypted
//   - [ErrInvalidEPub] – structural validation failed
//   - [ErrInvalidDocument] – a Document handle is invalid
//   - [ErrFileNotFound] – a requested file is not in the archive
package epub
