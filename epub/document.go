package epub

// RawContent reads the raw bytes of this document from the ePub archive.
// Leading UTF-8 BOM is stripped if present.
func (d Document) RawContent() ([]byte, error) {
	if d.book == nil {
		return nil, ErrInvalidDocument
	}
	data, err := d.book.readFile(d.Href)
	if err != nil {
		return nil, err
	}
	return stripBOM(data), nil
}

// BodyContent returns the source markup inside the document's <body>
// element, exactly as stored: untrimmed, with character references left
// encoded. A document without a body, or with an empty one, yields "".
func (d Document) BodyContent() (string, error) {
	data, err := d.RawContent()
	if err != nil {
		return "", err
	}
	return bodyInnerHTML(data)
}

// TextContent extracts plain text from the document.
// Block-level elements produce line breaks; script and style content is skipped.
func (d Document) TextContent() (string, error) {
	data, err := d.RawContent()
	if err != nil {
		return "", err
	}
	return extractText(data)
}
