package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// expectedMimetype is the required content of the "mimetype" file in a valid ePub.
const expectedMimetype = "application/epub+zip"

// Book is a read-only handle over an opened ePub archive.
// Use Open or NewReader to create one.
//
// Documents may be read from multiple goroutines once the Book is open;
// Close must not race with those reads.
type Book struct {
	zip      *zip.Reader
	zipExact map[string]*zip.File
	zipLower map[string]*zip.File
	closer   io.Closer // non-nil only when created via Open()
	opfPath  string
	opfDir   string
	version  string
	manifest []*manifestItem
	byID     map[string]*manifestItem
	spine    []spineItem
	warnings []string
}

// Open opens an ePub file at the given path.
// The caller must call Close when done reading from the book.
func Open(path string) (*Book, error) {
	zrc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("epub: open %s: %w", path, err)
	}

	b, err := initBook(&zrc.Reader, zrc)
	if err != nil {
		zrc.Close()
		return nil, err
	}
	return b, nil
}

// NewReader creates a Book from an io.ReaderAt with the given size.
// The caller is responsible for the lifetime of r; Close only cleans
// up internal state.
func NewReader(r io.ReaderAt, size int64) (*Book, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("epub: open zip: %w", err)
	}
	return initBook(zr, nil)
}

func initBook(zr *zip.Reader, closer io.Closer) (*Book, error) {
	b := &Book{
		zip:    zr,
		closer: closer,
	}
	b.buildZipIndex()
	b.validateMimetype()

	opfPath, err := locateOPF(zr)
	if err != nil {
		return nil, err
	}
	b.opfPath = opfPath
	b.opfDir = path.Dir(opfPath)

	fontObfuscation, err := checkDRM(zr)
	if err != nil {
		return nil, err
	}
	if fontObfuscation {
		b.warnings = append(b.warnings, "font obfuscation detected")
	}

	opfFile := b.findFile(opfPath)
	if opfFile == nil {
		return nil, fmt.Errorf("epub: OPF file not found in archive: %s: %w", opfPath, ErrInvalidEPub)
	}
	opfData, err := readZipFile(opfFile)
	if err != nil {
		return nil, fmt.Errorf("epub: read OPF file: %w", err)
	}

	pkg, err := parseOPF(opfData)
	if err != nil {
		return nil, err
	}
	b.version = pkg.Version
	b.manifest, b.byID = buildManifest(pkg.Manifest)
	b.spine = buildSpine(pkg.Spine, b.byID)
	if dropped := len(pkg.Spine.ItemRefs) - len(b.spine); dropped > 0 {
		b.warnings = append(b.warnings, fmt.Sprintf("%d spine itemref(s) point at unknown manifest items", dropped))
	}

	return b, nil
}

// validateMimetype checks that the first ZIP entry is named "mimetype" and
// contains "application/epub+zip". Deviations are recorded as warnings.
func (b *Book) validateMimetype() {
	if len(b.zip.File) == 0 {
		b.warnings = append(b.warnings, "empty ZIP archive; mimetype entry missing")
		return
	}

	first := b.zip.File[0]
	if first.Name != "mimetype" {
		b.warnings = append(b.warnings, "first ZIP entry is not \"mimetype\"")
		return
	}

	data, err := readZipFile(first)
	if err != nil {
		b.warnings = append(b.warnings, fmt.Sprintf("cannot read mimetype entry: %v", err))
		return
	}
	if string(data) != expectedMimetype {
		b.warnings = append(b.warnings, fmt.Sprintf("unexpected mimetype: %q", string(data)))
	}
}

// Close releases resources held by the Book. When the Book was created via
// Open, Close closes the underlying file. Close is idempotent.
func (b *Book) Close() error {
	if b.closer != nil {
		err := b.closer.Close()
		b.closer = nil
		return err
	}
	return nil
}

// Version returns the OPF package version ("2.0" when unspecified).
func (b *Book) Version() string {
	return b.version
}

// Warnings returns the non-fatal problems found while opening the book.
func (b *Book) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

// ReadFile reads a file from the ePub archive by its ZIP-internal path.
// The lookup is case-insensitive as a fallback.
func (b *Book) ReadFile(name string) ([]byte, error) {
	f := b.findFile(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return readZipFile(f)
}

func (b *Book) readFile(name string) ([]byte, error) {
	return b.ReadFile(name)
}

// Documents returns every XHTML or HTML manifest item in manifest order.
// This includes the ePub 3 navigation document and items outside the spine.
func (b *Book) Documents() []Document {
	linear := make(map[string]bool, len(b.spine))
	for _, si := range b.spine {
		linear[si.IDRef] = si.Linear
	}

	docs := make([]Document, 0, len(b.manifest))
	for _, mi := range b.manifest {
		if !mi.isDocument() {
			continue
		}
		doc := b.newDocument(mi)
		if l, ok := linear[mi.ID]; ok {
			doc.Linear = l
		}
		docs = append(docs, doc)
	}
	return docs
}

// SpineDocuments returns the documents referenced from the spine, in reading
// order. Spine entries that are not documents (e.g., SVG pages) are skipped.
func (b *Book) SpineDocuments() []Document {
	docs := make([]Document, 0, len(b.spine))
	for _, si := range b.spine {
		mi := b.byID[si.IDRef]
		if !mi.isDocument() {
			continue
		}
		doc := b.newDocument(mi)
		doc.Linear = si.Linear
		docs = append(docs, doc)
	}
	return docs
}

func (b *Book) newDocument(mi *manifestItem) Document {
	href := resolveHref(b.opfDir, mi.Href)
	if href == "" {
		// Keep the raw href so reads fail with ErrFileNotFound instead of
		// silently opening the wrong entry.
		href = mi.Href
	}
	return Document{
		ID:        mi.ID,
		Href:      href,
		MediaType: mi.MediaType,
		Nav:       mi.hasProperty("nav"),
		Linear:    true,
		book:      b,
	}
}

// buildZipIndex builds exact-match and lowercase ZIP file indexes for O(1) lookups.
func (b *Book) buildZipIndex() {
	b.zipExact = make(map[string]*zip.File, len(b.zip.File))
	b.zipLower = make(map[string]*zip.File, len(b.zip.File))
	for _, f := range b.zip.File {
		if _, exists := b.zipExact[f.Name]; !exists {
			b.zipExact[f.Name] = f
		}
		lower := strings.ToLower(f.Name)
		if _, exists := b.zipLower[lower]; !exists {
			b.zipLower[lower] = f
		}
	}
}

// findFile tries an exact match first, then a case-insensitive one.
func (b *Book) findFile(name string) *zip.File {
	if f, ok := b.zipExact[name]; ok {
		return f
	}
	return b.zipLower[strings.ToLower(name)]
}
