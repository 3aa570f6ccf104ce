package epubtext

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// testItem is one manifest entry of a generated book.
type testItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties string
	Content    string
}

// chapterItem returns an XHTML manifest item whose <body> holds body verbatim.
func chapterItem(id, body string) testItem {
	return testItem{
		ID:        id,
		Href:      id + ".xhtml",
		MediaType: "application/xhtml+xml",
		Content: `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>` + id + `</title></head><body>` + body + `</body></html>`,
	}
}

// writeTestEPub writes an ePub to path. The manifest keeps the order of items;
// spine lists item IDs in reading order and defaults to manifest order.
func writeTestEPub(t *testing.T, path string, items []testItem, spine ...string) {
	t.Helper()

	if spine == nil {
		for _, it := range items {
			spine = append(spine, it.ID)
		}
	}

	var manifest, itemrefs strings.Builder
	for _, it := range items {
		fmt.Fprintf(&manifest, `<item id="%s" href="%s" media-type="%s" properties="%s"/>`,
			it.ID, it.Href, it.MediaType, it.Properties)
	}
	for _, id := range spine {
		fmt.Fprintf(&itemrefs, `<itemref idref="%s"/>`, id)
	}
	opf := `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <manifest>` + manifest.String() + `</manifest>
  <spine>` + itemrefs.String() + `</spine>
</package>`

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	entries := []struct{ name, content string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", testContainerXML},
		{"OEBPS/content.opf", opf},
	}
	for _, it := range items {
		entries = append(entries, struct{ name, content string }{"OEBPS/" + it.Href, it.Content})
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

// writeZip writes files to a ZIP at path in lexical name order.
func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

// readFile returns the file content as a string.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// fakePart is a Part with canned content and an optional delay.
type fakePart struct {
	body  string
	err   error
	delay time.Duration
}

func (p fakePart) BodyContent() (string, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return p.body, p.err
}

// fakeArchive is an Archive over fake parts that records whether it was closed.
type fakeArchive struct {
	parts  []Part
	closed bool
}

func (a *fakeArchive) Parts() []Part { return a.parts }

func (a *fakeArchive) Close() error {
	a.closed = true
	return nil
}

// fakeOpener returns an OpenFunc yielding archive for any path.
func fakeOpener(archive *fakeArchive) OpenFunc {
	return func(string) (Archive, error) {
		return archive, nil
	}
}

func bodies(bodies ...string) *fakeArchive {
	a := &fakeArchive{}
	for _, b := range bodies {
		a.parts = append(a.parts, fakePart{body: b})
	}
	return a
}

var errFakeRead = errors.New("fake read failure")

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
