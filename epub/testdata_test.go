package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// validContainerXML is a well-formed META-INF/container.xml pointing to an OPF.
const validContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// buildTestZip creates an in-memory ZIP archive from the provided files map
// (path → content) and returns a *zip.Reader over the resulting bytes.
func buildTestZip(t *testing.T, files map[string]string) *zip.Reader {
	t.Helper()
	data := buildTestEPubBytes(t, files)
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("buildTestZip: open reader: %v", err)
	}
	return r
}

// buildTestEPubBytes serialises files into ZIP bytes. A "mimetype" entry, if
// present, is written first as the ePub container format requires; the
// remaining entries follow in lexical order so archives are deterministic.
func buildTestEPubBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		if name != "mimetype" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := files["mimetype"]; ok {
		names = append([]string{"mimetype"}, names...)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("buildTestEPubBytes: create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, files[name]); err != nil {
			t.Fatalf("buildTestEPubBytes: write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("buildTestEPubBytes: close writer: %v", err)
	}
	return buf.Bytes()
}

// buildTestEPubFile writes an ePub archive to a temporary file and returns
// its path, for tests that go through Open.
func buildTestEPubFile(t *testing.T, files map[string]string) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "test.epub")
	if err := os.WriteFile(fp, buildTestEPubBytes(t, files), 0644); err != nil {
		t.Fatalf("buildTestEPubFile: write file: %v", err)
	}
	return fp
}

// bookTestOPF declares, in manifest order: a nav document, a stylesheet,
// two chapters listed in reverse reading order, a non-linear appendix, an
// image and the NCX.
const bookTestOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book &mdash; Part One</dc:title>
    <dc:identifier id="uid">test-id-001</dc:identifier>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="css" href="style.css" media-type="text/css"/>
    <item id="ch2" href="text/chapter02.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch1" href="text/chapter01.xhtml" media-type="application/xhtml+xml"/>
    <item id="app" href="text/appendix.html" media-type="text/html"/>
    <item id="img" href="images/cover.jpg" media-type="image/jpeg"/>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
    <itemref idref="app" linear="no"/>
    <itemref idref="img"/>
  </spine>
</package>`

const navXHTML = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>Contents</title></head>
<body><nav epub:type="toc"><ol><li><a href="text/chapter01.xhtml">One</a></li></ol></nav></body>
</html>`

const chapter01XHTML = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter One</title></head>
<body><h1>Chapter One</h1><p>Hello, world!</p></body>
</html>`

const chapter02XHTML = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter Two</title></head>
<body><p>Goodbye, world!</p></body>
</html>`

const appendixHTML = `<html><head><title>Appendix</title></head><body><p>Notes</p></body></html>`

func bookTestFiles() map[string]string {
	return map[string]string{
		"mimetype":                   "application/epub+zip",
		"META-INF/container.xml":     validContainerXML,
		"OEBPS/content.opf":          bookTestOPF,
		"OEBPS/nav.xhtml":            navXHTML,
		"OEBPS/style.css":            "p { margin: 0; }",
		"OEBPS/text/chapter01.xhtml": chapter01XHTML,
		"OEBPS/text/chapter02.xhtml": chapter02XHTML,
		"OEBPS/text/appendix.html":   appendixHTML,
		"OEBPS/images/cover.jpg":     "\xff\xd8\xff",
		"OEBPS/toc.ncx":              `<ncx/>`,
	}
}
