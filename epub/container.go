package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// containerPath is the well-known location of container.xml in an ePub archive.
const containerPath = "META-INF/container.xml"

// opfMediaType is the rootfile media type that identifies the OPF package.
const opfMediaType = "application/oebps-package+xml"

type containerXML struct {
	XMLName   xml.Name   `xml:"container"`
	RootFiles []rootFile `xml:"rootfiles>rootfile"`
}

type rootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// locateOPF returns the ZIP path of the OPF package document.
//
// META-INF/container.xml is consulted first; when it is absent the first
// entry ending in ".opf" is used instead.
func locateOPF(zr *zip.Reader) (string, error) {
	if f := findFileInsensitive(zr, containerPath); f != nil {
		return readRootFile(f)
	}

	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("epub: no OPF file found in archive: %w", ErrInvalidEPub)
}

// readRootFile decodes container.xml and picks the rootfile declared with the
// OPF media type, or else the first rootfile with a non-empty full-path.
func readRootFile(f *zip.File) (string, error) {
	data, err := readZipFile(f)
	if err != nil {
		return "", fmt.Errorf("epub: read container.xml: %w", err)
	}

	var c containerXML
	if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
		return "", fmt.Errorf("epub: parse container.xml: %v: %w", err, ErrInvalidEPub)
	}

	var first string
	for _, rf := range c.RootFiles {
		fullPath := strings.TrimSpace(rf.FullPath)
		if fullPath == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), opfMediaType) {
			return fullPath, nil
		}
		if first == "" {
			first = fullPath
		}
	}

	if first == "" {
		return "", fmt.Errorf("epub: container.xml declares no usable rootfile: %w", ErrInvalidEPub)
	}
	return first, nil
}
