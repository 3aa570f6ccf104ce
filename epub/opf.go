package epub

import (
	"encoding/xml"
	"fmt"
)

// opfPackage is the subset of the OPF <package> element needed to locate
// document parts: the manifest and the spine.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	Toc      string            `xml:"toc,attr"`
	ItemRefs []opfSpineItemRef `xml:"itemref"`
}

type opfSpineItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// parseOPF parses the OPF file content and returns the parsed package structure.
func parseOPF(data []byte) (*opfPackage, error) {
	data = preprocessHTMLEntities(stripBOM(data))

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("epub: parse OPF: %w", err)
	}

	if pkg.Version == "" {
		// Default to 2.0 if version attribute is missing.
		pkg.Version = "2.0"
	}

	return &pkg, nil
}

// buildManifest converts the parsed manifest into document-ordered items
// plus an index by ID. Duplicate IDs keep the first occurrence in the index.
func buildManifest(manifest opfManifest) ([]*manifestItem, map[string]*manifestItem) {
	items := make([]*manifestItem, 0, len(manifest.Items))
	byID := make(map[string]*manifestItem, len(manifest.Items))

	for _, item := range manifest.Items {
		mi := &manifestItem{
			ID:         item.ID,
			Href:       item.Href,
			MediaType:  item.MediaType,
			Properties: item.Properties,
		}
		items = append(items, mi)
		if _, exists := byID[item.ID]; !exists {
			byID[item.ID] = mi
		}
	}

	return items, byID
}

// buildSpine creates the reading order from the parsed OPF spine.
// Itemrefs pointing at unknown manifest IDs are dropped.
func buildSpine(spine opfSpine, manifestByID map[string]*manifestItem) []spineItem {
	items := make([]spineItem, 0, len(spine.ItemRefs))
	for _, ref := range spine.ItemRefs {
		if _, ok := manifestByID[ref.IDRef]; !ok {
			continue
		}
		items = append(items, spineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		})
	}
	return items
}
