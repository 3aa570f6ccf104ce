package epub

import (
	"archive/zip"
	"encoding/xml"
	"strings"
)

const (
	encryptionFilePath = "META-INF/encryption.xml"
	// sinfFilePath only exists in Apple FairPlay protected books.
	sinfFilePath = "META-INF/sinf.xml"
)

// fontObfuscationAlgorithms are encryption methods that only mangle embedded
// fonts. Text content stays readable.
var fontObfuscationAlgorithms = map[string]bool{
	"http://www.idpf.org/2008/embedding": true,
	"http://ns.adobe.com/pdf/enc#RC":     true,
}

type xmlEncryption struct {
	XMLName       xml.Name           `xml:"encryption"`
	EncryptedData []xmlEncryptedData `xml:"EncryptedData"`
}

type xmlEncryptedData struct {
	EncryptionMethod struct {
		Algorithm string `xml:"Algorithm,attr"`
	} `xml:"EncryptionMethod"`
}

// checkDRM inspects META-INF for encryption descriptors.
//
// It returns ErrDRMProtected when any entry is encrypted with something other
// than a font obfuscation algorithm, or when encryption.xml cannot be parsed.
// fontObfuscation is true when only obfuscated fonts were found.
func checkDRM(zr *zip.Reader) (fontObfuscation bool, err error) {
	if findFileInsensitive(zr, sinfFilePath) != nil {
		return false, ErrDRMProtected
	}

	f := findFileInsensitive(zr, encryptionFilePath)
	if f == nil {
		return false, nil
	}

	data, err := readZipFile(f)
	if err != nil {
		return false, err
	}

	var enc xmlEncryption
	if err := xml.Unmarshal(stripBOM(data), &enc); err != nil {
		return false, ErrDRMProtected
	}

	for _, ed := range enc.EncryptedData {
		if !fontObfuscationAlgorithms[strings.TrimSpace(ed.EncryptionMethod.Algorithm)] {
			return false, ErrDRMProtected
		}
		fontObfuscation = true
	}
	return fontObfuscation, nil
}
