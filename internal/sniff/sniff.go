// Package sniff classifies binary buffers by magic number, independent of
// any client-declared content type.
package sniff

import "bytes"

// Format is a detected binary container format.
type Format string

const (
	// FormatPDF is a buffer starting with the %PDF- header.
	FormatPDF Format = "pdf"
	// FormatOWPML is a ZIP-based Office Open XML word-processing package.
	FormatOWPML Format = "docx"
	// FormatUnknown is anything else, including buffers too short to judge.
	FormatUnknown Format = "unknown"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte{0x50, 0x4B} // "PK"
)

// Detect inspects the leading bytes of data. Buffers shorter than the PDF
// magic are always FormatUnknown; Detect never fails.
func Detect(data []byte) Format {
	if len(data) < len(pdfMagic) {
		return FormatUnknown
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return FormatPDF
	}
	if bytes.HasPrefix(data, zipMagic) {
		return FormatOWPML
	}
	return FormatUnknown
}
