package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// pdfInfoKeys are the Info-dictionary fields surfaced as metadata.
var pdfInfoKeys = []string{"Title", "Author", "Subject", "Creator", "Producer"}

// ExtractPDF parses a PDF byte buffer into normalized text plus page count
// and document metadata. ledongthuc/pdf signals failures through returned
// errors and, on badly broken files, panics; both are confined here and
// mapped onto the extraction taxonomy.
func ExtractPDF(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, failf(KindEmptyInput, nil, "No file content was received. Please try uploading again.")
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return Result{}, failf(KindMalformed, nil, "This file is not a valid PDF. It may be corrupted or mislabeled.")
	}
	return extractPDFGuarded(data)
}

func extractPDFGuarded(data []byte) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{}
			err = failf(KindMalformed, fmt.Errorf("pdf parser panic: %v", rec),
				"This PDF could not be read. The file may be corrupted or not a valid PDF.")
		}
	}()

	reader, rerr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return Result{}, classifyPDFError(rerr)
	}

	pages := reader.NumPage()
	var buf strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			// Unreadable pages are skipped; an all-unreadable document
			// surfaces below as no text content.
			continue
		}
		buf.WriteString(pageText)
		buf.WriteString("\n")
	}

	text := Normalize(buf.String())
	if text == "" {
		return Result{}, failf(KindNoText, nil,
			"No text could be found in this PDF. The document might be image-based or corrupted.")
	}

	return Result{
		Text:  text,
		Pages: pages,
		Info:  pdfDocumentInfo(reader),
	}, nil
}

// classifyPDFError maps parser errors onto the taxonomy. This is the single
// translation point for the PDF library.
func classifyPDFError(err error) *Error {
	msg := strings.ToLower(err.Error())
	if errors.Is(err, pdf.ErrInvalidPassword) ||
		strings.Contains(msg, "encrypt") || strings.Contains(msg, "password") {
		return failf(KindEncrypted, err,
			"This PDF is password-protected. Please remove the password and upload it again.")
	}
	return failf(KindMalformed, err,
		"This PDF could not be read. The file may be corrupted or not a valid PDF.")
}

func pdfDocumentInfo(reader *pdf.Reader) map[string]string {
	infoVal := reader.Trailer().Key("Info")
	if infoVal.IsNull() {
		return nil
	}
	info := make(map[string]string)
	for _, key := range pdfInfoKeys {
		field := infoVal.Key(key)
		if field.Kind() != pdf.String {
			continue
		}
		if s := strings.TrimSpace(field.RawString()); s != "" {
			info[key] = s
		}
	}
	if len(info) == 0 {
		return nil
	}
	return info
}
