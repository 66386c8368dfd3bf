package extract

import (
	"fmt"

	"resumevault-backend/internal/sniff"
)

// Extract dispatches to the extractor for the given format. The format is
// resolved once by validation; callers never branch on file type themselves.
func Extract(format sniff.Format, data []byte) (Result, error) {
	switch format {
	case sniff.FormatPDF:
		return ExtractPDF(data)
	case sniff.FormatOWPML:
		return ExtractDOCX(data)
	default:
		return Result{}, failf(KindFailed, fmt.Errorf("unsupported format: %s", format),
			"Unsupported file type. Please upload a PDF or DOCX resume.")
	}
}
