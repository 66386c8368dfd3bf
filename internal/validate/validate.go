// Package validate enforces the cheap pre-flight checks on an upload before
// any storage or parsing work happens.
package validate

import (
	"fmt"
	"path/filepath"
	"strings"

	"resumevault-backend/internal/sniff"
)

// MaxUploadBytes is the hard cap on accepted file size.
const MaxUploadBytes = 10 << 20 // 10 MiB

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Code identifies which validation rule rejected the upload.
type Code string

const (
	CodeEmpty Code = "VALIDATION_EMPTY"
	CodeType  Code = "VALIDATION_TYPE"
	CodeSize  Code = "VALIDATION_SIZE"
)

// Error is a validation failure with a user-facing message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// CodeOf returns the validation code carried by err, or "" if err is not a
// validation error.
func CodeOf(err error) Code {
	if ve, ok := err.(*Error); ok {
		return ve.Code
	}
	return ""
}

// Candidate is an upload as declared by the client. Declared metadata is
// never trusted on its own; the extractors re-check magic numbers later.
type Candidate struct {
	Size        int64
	ContentType string
	FileName    string
}

// NotEmpty rejects zero-length uploads.
func NotEmpty(size int64) error {
	if size <= 0 {
		return &Error{Code: CodeEmpty, Message: "The uploaded file is empty. Please choose a file and try again."}
	}
	return nil
}

// Size rejects uploads larger than maxBytes.
func Size(size, maxBytes int64) error {
	if size > maxBytes {
		return &Error{
			Code:    CodeSize,
			Message: fmt.Sprintf("The file is too large. The maximum allowed size is %d MB.", maxBytes>>20),
		}
	}
	return nil
}

// DeclaredType checks the reported MIME type and the filename extension
// against the allowlist. Both must agree on the same format; the client
// controls both, so this narrows but does not replace the magic-number check
// inside the extractors.
func DeclaredType(contentType, fileName string) (sniff.Format, error) {
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch {
	case mime == mimePDF && ext == ".pdf":
		return sniff.FormatPDF, nil
	case mime == mimeDOCX && ext == ".docx":
		return sniff.FormatOWPML, nil
	}
	return sniff.FormatUnknown, &Error{
		Code:    CodeType,
		Message: "Unsupported file type. Please upload a PDF or DOCX resume.",
	}
}

// UploadCandidate runs all checks in order (emptiness, declared type, size)
// and short-circuits on the first failure. On success it returns the format
// the rest of the pipeline should dispatch on.
func UploadCandidate(c Candidate) (sniff.Format, error) {
	if err := NotEmpty(c.Size); err != nil {
		return sniff.FormatUnknown, err
	}
	format, err := DeclaredType(c.ContentType, c.FileName)
	if err != nil {
		return sniff.FormatUnknown, err
	}
	if err := Size(c.Size, MaxUploadBytes); err != nil {
		return sniff.FormatUnknown, err
	}
	return format, nil
}
