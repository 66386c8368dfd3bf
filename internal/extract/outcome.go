// Package extract turns uploaded PDF and DOCX payloads into normalized plain
// text. All parser failures are translated into a *Error carrying a Kind at
// this package's boundary; no library error or panic escapes it.
package extract

import "errors"

// Kind classifies an extraction failure. Callers branch on Kind, not on
// message text.
type Kind string

const (
	KindEmptyInput      Kind = "EXTRACTION_EMPTY_INPUT"
	KindEncrypted       Kind = "EXTRACTION_ENCRYPTED"
	KindMalformed       Kind = "EXTRACTION_MALFORMED"
	KindNoText          Kind = "EXTRACTION_NO_TEXT"
	KindConversionError Kind = "EXTRACTION_CONVERSION_ERROR"
	KindFailed          Kind = "EXTRACTION_FAILED"
)

// Error is an extraction failure with a short, user-actionable message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the Kind carried by err, or "" for non-extraction errors.
func KindOf(err error) Kind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

func failf(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// Result is a successful extraction. Text is always non-empty and already
// normalized; an empty document is reported as a KindNoText failure instead.
type Result struct {
	Text string

	// Pages is the parser-reported page count (PDF only).
	Pages int
	// Paragraphs is the paragraph count (DOCX only).
	Paragraphs int
	// Info holds document metadata fields such as Title and Author (PDF only).
	Info map[string]string
	// Warnings are non-fatal conversion diagnostics (DOCX only).
	Warnings []string
}
