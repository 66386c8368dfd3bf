package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// diagnostic is a conversion message produced while walking the document
// XML. Error-severity diagnostics fail the extraction; warnings are carried
// on the Result.
type diagnostic struct {
	severity string // "error" or "warning"
	message  string
}

// ExtractDOCX parses an OWPML (.docx) package into normalized plain text.
// The package is opened with nguyenthenguyen/docx and the document XML is
// flattened with a token-stream walk. Diagnostics tagged "error" fail the
// extraction as a conversion error; warnings ride along on the Result.
func ExtractDOCX(data []byte) (Result, error) {
	text, diags, err := docxPlainText(data)
	if err != nil {
		return Result{}, err
	}

	var warnings []string
	var errMsgs []string
	for _, d := range diags {
		if d.severity == "error" {
			errMsgs = append(errMsgs, d.message)
		} else {
			warnings = append(warnings, d.message)
		}
	}
	if len(errMsgs) > 0 {
		return Result{}, failf(KindConversionError, nil, strings.Join(errMsgs, "; "))
	}

	if strings.TrimSpace(text) == "" {
		return Result{}, failf(KindNoText, nil,
			"No text could be found in this document. It may be empty or contain only images.")
	}

	return Result{
		Text:       NormalizeStrict(text),
		Paragraphs: countParagraphs(text),
		Warnings:   warnings,
	}, nil
}

func docxPlainText(data []byte) (string, []diagnostic, error) {
	content, diags, err := openDocumentXML(data)
	if err != nil {
		return "", nil, err
	}

	var buf strings.Builder
	walkDocumentXML(content, &diags, func(ev xmlEvent) {
		switch ev.kind {
		case eventText:
			buf.WriteString(ev.text)
		case eventTab:
			buf.WriteString("\t")
		case eventBreak, eventParagraphEnd:
			buf.WriteString("\n")
		}
	})
	return buf.String(), diags, nil
}

// openDocumentXML opens the package and returns the raw document XML. The
// "PK" magic check is advisory only: a missing magic becomes a warning and
// extraction is still attempted, so the package library stays the authority
// on what it can open.
func openDocumentXML(data []byte) (string, []diagnostic, error) {
	if len(data) == 0 {
		return "", nil, failf(KindEmptyInput, nil, "No file content was received. Please try uploading again.")
	}

	var diags []diagnostic
	if !bytes.HasPrefix(data, []byte{0x50, 0x4B}) {
		diags = append(diags, diagnostic{severity: "warning", message: "file does not start with a ZIP package header"})
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, classifyDOCXOpenError(err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), diags, nil
}

// classifyDOCXOpenError is the single translation point for package-open
// failures from the DOCX library.
func classifyDOCXOpenError(err error) *Error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not a valid"):
		return failf(KindMalformed, err,
			"This file is not a valid Word document. It may be corrupted or mislabeled.")
	case strings.Contains(msg, "zip"):
		return failf(KindMalformed, err,
			"The document package structure is damaged and could not be opened.")
	default:
		return failf(KindFailed, err, fmt.Sprintf("The document could not be processed: %s.", err.Error()))
	}
}

type eventKind int

const (
	eventText eventKind = iota
	eventTab
	eventBreak
	eventParagraphEnd
)

type xmlEvent struct {
	kind eventKind
	text string
}

// skippedParts maps OWPML elements with no text representation to the
// warning emitted when one is encountered.
var skippedParts = map[string]string{
	"drawing": "embedded drawing skipped",
	"pict":    "embedded picture skipped",
	"object":  "embedded object skipped",
}

// walkDocumentXML streams the document XML and emits text-level events.
// Character data is taken only from w:t elements; unsupported embedded
// parts produce one warning each. A decode failure mid-stream is recorded
// as an error diagnostic rather than aborting with a raw parser error.
func walkDocumentXML(content string, diags *[]diagnostic, emit func(xmlEvent)) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	var stack []string
	warned := map[string]bool{}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			*diags = append(*diags, diagnostic{severity: "error", message: fmt.Sprintf("invalid document markup: %v", err)})
			return
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			stack = append(stack, name)
			switch name {
			case "tab":
				emit(xmlEvent{kind: eventTab})
			case "br", "cr":
				emit(xmlEvent{kind: eventBreak})
			default:
				if msg, ok := skippedParts[name]; ok && !warned[name] {
					warned[name] = true
					*diags = append(*diags, diagnostic{severity: "warning", message: msg})
				}
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if t.Name.Local == "p" {
				emit(xmlEvent{kind: eventParagraphEnd})
			}
		case xml.CharData:
			if len(stack) > 0 && stack[len(stack)-1] == "t" {
				emit(xmlEvent{kind: eventText, text: string(t)})
			}
		}
	}
}

func countParagraphs(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
