package extract

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
)

// ExtractDOCXHTML is the formatting-preserving variant of ExtractDOCX. It
// keeps paragraph boundaries and basic inline emphasis as HTML instead of
// flattening to plain text. Same input and outcome contract; the primary
// ingestion path does not use it.
func ExtractDOCXHTML(data []byte) (Result, error) {
	content, diags, err := openDocumentXML(data)
	if err != nil {
		return Result{}, err
	}

	markup, walkDiags := renderDocumentHTML(content)
	diags = append(diags, walkDiags...)

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

	if strings.TrimSpace(stripTags(markup)) == "" {
		return Result{}, failf(KindNoText, nil,
			"No text could be found in this document. It may be empty or contain only images.")
	}

	return Result{
		Text:       markup,
		Paragraphs: strings.Count(markup, "<p>"),
		Warnings:   warnings,
	}, nil
}

func renderDocumentHTML(content string) (string, []diagnostic) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		diags   []diagnostic
		out     strings.Builder
		para    strings.Builder
		stack   []string
		bold    bool
		italic  bool
		inPara  bool
		warned  = map[string]bool{}
	)

	flushPara := func() {
		text := strings.TrimSpace(para.String())
		if text != "" {
			out.WriteString("<p>")
			out.WriteString(text)
			out.WriteString("</p>\n")
		}
		para.Reset()
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			diags = append(diags, diagnostic{severity: "error", message: fmt.Sprintf("invalid document markup: %v", err)})
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			stack = append(stack, name)
			switch name {
			case "p":
				inPara = true
			case "r":
				bold, italic = false, false
			case "b":
				if inProps(stack) {
					bold = true
				}
			case "i":
				if inProps(stack) {
					italic = true
				}
			case "br", "cr":
				para.WriteString("<br/>")
			case "tab":
				para.WriteString(" ")
			default:
				if msg, ok := skippedParts[name]; ok && !warned[name] {
					warned[name] = true
					diags = append(diags, diagnostic{severity: "warning", message: msg})
				}
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if t.Name.Local == "p" {
				inPara = false
				flushPara()
			}
		case xml.CharData:
			if len(stack) == 0 || stack[len(stack)-1] != "t" || !inPara {
				continue
			}
			text := html.EscapeString(string(t))
			if bold {
				text = "<strong>" + text + "</strong>"
			}
			if italic {
				text = "<em>" + text + "</em>"
			}
			para.WriteString(text)
		}
	}
	flushPara()

	return strings.TrimSpace(out.String()), diags
}

// inProps reports whether the current element sits inside a run-properties
// block, where b and i are formatting switches rather than content.
func inProps(stack []string) bool {
	for _, name := range stack {
		if name == "rPr" || name == "pPr" {
			return true
		}
	}
	return false
}

func stripTags(markup string) string {
	var out strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			out.WriteRune(r)
		}
	}
	return out.String()
}
