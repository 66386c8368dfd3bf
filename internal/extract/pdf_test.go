package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

// buildPDF assembles a minimal but structurally valid PDF with one Helvetica
// text line per page, computing the xref table from real byte offsets.
func buildPDF(t *testing.T, pageTexts []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := []int{0} // object 0 is the free-list head
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets)-1, body)
	}

	buf.WriteString("%PDF-1.4\n")

	n := len(pageTexts)
	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	for i, text := range pageTexts {
		writeObj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefOffset := buf.Len()
	total := len(offsets)
	fmt.Fprintf(&buf, "xref\n0 %d\n", total)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total, xrefOffset)
	return buf.Bytes()
}

func TestExtractPDFHelloWorld(t *testing.T) {
	data := buildPDF(t, []string{"Hello World"})

	res, err := ExtractPDF(data)
	if err != nil {
		t.Fatalf("ExtractPDF: %v", err)
	}
	if strings.TrimSpace(res.Text) != "Hello World" {
		t.Fatalf("text = %q, want Hello World", res.Text)
	}
	if res.Pages != 1 {
		t.Fatalf("pages = %d, want 1", res.Pages)
	}
}

func TestExtractPDFMultiPage(t *testing.T) {
	data := buildPDF(t, []string{"Page one", "Page two", "Page three"})

	res, err := ExtractPDF(data)
	if err != nil {
		t.Fatalf("ExtractPDF: %v", err)
	}
	if res.Pages != 3 {
		t.Fatalf("pages = %d, want 3", res.Pages)
	}
	for _, want := range []string{"Page one", "Page two", "Page three"} {
		if !strings.Contains(res.Text, want) {
			t.Fatalf("text %q missing %q", res.Text, want)
		}
	}
}

func TestExtractPDFEmptyInput(t *testing.T) {
	_, err := ExtractPDF(nil)
	if KindOf(err) != KindEmptyInput {
		t.Fatalf("expected %s, got %v", KindEmptyInput, err)
	}
}

func TestExtractPDFBadMagic(t *testing.T) {
	_, err := ExtractPDF([]byte("this is definitely not a pdf file, just some bytes"))
	if KindOf(err) != KindMalformed {
		t.Fatalf("expected %s, got %v", KindMalformed, err)
	}
}

func TestExtractPDFMalformedBody(t *testing.T) {
	// Correct magic followed by garbage must classify as malformed, not as
	// empty input or missing text.
	_, err := ExtractPDF([]byte("%PDF-1.4\nnot actually a pdf body at all"))
	if KindOf(err) != KindMalformed {
		t.Fatalf("expected %s, got %v", KindMalformed, err)
	}
}

func TestClassifyPDFError(t *testing.T) {
	if got := classifyPDFError(pdf.ErrInvalidPassword); got.Kind != KindEncrypted {
		t.Fatalf("invalid password classified as %s", got.Kind)
	}
	if got := classifyPDFError(errors.New("PDF is encrypted with AES")); got.Kind != KindEncrypted {
		t.Fatalf("encrypted message classified as %s", got.Kind)
	}
	if got := classifyPDFError(errors.New("malformed PDF: cross reference table broken")); got.Kind != KindMalformed {
		t.Fatalf("malformed message classified as %s", got.Kind)
	}
	if got := classifyPDFError(pdf.ErrInvalidPassword); !strings.Contains(got.Message, "password") {
		t.Fatalf("encrypted message should mention the password: %q", got.Message)
	}
}
