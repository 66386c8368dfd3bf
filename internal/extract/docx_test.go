package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

const documentXMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentXMLFooter = `</w:body></w:document>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// buildDOCX assembles a minimal OWPML package holding the given body markup.
func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml":            documentXMLHeader + body + documentXMLFooter,
		"word/_rels/document.xml.rels": relsXML,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func para(runs ...string) string {
	return "<w:p>" + strings.Join(runs, "") + "</w:p>"
}

func run(text string) string {
	return "<w:r><w:t>" + text + "</w:t></w:r>"
}

func TestExtractDOCXParagraphs(t *testing.T) {
	data := buildDOCX(t, para(run("Jane Doe"))+para(run("Software Engineer"))+para()+para(run("Experience")))

	res, err := ExtractDOCX(data)
	if err != nil {
		t.Fatalf("ExtractDOCX: %v", err)
	}
	want := "Jane Doe\nSoftware Engineer\nExperience"
	if res.Text != want {
		t.Fatalf("text = %q, want %q", res.Text, want)
	}
	if res.Paragraphs != 3 {
		t.Fatalf("paragraphs = %d, want 3", res.Paragraphs)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
}

func TestExtractDOCXTabsAndBreaks(t *testing.T) {
	body := para(run("Name:") + "<w:r><w:tab/><w:t>Jane</w:t></w:r>" + "<w:r><w:br/><w:t>Title: Engineer</w:t></w:r>")
	data := buildDOCX(t, body)

	res, err := ExtractDOCX(data)
	if err != nil {
		t.Fatalf("ExtractDOCX: %v", err)
	}
	if res.Text != "Name: Jane\nTitle: Engineer" {
		t.Fatalf("text = %q", res.Text)
	}
}

func TestExtractDOCXEmbeddedDrawingWarning(t *testing.T) {
	body := para(run("Profile photo below")) + para("<w:r><w:drawing></w:drawing></w:r>")
	data := buildDOCX(t, body)

	res, err := ExtractDOCX(data)
	if err != nil {
		t.Fatalf("ExtractDOCX: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "drawing") {
		t.Fatalf("expected one drawing warning, got %v", res.Warnings)
	}
}

func TestExtractDOCXNoText(t *testing.T) {
	data := buildDOCX(t, para("<w:r><w:drawing></w:drawing></w:r>"))
	_, err := ExtractDOCX(data)
	if KindOf(err) != KindNoText {
		t.Fatalf("expected %s, got %v", KindNoText, err)
	}
}

func TestExtractDOCXEmptyInput(t *testing.T) {
	_, err := ExtractDOCX(nil)
	if KindOf(err) != KindEmptyInput {
		t.Fatalf("expected %s, got %v", KindEmptyInput, err)
	}
}

func TestExtractDOCXNotAZip(t *testing.T) {
	_, err := ExtractDOCX([]byte("plain text pretending to be a docx document, long enough to sniff"))
	if KindOf(err) != KindMalformed {
		t.Fatalf("expected %s, got %v", KindMalformed, err)
	}
}

func TestExtractDOCXZipWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractDOCX(buf.Bytes())
	if err == nil {
		t.Fatal("expected error for zip without document.xml")
	}
	if kind := KindOf(err); kind != KindFailed && kind != KindMalformed {
		t.Fatalf("unexpected kind %s", kind)
	}
}

func TestExtractDOCXHTML(t *testing.T) {
	body := para("<w:r><w:rPr><w:b/></w:rPr><w:t>Jane Doe</w:t></w:r>") + para(run("Engineer & Builder"))
	data := buildDOCX(t, body)

	res, err := ExtractDOCXHTML(data)
	if err != nil {
		t.Fatalf("ExtractDOCXHTML: %v", err)
	}
	if !strings.Contains(res.Text, "<p><strong>Jane Doe</strong></p>") {
		t.Fatalf("bold run not preserved: %q", res.Text)
	}
	if !strings.Contains(res.Text, "Engineer &amp; Builder") {
		t.Fatalf("character data not escaped: %q", res.Text)
	}
	if res.Paragraphs != 2 {
		t.Fatalf("paragraphs = %d, want 2", res.Paragraphs)
	}
}
