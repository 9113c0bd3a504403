package services

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildZip(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText_PlainTextVerbatim(t *testing.T) {
	s := NewFileExtractService()
	raw := "  line one\r\n\n\n  line two  "

	tests := []struct {
		name     string
		filename string
		mimeType string
	}{
		{"text mime", "notes", "text/plain"},
		{"markdown mime", "notes.md", "text/markdown"},
		{"txt extension", "notes.txt", ""},
		{"unknown type", "notes.bin", "application/octet-stream"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ExtractText(tc.filename, tc.mimeType, []byte(raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != raw {
				t.Errorf("expected verbatim content, got %q", got)
			}
		})
	}
}

func TestExtractText_DOCX(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>Hello &amp; welcome</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second</w:t><w:tab/><w:t>para</w:t></w:r></w:p></w:body></w:document>`
	data := buildZip(t, map[string]string{"word/document.xml": doc}, []string{"word/document.xml"})

	got, err := NewFileExtractService().ExtractText("report.docx", "", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello & welcome\nSecond\tpara" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractText_DOCXMissingDocument(t *testing.T) {
	data := buildZip(t, map[string]string{"other.xml": "<x/>"}, []string{"other.xml"})
	if _, err := NewFileExtractService().ExtractText("report.docx", "", data); err == nil {
		t.Fatalf("expected error for docx without document.xml")
	}
}

func TestExtractText_EPUBSpineOrder(t *testing.T) {
	files := map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`,
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <manifest>
    <item id="c1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c2"/><itemref idref="c1"/></spine>
</package>`,
		"OEBPS/text/ch1.xhtml": `<html><head><title>One</title></head><body><p>First chapter</p></body></html>`,
		"OEBPS/text/ch2.xhtml": `<html><head><title>Two</title></head><body><p>Second chapter</p></body></html>`,
	}
	order := []string{"mimetype", "META-INF/container.xml", "OEBPS/content.opf", "OEBPS/text/ch1.xhtml", "OEBPS/text/ch2.xhtml"}
	data := buildZip(t, files, order)

	got, err := NewFileExtractService().ExtractText("book.epub", "application/epub+zip", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "Second chapter\n\nFirst chapter" {
		t.Fatalf("unexpected text %q", got)
	}
	if strings.Contains(got, "One") {
		t.Fatalf("head content must not leak into extracted text")
	}
}

func TestExtractText_EPUBWithoutContainer(t *testing.T) {
	files := map[string]string{
		"b.xhtml": `<html><body>Beta</body></html>`,
		"a.xhtml": `<html><body>Alpha</body></html>`,
	}
	data := buildZip(t, files, []string{"b.xhtml", "a.xhtml"})

	got, err := NewFileExtractService().ExtractText("book.epub", "", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Alpha\n\nBeta" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractText_InvalidPDF(t *testing.T) {
	if _, err := NewFileExtractService().ExtractText("paper.pdf", "application/pdf", []byte("not a pdf")); err == nil {
		t.Fatalf("expected error for invalid pdf")
	}
}

func TestNormalizeExtractedText(t *testing.T) {
	in := "  a  \r\n\r\n\r\n b\n\n\n\nc  "
	if got := normalizeExtractedText(in); got != "a\n\nb\n\nc" {
		t.Fatalf("unexpected normalized text %q", got)
	}
}
