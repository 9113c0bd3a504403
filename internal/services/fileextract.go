package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

// ExtractText returns the text of an uploaded file. The branch is chosen from
// the declared MIME type first and the file extension second; unknown types
// are read as text.
func (s *FileExtractService) ExtractText(name, mimeType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	switch {
	case mimeType == "application/pdf" || ext == ".pdf":
		return s.extractPDF(data)
	case strings.Contains(mimeType, "text") || ext == ".txt":
		return string(data), nil
	case mimeType == "application/epub+zip" || ext == ".epub":
		return s.extractEPUB(data)
	case mimeType == docxMimeType || ext == ".docx":
		return s.extractDOCX(data)
	default:
		return string(data), nil
	}
}

func (s *FileExtractService) extractPDF(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text = normalizeExtractedText(b.String())
	if text == "" {
		return "", errors.New("no extractable text found in pdf")
	}

	return text, nil
}

func (s *FileExtractService) extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	documentXML, err := readZipFile(r, "word/document.xml")
	if err != nil {
		return "", err
	}
	if len(documentXML) == 0 {
		return "", errors.New("docx document.xml not found")
	}

	text := normalizeExtractedText(stripDOCXML(documentXML))
	if text == "" {
		return "", errors.New("no extractable text found in docx")
	}

	return text, nil
}

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest []struct {
		ID   string `xml:"id,attr"`
		Href string `xml:"href,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

func (s *FileExtractService) extractEPUB(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	chapters := epubSpine(r)
	if len(chapters) == 0 {
		chapters = epubHTMLFiles(r)
	}

	var parts []string
	for _, name := range chapters {
		raw, err := readZipFile(r, name)
		if err != nil || len(raw) == 0 {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
		if err != nil {
			continue
		}

		sel := doc.Find("body")
		if sel.Length() == 0 {
			sel = doc.Selection
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	}

	text := normalizeExtractedText(strings.Join(parts, "\n\n"))
	if text == "" {
		return "", errors.New("no extractable text found in epub")
	}

	return text, nil
}

// epubSpine returns chapter paths in reading order according to the OPF package.
func epubSpine(r *zip.Reader) []string {
	containerXML, err := readZipFile(r, "META-INF/container.xml")
	if err != nil || len(containerXML) == 0 {
		return nil
	}

	var container epubContainer
	if err := xml.Unmarshal(containerXML, &container); err != nil || len(container.Rootfiles) == 0 {
		return nil
	}

	opfPath := container.Rootfiles[0].FullPath
	opfXML, err := readZipFile(r, opfPath)
	if err != nil || len(opfXML) == 0 {
		return nil
	}

	var pkg epubPackage
	if err := xml.Unmarshal(opfXML, &pkg); err != nil {
		return nil
	}

	hrefs := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		hrefs[item.ID] = item.Href
	}

	base := path.Dir(opfPath)
	var chapters []string
	for _, ref := range pkg.Spine {
		href, ok := hrefs[ref.IDRef]
		if !ok {
			continue
		}
		chapters = append(chapters, path.Join(base, href))
	}
	return chapters
}

func epubHTMLFiles(r *zip.Reader) []string {
	var names []string
	for _, f := range r.File {
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".xhtml", ".html", ".htm":
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

// normalizeExtractedText trims every line and squeezes runs of blank lines to one.
func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
