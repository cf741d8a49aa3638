// Package ingestion extracts text and candidate metadata from uploaded
// resume files.
package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// MaxFileSize is the upload cap for resume files.
const MaxFileSize = 10 * 1024 * 1024

// ErrUnsupportedFormat indicates a file extension the parser cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported resume file format")

// ErrFileTooLarge indicates the upload exceeds MaxFileSize.
var ErrFileTooLarge = errors.New("resume file exceeds maximum allowed size")

// Parse extracts raw text from a resume file based on its extension.
// Supported formats: .pdf, .docx, .txt, .md.
func Parse(filename string, content []byte) (string, error) {
	if len(content) > MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(content), MaxFileSize)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return parsePDF(content)
	case ".docx":
		return parseDOCX(content)
	case ".txt", ".md":
		return string(content), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// ParseAndClean extracts text and normalizes its whitespace.
func ParseAndClean(filename string, content []byte) (string, error) {
	raw, err := Parse(filename, content)
	if err != nil {
		return "", err
	}
	return CleanText(raw), nil
}

// parsePDF extracts text from every readable page. Pages that fail to
// extract are skipped; the parse fails only when no page yielded text.
func parsePDF(content []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get PDF page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var sb strings.Builder
	extracted := false
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			log.Printf("skipping PDF page %d: %v", i, err)
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			log.Printf("skipping PDF page %d: %v", i, err)
			continue
		}

		pageText, err := ex.ExtractText()
		if err != nil {
			log.Printf("skipping PDF page %d: %v", i, err)
			continue
		}
		if pageText != "" {
			extracted = true
			sb.WriteString(pageText)
			sb.WriteString("\n")
		}
	}

	if !extracted {
		return "", fmt.Errorf("no text could be extracted from PDF")
	}
	return strings.TrimSpace(sb.String()), nil
}

// parseDOCX extracts text from a .docx document body.
func parseDOCX(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer doc.Close()

	return docxPlainText(doc.Editable().GetContent()), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTabOrBreak   = regexp.MustCompile(`<w:(tab|br)[^>]*/?>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// docxPlainText converts WordprocessingML body XML to plain text: paragraph
// ends become newlines, tabs and line breaks become spaces, remaining markup
// is dropped.
func docxPlainText(bodyXML string) string {
	text := docxParagraphEnd.ReplaceAllString(bodyXML, "\n")
	text = docxTabOrBreak.ReplaceAllString(text, " ")
	text = xmlTag.ReplaceAllString(text, "")
	return strings.TrimSpace(html.UnescapeString(text))
}
