package loader

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/xxxsen/docqa/internal/model"
	"github.com/xxxsen/docqa/internal/pkg/errors"
)

const (
	FormatText     = "txt"
	FormatMarkdown = "md"
	FormatPDF      = "pdf"
)

// Load turns an uploaded file into a Document with extracted plain text.
// The format is taken from the filename extension.
func Load(filename string, data []byte) (*model.Document, error) {
	format, err := detectFormat(filename)
	if err != nil {
		return nil, err
	}
	var content string
	switch format {
	case FormatText:
		content = string(data)
	case FormatMarkdown:
		content, err = extractMarkdownText(data)
	case FormatPDF:
		content, err = extractPDFText(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s content: %w", format, err)
	}
	return &model.Document{
		ID:       uuid.NewString(),
		Filename: filename,
		Format:   format,
		Content:  content,
		Metadata: map[string]interface{}{
			"size": len(data),
		},
	}, nil
}

func detectFormat(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: unsupported file format: %s", errors.ErrInvalid, filename)
	}
}

// extractMarkdownText walks the goldmark AST and collects the raw text,
// keeping fenced code blocks verbatim so manifest-style files survive.
func extractMarkdownText(data []byte) (string, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(data))
	var buf strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.Heading, *ast.Paragraph, *ast.ListItem:
				buf.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(data))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteString("\n")
			}
		case *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(data))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
