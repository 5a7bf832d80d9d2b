package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/docqa/internal/pkg/errors"
)

func TestLoadPlainText(t *testing.T) {
	doc, err := Load("notes.txt", []byte("hello world"))
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)
	require.Equal(t, "notes.txt", doc.Filename)
	require.Equal(t, FormatText, doc.Format)
	require.Equal(t, "hello world", doc.Content)
	require.Equal(t, 11, doc.Metadata["size"])
}

func TestLoadMarkdownStripsSyntax(t *testing.T) {
	src := "# Title\n\nSome **bold** text and a [link](https://example.com).\n\n- item one\n- item two\n"
	doc, err := Load("readme.md", []byte(src))
	require.NoError(t, err)
	require.Equal(t, FormatMarkdown, doc.Format)
	require.Contains(t, doc.Content, "Title")
	require.Contains(t, doc.Content, "Some bold text")
	require.Contains(t, doc.Content, "item one")
	require.NotContains(t, doc.Content, "#")
	require.NotContains(t, doc.Content, "**")
	require.NotContains(t, doc.Content, "](")
}

func TestLoadMarkdownKeepsFencedCode(t *testing.T) {
	src := "# Deps\n\n```\nfastapi==0.104.1\nuvicorn>=0.24.0\n```\n"
	doc, err := Load("deps.markdown", []byte(src))
	require.NoError(t, err)
	require.Contains(t, doc.Content, "fastapi==0.104.1")
	require.Contains(t, doc.Content, "uvicorn>=0.24.0")
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("image.png", []byte{0x89, 0x50})
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInvalid))
}

func TestLoadCorruptPDF(t *testing.T) {
	_, err := Load("broken.pdf", []byte("not a pdf at all"))
	require.Error(t, err)
}

func TestLoadEmptyText(t *testing.T) {
	doc, err := Load("empty.txt", nil)
	require.NoError(t, err)
	require.Equal(t, "", doc.Content)
	require.True(t, strings.HasSuffix(doc.Filename, ".txt"))
}
