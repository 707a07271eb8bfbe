package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion
	MaxHTMLSize = 10 * 1024 * 1024
)

// ValidateHTML checks HTML size and returns error if too large
func ValidateHTML(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("html content required")
	}
	if len(data) > MaxHTMLSize {
		return fmt.Errorf("html exceeds maximum size of %d bytes", MaxHTMLSize)
	}
	return nil
}

// DetectCharset detects and returns charset from HTML bytes
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// Parse decodes raw HTML with charset detection into a node tree
func Parse(data []byte) (*html.Node, error) {
	if err := ValidateHTML(data); err != nil {
		return nil, err
	}

	detected := DetectCharset(data)
	utf8Reader, err := charset.NewReader(bytes.NewReader(data), "text/html; charset="+detected)
	if err != nil {
		// Fallback to direct parsing
		return htmlquery.Parse(bytes.NewReader(data))
	}

	return htmlquery.Parse(utf8Reader)
}

// Load reads a document from r
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxHTMLSize+1))
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	root, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return New(root), nil
}

// LoadString parses an in-memory document
func LoadString(s string) (*Document, error) {
	return Load(strings.NewReader(s))
}

// LoadFile parses the document stored at path
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
