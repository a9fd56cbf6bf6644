// Package docpipe extracts plain text from uploaded course documents.
//
// Supported formats:
//   - .pdf   — PDF text extraction (pdfcpu, page order preserved)
//   - .docx  — Microsoft Word (archive/zip → word/document.xml)
//   - .pptx  — PowerPoint (archive/zip → ppt/slides/slideN.xml)
//   - other  — plain-text fallback (lossy UTF-8 decode, never fails)
//
// Extraction is deliberately lossy: a document that cannot be parsed by its
// declared format yields an empty string instead of an error, so one
// unreadable upload never aborts the batch. Callers that need strict
// validation must check for unexpectedly empty fragments themselves.
package docpipe

import (
	"context"
	"crypto/sha256"
	"log"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Config holds configuration for the extraction pipeline.
type Config struct {
	// MaxDocumentSize is the largest document accepted, in bytes.
	MaxDocumentSize int
	// CacheSize is the number of extraction results kept in the LRU cache.
	CacheSize int
}

func (c *Config) defaults() {
	if c.MaxDocumentSize == 0 {
		c.MaxDocumentSize = 64 << 20
	}
	if c.CacheSize == 0 {
		c.CacheSize = 128
	}
}

// Pipeline is the document extraction engine.
type Pipeline struct {
	cfg   Config
	cache *lru.Cache[[32]byte, string]
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	cache, _ := lru.New[[32]byte, string](cfg.CacheSize)
	return &Pipeline{
		cfg:   cfg,
		cache: cache,
	}
}

// Detect returns the document format for a filename, case-insensitive.
// Unrecognized extensions use the plain-text fallback.
func Detect(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDocx
	case ".pptx":
		return FormatPptx
	default:
		return FormatText
	}
}

// Extract returns the best-effort plain text of a document. A document the
// parser cannot handle yields an empty string; the degrade is logged, not
// surfaced.
func (p *Pipeline) Extract(ctx context.Context, doc Document) string {
	if len(doc.Data) > p.cfg.MaxDocumentSize {
		log.Printf("docpipe: %s exceeds max size (%d bytes), skipping", doc.Name, len(doc.Data))
		return ""
	}

	key := cacheKey(doc)
	if text, ok := p.cache.Get(key); ok {
		return text
	}

	var text string
	var err error
	switch doc.Format() {
	case FormatPDF:
		text, err = extractPDF(doc.Data)
	case FormatDocx:
		text, err = extractDocx(doc.Data)
	case FormatPptx:
		text, err = extractPptx(doc.Data)
	default:
		text = extractText(doc.Data)
	}

	if err != nil {
		log.Printf("docpipe: extraction degraded for %s (%s): %v", doc.Name, doc.Format(), err)
		text = ""
	}

	p.cache.Add(key, text)
	return text
}

func cacheKey(doc Document) [32]byte {
	h := sha256.New()
	h.Write([]byte(doc.Format()))
	h.Write([]byte{0})
	h.Write(doc.Data)
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// SupportedFormats returns all format tags with a dedicated parser.
func SupportedFormats() []string {
	return []string{"pdf", "docx", "pptx", "text"}
}
