package docpipe

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		format Format
	}{
		{"syllabus.pdf", FormatPDF},
		{"notes.docx", FormatDocx},
		{"slides.pptx", FormatPptx},
		{"readme.txt", FormatText},
		{"SLIDES.PPTX", FormatPptx},
		{"Lecture.PDF", FormatPDF},
		{"weird.xyz", FormatText},
		{"noextension", FormatText},
	}

	for _, tt := range tests {
		if got := Detect(tt.name); got != tt.format {
			t.Errorf("Detect(%q) = %q, want %q", tt.name, got, tt.format)
		}
	}
}

func TestExtractTextFallback(t *testing.T) {
	pipe := New(Config{})

	text := pipe.Extract(context.Background(), Document{Name: "notes.txt", Data: []byte("Hello\nworld")})
	if text != "Hello\nworld" {
		t.Fatalf("expected passthrough, got %q", text)
	}

	// Invalid UTF-8 must be replaced, never raised.
	text = pipe.Extract(context.Background(), Document{Name: "bin.dat", Data: []byte{'o', 'k', 0xff, 0xfe, '!'}})
	if !strings.Contains(text, "ok") || !strings.Contains(text, "!") {
		t.Fatalf("expected lossy decode to keep valid runes, got %q", text)
	}
	if !strings.ContainsRune(text, '�') {
		t.Fatalf("expected replacement rune for invalid bytes, got %q", text)
	}
}

func TestExtractDocx(t *testing.T) {
	data := buildDocx(t, []string{"First paragraph", "Second paragraph"})

	pipe := New(Config{})
	text := pipe.Extract(context.Background(), Document{Name: "doc.docx", Data: data})

	if text != "First paragraph\nSecond paragraph" {
		t.Fatalf("unexpected docx text: %q", text)
	}
}

func TestExtractDocx_Corrupt(t *testing.T) {
	// A docx that is not a ZIP degrades to empty text, never an error.
	pipe := New(Config{})
	text := pipe.Extract(context.Background(), Document{Name: "broken.docx", Data: []byte("not a zip at all")})
	if text != "" {
		t.Fatalf("expected empty text for corrupt docx, got %q", text)
	}
}

func TestExtractPptx(t *testing.T) {
	data := buildPptx(t, [][]string{
		{"Slide one title", "Slide one body"},
		{"Slide two title"},
	})

	pipe := New(Config{})
	text := pipe.Extract(context.Background(), Document{Name: "deck.pptx", Data: data})

	want := "Slide one title\nSlide one body\nSlide two title"
	if text != want {
		t.Fatalf("unexpected pptx text: %q, want %q", text, want)
	}
}

func TestExtractPptx_SlideOrder(t *testing.T) {
	// Slides must come out in slide order even when the archive stores
	// them shuffled.
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	writeZipFile(t, w, "[Content_Types].xml", contentTypesXML)
	writeZipFile(t, w, "ppt/slides/slide2.xml", slideXML([]string{"second"}))
	writeZipFile(t, w, "ppt/slides/slide1.xml", slideXML([]string{"first"}))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	pipe := New(Config{})
	text := pipe.Extract(context.Background(), Document{Name: "deck.pptx", Data: buf.Bytes()})
	if text != "first\nsecond" {
		t.Fatalf("unexpected slide order: %q", text)
	}
}

func TestExtractPptx_NumberingGap(t *testing.T) {
	// Deleting a slide in PowerPoint leaves a gap in the part numbers;
	// slides after the gap must still be extracted, in numeric order.
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	writeZipFile(t, w, "[Content_Types].xml", contentTypesXML)
	writeZipFile(t, w, "ppt/slides/slide1.xml", slideXML([]string{"first"}))
	writeZipFile(t, w, "ppt/slides/slide3.xml", slideXML([]string{"third"}))
	writeZipFile(t, w, "ppt/slides/slide10.xml", slideXML([]string{"tenth"}))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	pipe := New(Config{})
	text := pipe.Extract(context.Background(), Document{Name: "deck.pptx", Data: buf.Bytes()})
	if text != "first\nthird\ntenth" {
		t.Fatalf("slides after a numbering gap were lost: got %q, want %q", text, "first\nthird\ntenth")
	}
}

func TestExtractCache(t *testing.T) {
	pipe := New(Config{CacheSize: 8})
	doc := Document{Name: "a.txt", Data: []byte("cached content")}

	first := pipe.Extract(context.Background(), doc)
	second := pipe.Extract(context.Background(), doc)
	if first != second {
		t.Fatalf("cache returned different text: %q vs %q", first, second)
	}
	if pipe.cache.Len() != 1 {
		t.Fatalf("expected one cache entry, got %d", pipe.cache.Len())
	}
}

func TestExtractMaxSize(t *testing.T) {
	pipe := New(Config{MaxDocumentSize: 4})
	text := pipe.Extract(context.Background(), Document{Name: "big.txt", Data: []byte("too large")})
	if text != "" {
		t.Fatalf("oversized document should degrade to empty text, got %q", text)
	}
}

// --- archive builders ---

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`

func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		xmlEscape(&body, p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	writeZipFile(t, w, "[Content_Types].xml", contentTypesXML)
	writeZipFile(t, w, "word/document.xml", body.String())
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func buildPptx(t *testing.T, slides [][]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	writeZipFile(t, w, "[Content_Types].xml", contentTypesXML)
	for i, paragraphs := range slides {
		name := "ppt/slides/slide" + itoa(i+1) + ".xml"
		writeZipFile(t, w, name, slideXML(paragraphs))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func slideXML(paragraphs []string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:sp><p:txBody>`)
	for _, p := range paragraphs {
		sb.WriteString(`<a:p><a:r><a:t>`)
		xmlEscape(&sb, p)
		sb.WriteString(`</a:t></a:r></a:p>`)
	}
	sb.WriteString(`</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`)
	return sb.String()
}

func writeZipFile(t *testing.T, w *zip.Writer, name, content string) {
	t.Helper()
	f, err := w.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
}

func xmlEscape(sb *strings.Builder, s string) {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	sb.WriteString(r.Replace(s))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}
