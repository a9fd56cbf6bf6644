package docpipe

// Format identifies a document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatPptx Format = "pptx"
	FormatText Format = "text"
)

// Document is one uploaded file: raw bytes plus the filename the format
// is inferred from. Documents are request-scoped and owned by the caller.
type Document struct {
	Name string
	Data []byte
}

// Format returns the declared format of the document, inferred from the
// filename extension. Unknown extensions fall back to plain text.
func (d Document) Format() Format {
	return Detect(d.Name)
}
