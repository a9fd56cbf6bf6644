package docpipe

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Slide part names keep their numbers after slide deletion, so a deck may
// contain slide1.xml and slide3.xml with no slide2.xml.
var slideEntryRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPptx parses a .pptx by collecting every ppt/slides/slideN.xml entry
// and reading them in numeric slide order; ZIP entry order is not reliable.
// Each text paragraph inside a slide's shapes contributes one line; shapes
// without a text body are skipped.
func extractPptx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	type slideEntry struct {
		nr   int
		file *zip.File
	}
	var slides []slideEntry
	for _, f := range zr.File {
		m := slideEntryRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		nr, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideEntry{nr: nr, file: f})
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("no slides found in archive")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].nr < slides[j].nr })

	var lines []string
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", s.file.Name, err)
		}

		decoder := xml.NewDecoder(rc)
		var current strings.Builder
		var inRun bool

		for {
			tok, err := decoder.Token()
			if err != nil {
				break
			}
			switch t := tok.(type) {
			case xml.StartElement:
				if t.Name.Local == "t" {
					inRun = true
				}
			case xml.CharData:
				if inRun {
					current.Write(t)
				}
			case xml.EndElement:
				switch t.Name.Local {
				case "t":
					inRun = false
				case "p":
					lines = append(lines, current.String())
					current.Reset()
				}
			}
		}
		rc.Close()
	}

	return strings.Join(lines, "\n"), nil
}
