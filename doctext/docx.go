package doctext

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// extractDocx parses a .docx buffer by reading word/document.xml from the
// ZIP archive. Paragraphs and tables are emitted as segments in document
// order; segments are joined by blank lines. Table rows render their
// non-empty cells joined by " | " and the whole block sits between
// TableStart and TableEnd marker lines.
func extractDocx(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var segments []string
	var para strings.Builder
	var cell strings.Builder
	var cells []string
	var rows []string
	var inParagraph bool
	var inText bool
	tblDepth := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
				if tblDepth == 1 {
					rows = nil
				}
			case "tr":
				if tblDepth == 1 {
					cells = nil
				}
			case "tc":
				if tblDepth == 1 {
					cell.Reset()
				}
			case "p":
				if tblDepth == 0 {
					inParagraph = true
					para.Reset()
				} else if cell.Len() > 0 {
					cell.WriteByte('\n')
				}
			case "t":
				inText = true
			}

		case xml.CharData:
			if !inText {
				continue
			}
			if tblDepth > 0 {
				cell.Write(t)
			} else if inParagraph {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if tblDepth == 0 && inParagraph {
					inParagraph = false
					if text := strings.TrimSpace(para.String()); text != "" {
						segments = append(segments, text)
					}
				}
			case "tc":
				if tblDepth == 1 {
					if c := strings.TrimSpace(cell.String()); c != "" {
						cells = append(cells, c)
					}
				}
			case "tr":
				if tblDepth == 1 && len(cells) > 0 {
					rows = append(rows, strings.Join(cells, " | "))
					cells = nil
				}
			case "tbl":
				tblDepth--
				if tblDepth == 0 && len(rows) > 0 {
					segments = append(segments, TableStart+"\n"+strings.Join(rows, "\n")+"\n"+TableEnd)
					rows = nil
				}
			}
		}
	}

	return strings.Join(segments, "\n\n"), nil
}
