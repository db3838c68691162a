// Package pdftest builds small, well-formed PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Build assembles objects (numbered from 1, bodies without obj/endobj) into a
// PDF with a correct cross-reference table. Object 1 must be the catalog.
func Build(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset)

	return buf.Bytes()
}

// FormField is one terminal text or checkbox field of a generated form
type FormField struct {
	Name  string
	Value string // a leading "/" writes a name object, otherwise a string
}

// FormPDF returns a one-page PDF whose AcroForm holds fields
func FormPDF(fields []FormField) []byte {
	refs := make([]string, len(fields))
	objects := []string{
		"", // catalog, filled below
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}

	for i, f := range fields {
		num := len(objects) + 1
		refs[i] = fmt.Sprintf("%d 0 R", num)

		fieldType, value := "/Tx", "("+escape(f.Value)+")"
		if strings.HasPrefix(f.Value, "/") {
			fieldType, value = "/Btn", f.Value
		}
		objects = append(objects, fmt.Sprintf("<< /FT %s /T (%s) /V %s >>", fieldType, escape(f.Name), value))
	}

	objects[0] = fmt.Sprintf("<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [%s] >> >>",
		strings.Join(refs, " "))
	return Build(objects)
}

// TextPDF returns a PDF with one page per entry, each line drawn in Helvetica
func TextPDF(pages [][]string) []byte {
	pageCount := len(pages)
	// 1 catalog, 2 pages, 3 font, then (page, content) pairs
	kids := make([]string, pageCount)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	for i, lines := range pages {
		var stream strings.Builder
		stream.WriteString("BT\n/F1 12 Tf\n14 TL\n72 720 Td\n")
		for _, line := range lines {
			fmt.Fprintf(&stream, "(%s) Tj T*\n", escape(line))
		}
		stream.WriteString("ET")

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", stream.Len(), stream.String()),
		)
	}

	return Build(objects)
}

// CorruptStartXRef points the startxref of data at offset 9, where no
// cross-reference table lives. Strict readers give up on such files while
// readers that rebuild the xref by scanning objects still open them.
func CorruptStartXRef(data []byte) []byte {
	marker := []byte("startxref\n")
	i := bytes.LastIndex(data, marker)
	if i < 0 {
		return data
	}
	start := i + len(marker)
	end := start + bytes.IndexByte(data[start:], '\n')
	if end < start {
		return data
	}

	out := make([]byte, 0, len(data))
	out = append(out, data[:start]...)
	out = append(out, '9')
	return append(out, data[end:]...)
}

// WriteFile writes data to name inside a fresh temp dir and returns the path
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
