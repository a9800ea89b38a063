package payroll

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	DefaultPDFWrapWidth = 80
	pdfLinesPerPage     = 62

	// pdfFallbackGlyph stands in for runes WinAnsiEncoding cannot show.
	pdfFallbackGlyph = '?'
)

// RenderPDF lays the payslip document out verbatim in Courier on A4 pages,
// wrapping lines longer than width runes and paginating as needed.
func RenderPDF(document string, width int) ([]byte, error) {
	if width <= 0 {
		width = DefaultPDFWrapWidth
	}

	var lines []string
	for _, l := range strings.Split(document, "\n") {
		lines = append(lines, wrapLine(l, width)...)
	}
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		lines = []string{"Payslip"}
	}

	var pages [][]string
	for start := 0; start < len(lines); start += pdfLinesPerPage {
		end := start + pdfLinesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}

	// 1 catalog, 2 page tree, 3 font, then a page and a content stream per page.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), len(pages)),
		"3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding >>\nendobj\n",
	}
	for i, page := range pages {
		pageObj, contentObj := 4+2*i, 5+2*i
		stream := pageStream(page)
		objects = append(objects,
			fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>\nendobj\n", pageObj, contentObj),
			fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", contentObj, len(stream), stream),
		)
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pageStream(lines []string) string {
	var content strings.Builder
	content.WriteString("BT\n/F1 10 Tf\n12 TL\n40 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")
	return content.String()
}

// wrapLine breaks l at the last space that keeps each piece within width
// runes, or hard-breaks a word longer than width.
func wrapLine(l string, width int) []string {
	runes := []rune(l)
	if len(runes) <= width {
		return []string{l}
	}

	var out []string
	for len(runes) > width {
		cut := width
		for i := width; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimRight(string(runes[:cut]), " "))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

// pdfEscape encodes v as a WinAnsi string literal body. Delimiters are
// backslash escaped and bytes outside ASCII are written as octal escapes so
// the content stream stays 7-bit.
func pdfEscape(v string) string {
	var b strings.Builder
	for _, r := range v {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = pdfFallbackGlyph
		}
		switch {
		case c == '\\' || c == '(' || c == ')':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
