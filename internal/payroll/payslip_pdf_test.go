package payroll_test

import (
	"bytes"
	"strings"
	"testing"

	"go-payroll/internal/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPDF_SinglePage(t *testing.T) {
	doc := payroll.FormatPayslip(samplePayslip(t))

	out, err := payroll.RenderPDF(doc, 80)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-1.4\n")))
	assert.True(t, bytes.HasSuffix(out, []byte("%%EOF")))
	assert.Contains(t, string(out), "/BaseFont /Courier")
	assert.Contains(t, string(out), "/Count 1")
	assert.Contains(t, string(out), "(PAYSLIP FOR: March 2026) Tj")
	assert.Contains(t, string(out), "(Net Pay: $900.00) Tj")
}

func TestRenderPDF_WrapsLongLines(t *testing.T) {
	long := "Bank Name: " + strings.Repeat("word ", 30)

	out, err := payroll.RenderPDF(long, 40)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "("+strings.TrimSpace(long)+")")
	assert.Contains(t, s, "T* (word word")
}

func TestRenderPDF_Paginates(t *testing.T) {
	lines := make([]string, 130)
	for i := range lines {
		lines[i] = "line"
	}

	out, err := payroll.RenderPDF(strings.Join(lines, "\n"), 80)
	require.NoError(t, err)
	assert.Contains(t, string(out), "/Count 3")
	assert.Equal(t, 3, strings.Count(string(out), "/Type /Page "))
}

func TestRenderPDF_EscapesParentheses(t *testing.T) {
	out, err := payroll.RenderPDF(`Acme (Pty) Ltd \ HQ`, 80)
	require.NoError(t, err)
	assert.Contains(t, string(out), `(Acme \(Pty\) Ltd \\ HQ) Tj`)
}

func TestRenderPDF_Deterministic(t *testing.T) {
	doc := payroll.FormatPayslip(samplePayslip(t))
	a, err := payroll.RenderPDF(doc, 0)
	require.NoError(t, err)
	b, err := payroll.RenderPDF(doc, payroll.DefaultPDFWrapWidth)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderPDF_EncodesAccentedNamesAsWinAnsi(t *testing.T) {
	out, err := payroll.RenderPDF("Employee Name: Hélène Uwase\nBank Name: Banque Populaire €", 80)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "/Encoding /WinAnsiEncoding")
	assert.Contains(t, s, `(Employee Name: H\351l\350ne Uwase) Tj`)
	assert.Contains(t, s, `T* (Bank Name: Banque Populaire \200) Tj`)
	assert.NotContains(t, s, "Hélène")
	for i, b := range out {
		if b >= 0x80 {
			t.Fatalf("non-ASCII byte %#x at offset %d", b, i)
		}
	}
}

func TestRenderPDF_ReplacesRunesOutsideWinAnsi(t *testing.T) {
	out, err := payroll.RenderPDF("Employee Name: 李雷", 80)
	require.NoError(t, err)
	assert.Contains(t, string(out), "(Employee Name: ??) Tj")
}
