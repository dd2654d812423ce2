package formatter

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In Docker runtime fonts are copied next to the binary.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}
	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}
	return ""
}

func (mf *PDFFormatter) Format(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	textFont, codeFont := "Arial", "Courier"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		textFont, codeFont = pdfFontName, pdfFontName
		translate = func(s string) string { return s }
	}

	pdf.SetFont(textFont, "B", 20)
	pdf.MultiCell(0, 10, translate(doc.Title), "", "", false)
	pdf.Ln(2)

	pdf.SetFont(textFont, "", 11)
	for _, line := range doc.Summary {
		pdf.MultiCell(0, 6, translate(line), "", "", false)
	}

	for _, s := range doc.Sections {
		pdf.Ln(4)
		pdf.SetFont(textFont, "B", 13)
		pdf.MultiCell(0, 8, translate(s.Heading), "", "", false)

		pdf.SetFont(codeFont, "", 8)
		_, lineHeight := pdf.GetFontSize()
		pdf.MultiCell(0, lineHeight*1.4, translate(s.Body), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
