package test

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/require"
)

// PDF returns a valid single page PDF with the given text, for tests
// that need real document payloads.
func PDF(t *testing.T, text string) []byte {
	document := gofpdf.New("P", "mm", "A4", "")
	document.AddPage()
	document.SetFont("Arial", "", 12)
	document.Cell(0, 10, text)

	var buf bytes.Buffer
	err := document.Output(&buf)
	require.Nil(t, err)

	return buf.Bytes()
}
