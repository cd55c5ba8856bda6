package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when content string is empty or only whitespace
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrFailedToGenerate is returned when the underlying encoder fails.
	ErrFailedToGenerate = errors.New("failed to generate QR code")
)

const (
	// DefaultSize is the size in pixels used when no size is specified
	DefaultSize = 256

	// Level is the error correction level for every code this package renders.
	// Medium tolerates ~15% damage, enough for screens and printed letters.
	Level = skipqrcode.Medium
)

// encode validates content and builds the code with a standard 4-module border.
func encode(content string) (*skipqrcode.QRCode, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	q, err := skipqrcode.New(content, Level)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerate, err)
	}
	q.DisableBorder = false
	return q, nil
}

// Generate creates a QR code image in PNG format with the given content.
func Generate(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	q, err := encode(content)
	if err != nil {
		return nil, err
	}
	png, err := q.PNG(size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerate, err)
	}
	return png, nil
}

// GenerateBase64Image returns the PNG as a data URI usable in <img src="...">.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateSVG renders the code as standalone SVG markup of size x size pixels.
// Dark modules are emitted as a single path in module coordinates and scaled
// through the viewBox, so the output stays small and crisp at any zoom.
func GenerateSVG(content string, size int) (string, error) {
	if size <= 0 {
		size = DefaultSize
	}
	q, err := encode(content)
	if err != nil {
		return "", err
	}

	bitmap := q.Bitmap()
	modules := len(bitmap)

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		size, size, modules, modules,
	)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`, modules, modules)
	b.WriteString(`<path fill="#000000" d="`)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, "M%d %dh1v1h-1z", x, y)
			}
		}
	}
	b.WriteString(`"/></svg>`)

	return b.String(), nil
}
