package totp

import (
	"github.com/lexcase/lexcase/pkg/qrcode"
)

// DefaultImageSize is the side length in pixels of enrollment images.
const DefaultImageSize = 256

// EnrollmentImage encodes uri as a QR code and returns it as a PNG data URL
// suitable for an <img src> attribute.
func EnrollmentImage(uri string, size int) (string, error) {
	if size <= 0 {
		size = DefaultImageSize
	}
	img, err := qrcode.GenerateBase64Image(uri, size)
	if err != nil {
		return "", ErrEnrollmentImage
	}
	return img, nil
}

// EnrollmentSVG encodes uri as a QR code and returns standalone SVG markup.
func EnrollmentSVG(uri string, size int) (string, error) {
	if size <= 0 {
		size = DefaultImageSize
	}
	svg, err := qrcode.GenerateSVG(uri, size)
	if err != nil {
		return "", ErrEnrollmentImage
	}
	return svg, nil
}
