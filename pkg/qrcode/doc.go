// Package qrcode renders short payloads, such as otpauth:// enrollment URIs,
// as QR codes.
//
// Every code is built by github.com/skip2/go-qrcode at Medium error
// correction with the standard quiet zone. Three output forms are provided:
//
//   - Generate returns raw PNG bytes.
//   - GenerateBase64Image returns a data:image/png;base64 URI for <img src>.
//   - GenerateSVG returns standalone SVG markup built from the module bitmap.
//
// A size of zero or less falls back to DefaultSize.
//
// # Usage
//
//	import "github.com/lexcase/lexcase/pkg/qrcode"
//
//	dataURI, err := qrcode.GenerateBase64Image(uri, 256)
//	if err != nil {
//		// handle error
//	}
//
//	svg, err := qrcode.GenerateSVG(uri, 256)
//
// # Error Handling
//
//   - ErrEmptyContent: the content argument was empty or whitespace.
//   - ErrFailedToGenerate: the encoder rejected the content, joined with the
//     underlying error.
package qrcode
