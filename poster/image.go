package poster

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Register the decoders for the formats poster feeds actually serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var errNotAnImage = errors.New("payload is not a decodable image")

// validateImage confirms the payload decodes as an image before it is
// cached or handed to the presentation layer. Only the header is decoded,
// not the full pixel data.
func validateImage(body []byte) error {
	if len(body) == 0 {
		return errNotAnImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", errNotAnImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errNotAnImage
	}
	return nil
}
