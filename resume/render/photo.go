package render

import (
	"bytes"
	"image"
	_ "image/jpeg" // register JPEG decoding for DecodeConfig
	_ "image/png"  // register PNG decoding for DecodeConfig

	"resume-pipeline/internal/apperr"
)

// Image is an optional profile picture supplied with the request.
type Image struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
}

type photo struct {
	data      []byte
	imageType string
	width     int
	height    int
}

// maxPhotoBytes keeps a profile picture from dominating the document size.
const maxPhotoBytes = 2 << 20

func decodePhoto(img *Image) (*photo, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, nil
	}
	if len(img.Data) > maxPhotoBytes {
		return nil, apperr.Validation("The profile image is too large. The maximum size is 2 MB.")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, apperr.Validation("The profile image could not be read. Use a PNG or JPEG file.")
	}
	var kind string
	switch format {
	case "png":
		kind = "PNG"
	case "jpeg":
		kind = "JPG"
	default:
		return nil, apperr.Validationf("Profile images must be PNG or JPEG, got %s.", format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, apperr.Validation("The profile image has no pixels.")
	}
	return &photo{data: img.Data, imageType: kind, width: cfg.Width, height: cfg.Height}, nil
}
