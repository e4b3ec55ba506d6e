package model

// Supported upload MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// ImageVariantConfig describes one derived image size.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool
}

// ImageVariants are the derived sizes generated for every crop image:
// a square thumbnail for admin listings and a card image for the catalog.
var ImageVariants = map[string]ImageVariantConfig{
	"thumbnail": {Width: 240, Height: 240, Quality: 80, Crop: true},
	"card":      {Width: 800, Height: 600, Quality: 85, Crop: false},
}

// IsSupportedMimeType reports whether uploads of this type are accepted.
func IsSupportedMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	}
	return false
}
