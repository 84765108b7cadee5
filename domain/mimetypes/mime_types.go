package mimetypes

import (
	"mime"
	"strings"
)

type MIME string

const (
	Unknown          MIME = "unknown"
	ApplicationOctet MIME = "application/octet-stream"
	ImagePNG         MIME = "image/png"
	ImageJPEG        MIME = "image/jpeg"
	ImageGIF         MIME = "image/gif"
	ImageWebP        MIME = "image/webp"
)

const imagePrefix = "image/"

// Matches reports whether a detected content type, parameters included, is the expected one.
func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// IsImage reports whether a detected content type belongs to the image family.
func IsImage(detected string) bool {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, imagePrefix)
}

// IsRasterImage reports whether a detected content type is an image browsers render without
// executing anything. SVG is excluded.
func IsRasterImage(detected string) bool {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return false
	}
	switch MIME(mt) {
	case ImagePNG, ImageJPEG, ImageGIF, ImageWebP:
		return true
	}
	return false
}
