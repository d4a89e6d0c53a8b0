package slack

import "github.com/gabriel-vasile/mimetype"

const fallbackImageType = "application/octet-stream"

// DetectImageType sniffs data and returns its MIME type and file extension.
func DetectImageType(data []byte) (string, string) {
	if len(data) == 0 {
		return fallbackImageType, ""
	}
	mt := mimetype.Detect(data)
	if mt == nil {
		return fallbackImageType, ""
	}
	return mt.String(), mt.Extension()
}

// Image is fetched emoji data with its type sniffed once. The same type is
// logged, reported and sent in the multipart part.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

func NewImage(data []byte) Image {
	ct, ext := DetectImageType(data)
	return Image{Data: data, ContentType: ct, Extension: ext}
}
