package validation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FileConstraints defines validation rules for uploaded content
type FileConstraints struct {
	AllowedMimeTypes map[string]string // mime type -> file extension
	MaxSize          int64
}

// ImageConstraints defines validation rules for outfit and wardrobe photos
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	},
	MaxSize: 5 << 20, // 5MB
}

// Image is a decoded data URI.
type Image struct {
	MimeType string
	Ext      string
	Data     []byte
}

var ErrImageRequired = errors.New("이미지를 첨부해주세요.")

// ParseImageDataURI decodes a "data:image/<type>;base64,<payload>" string
// and checks the decoded bytes against the constraints.
func ParseImageDataURI(uri string, constraints FileConstraints) (*Image, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, ErrImageRequired
	}

	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, errors.New("이미지는 base64 data URI 형식이어야 합니다.")
	}

	declared := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	if _, ok := constraints.AllowedMimeTypes[declared]; !ok {
		return nil, fmt.Errorf("지원하지 않는 이미지 형식입니다. (%s)", declared)
	}

	// Check size before decoding
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > constraints.MaxSize+2 {
		return nil, fmt.Errorf("이미지가 너무 큽니다. (최대 %dMB)", constraints.MaxSize/(1<<20))
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.New("이미지 데이터를 해석할 수 없습니다.")
	}
	if int64(len(data)) > constraints.MaxSize {
		return nil, fmt.Errorf("이미지가 너무 큽니다. (최대 %dMB)", constraints.MaxSize/(1<<20))
	}

	// Detect actual content type from the bytes; the declared type cannot be trusted
	detected := http.DetectContentType(data)
	ext, ok := constraints.AllowedMimeTypes[detected]
	if !ok || detected != declared {
		return nil, fmt.Errorf("이미지 내용이 형식과 일치하지 않습니다. (detected: %s)", detected)
	}

	return &Image{
		MimeType: detected,
		Ext:      ext,
		Data:     data,
	}, nil
}
