package advisor

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// supportedImageMIME lists the formats every provider accepts inline.
var supportedImageMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// SniffImageMIME detects the image type from its leading bytes.
func SniffImageMIME(b []byte) (string, error) {
	if len(b) == 0 {
		return "", fmt.Errorf("empty image")
	}
	mime := http.DetectContentType(b)
	if !supportedImageMIME[mime] {
		return "", fmt.Errorf("unsupported image type %s (need jpeg, png, webp or gif)", mime)
	}
	return mime, nil
}

// DecodeImage accepts raw base64 or a data: URL and returns the bytes.
func DecodeImage(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		s = s[idx+1:]
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid image base64: %w", err)
	}
	return b, nil
}
