package clip

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"studyboard/internal/board"
)

var (
	ErrNotDataURL       = errors.New("not a base64 image data URL")
	ErrUnsupportedImage = errors.New("unsupported image data")
)

// EncodeDataURL validates an image item and embeds it as a data URL. The
// MIME type comes from the decoded header, not from the clipboard label.
func EncodeDataURL(item board.ClipboardItem) (string, error) {
	if len(item.Data) == 0 {
		return "", fmt.Errorf("%s: %w", item.Type, ErrUnsupportedImage)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(item.Data))
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", item.Type, ErrUnsupportedImage, err)
	}
	return "data:" + mimeForFormat(format) + ";base64," + base64.StdEncoding.EncodeToString(item.Data), nil
}

// DecodeDataURL splits a base64 image data URL into its MIME type and bytes.
func DecodeDataURL(url string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(url), "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	mediaType, ok := strings.CutSuffix(header, ";base64")
	if !ok || !strings.HasPrefix(mediaType, "image/") {
		return "", nil, ErrNotDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	return mediaType, data, nil
}

func DecodeImage(url string) (image.Image, error) {
	_, data, err := DecodeDataURL(url)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}

func mimeForFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "bmp":
		return "image/bmp"
	}
	return "image/" + format
}
