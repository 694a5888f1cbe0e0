package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// MaxAvatarWidth is the widest avatar kept; larger JPEG/PNG uploads are
// scaled down.
const MaxAvatarWidth = 512

var avatarTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var (
	ErrUnsupportedExtension = errors.New("unsupported image extension")
	ErrContentMismatch      = errors.New("file content does not match its extension")
)

// Avatar is an upload ready to be stored.
type Avatar struct {
	Key         string
	ContentType string
	Data        []byte
}

// AvatarExtension returns the lower-cased extension of filename when it is
// an accepted image type.
func AvatarExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := avatarTypes[ext]; !ok {
		return "", ErrUnsupportedExtension
	}
	return ext, nil
}

// AvatarKey is the server-chosen object key for a new avatar.
func AvatarKey(ext string, now time.Time) string {
	return fmt.Sprintf("avatars/avatar-%d-%s%s", now.UnixMilli(), uuid.NewString()[:8], ext)
}

// PrepareAvatar checks that data really is the image type its filename
// claims and downsizes wide JPEG and PNG images.
func PrepareAvatar(filename string, data []byte, now time.Time) (*Avatar, error) {
	ext, err := AvatarExtension(filename)
	if err != nil {
		return nil, err
	}
	want := avatarTypes[ext]
	if detected := mimetype.Detect(data); !detected.Is(want) {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrContentMismatch, detected.String(), want)
	}

	out := data
	switch want {
	case "image/jpeg", "image/png":
		out, err = downscale(data, want)
		if err != nil {
			return nil, err
		}
	}

	return &Avatar{Key: AvatarKey(ext, now), ContentType: want, Data: out}, nil
}

func downscale(data []byte, contentType string) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentMismatch, err)
	}
	if cfg.Width <= MaxAvatarWidth {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentMismatch, err)
	}
	// Height 0 preserves the aspect ratio.
	resized := resize.Resize(MaxAvatarWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if contentType == "image/png" {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
