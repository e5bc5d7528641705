package filemgr

import "errors"

type PictureType string

const (
	PicPhoto PictureType = "photo"
	PicThumb PictureType = "thumb"
)

const (
	// MaxUploadBytes bounds a single uploaded photo before processing.
	MaxUploadBytes int64 = 10 << 20
	// MaxDimension is the longest side a stored photo may have.
	MaxDimension = 1920
	// TargetBytes is the size Normalize tries to bring photos under.
	TargetBytes = 1 << 20
)

var (
	AllowedExtensions = map[PictureType][]string{
		PicPhoto: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
		PicThumb: {".jpg", ".jpeg"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicPhoto: {"image/jpeg", "image/png", "image/gif", "image/webp"},
		PicThumb: {"image/jpeg"},
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrEmptyFile        = errors.New("empty file")
)
