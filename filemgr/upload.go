package filemgr

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadFile reads one multipart file, checks its extension and sniffed MIME type against
// picType and enforces maxSize.
func ReadFile(header *multipart.FileHeader, picType PictureType, maxSize int64) (File, error) {
	f, err := header.Open()
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", header.Filename, err)
	}
	defer f.Close()
	return Read(f, header.Filename, header.Header.Get("Content-Type"), picType, maxSize)
}

// Read is ReadFile for an arbitrary reader. declaredType is used only when sniffing
// cannot tell the type.
func Read(r io.Reader, name, declaredType string, picType PictureType, maxSize int64) (File, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !isExtensionAllowed(ext, picType) {
		return File{}, fmt.Errorf("%w: %s for %s", ErrInvalidExtension, ext, picType)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return File{}, ErrEmptyFile
	}
	if int64(len(data)) > maxSize {
		return File{}, ErrFileTooLarge
	}

	mimeType := http.DetectContentType(data)
	if mimeType == "application/octet-stream" && declaredType != "" {
		mimeType = declaredType
	}
	if !isMIMEAllowed(mimeType, picType) {
		return File{}, fmt.Errorf("%w: %s for %s", ErrInvalidMIME, mimeType, picType)
	}

	return File{Name: SafeName(name), ContentType: mimeType, Data: data}, nil
}

// Reader returns a fresh reader over the file contents.
func (f File) Reader() *bytes.Reader {
	return bytes.NewReader(f.Data)
}
