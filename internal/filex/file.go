// Package filex holds local file helpers for uploads and exports.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
)

// EnsureSubdDir creates dirName under the working directory if missing and
// returns its absolute path. An absolute dirName is used as is.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadAttachment loads path as a multipart attachment. The media type is
// sniffed from the content, not taken from the extension.
func ReadAttachment(path string) (*models.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	mt := mimetype.Detect(data)
	return &models.Attachment{
		Filename:    filepath.Base(path),
		ContentType: mt.String(),
		Data:        data,
	}, nil
}
