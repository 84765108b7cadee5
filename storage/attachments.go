// Package storage keeps uploaded files on local disk and hands out the references
// stored on messages and profiles.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"wegetchat/domain"
	"wegetchat/domain/mimetypes"
	"wegetchat/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is the public path uploaded files are served under.
const URLPrefix = "/uploads/"

// AttachmentStore writes uploads as <unixMillis>-<uuid><ext> inside dir.
type AttachmentStore struct {
	log      *slog.Logger
	dir      string
	maxBytes int64
	now      domain.Clock
	newID    domain.IDGenerator
}

func NewAttachmentStore(log *slog.Logger, dir string, maxBytes int64) (*AttachmentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &AttachmentStore{
		log:      log,
		dir:      dir,
		maxBytes: maxBytes,
		now:      domain.SystemClock,
		newID:    func() string { return uuid.New().String() },
	}, nil
}

func (a *AttachmentStore) Dir() string { return a.dir }

// Save stores any file and returns the attachment reference for a message.
func (a *AttachmentStore) Save(originalName string, r io.Reader) (domain.Attachment, error) {
	url, _, err := a.write(originalName, r)
	if err != nil {
		return domain.Attachment{}, err
	}
	return domain.Attachment{URL: url, Name: filepath.Base(originalName)}, nil
}

// SavePicture stores a profile picture, rejecting anything not detected as an image.
func (a *AttachmentStore) SavePicture(originalName string, r io.Reader) (string, error) {
	data, err := a.readLimited(r)
	if err != nil {
		return "", err
	}
	detected := mimetype.Detect(data)
	if !mimetypes.IsImage(detected.String()) {
		a.log.Debug("Rejected profile picture", "detected", detected.String())
		return "", errors.ErrInvalidPicture
	}
	url, _, err := a.write(originalName, bytes.NewReader(data))
	return url, err
}

// Remove deletes a file previously returned by Save or SavePicture. Unknown urls are ignored.
func (a *AttachmentStore) Remove(url string) {
	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return
	}
	if err := os.Remove(filepath.Join(a.dir, name)); err != nil && !os.IsNotExist(err) {
		a.log.Warn("Could not remove upload", "name", name, "err", err)
	}
}

func (a *AttachmentStore) write(originalName string, r io.Reader) (string, *mimetype.MIME, error) {
	data, err := a.readLimited(r)
	if err != nil {
		return "", nil, err
	}
	detected := mimetype.Detect(data)

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = detected.Extension()
	}
	name := fmt.Sprintf("%d-%s%s", a.now().UnixMilli(), a.newID(), ext)

	if err := os.WriteFile(filepath.Join(a.dir, name), data, 0o644); err != nil {
		a.log.Error("Could not write upload", "name", name, "err", err)
		return "", nil, errors.ErrInvalidAttachment.Wrap(err)
	}
	a.log.Debug("Upload stored", "name", name, "bytes", len(data), "mime", detected.String())
	return URLPrefix + name, detected, nil
}

func (a *AttachmentStore) readLimited(r io.Reader) ([]byte, error) {
	if a.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.ErrInvalidAttachment.Wrap(err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, a.maxBytes+1))
	if err != nil {
		return nil, errors.ErrInvalidAttachment.Wrap(err)
	}
	if int64(len(data)) > a.maxBytes {
		return nil, errors.ErrFileTooLarge
	}
	return data, nil
}
