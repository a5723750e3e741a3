package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Upload directories, one per record kind and attachment kind. The paths are
// served statically under the same names.
const (
	DirGsnFiles    = "gsnfiles"
	DirGsnPhotos   = "gsnPhotos"
	DirGrinFiles   = "files"
	DirGrinPhotos  = "Entryphotos"
	thumbDirSuffix = "thumbs"
)

// MaxUploadSize caps individual uploads at 5MB.
const MaxUploadSize = 5 << 20

var (
	ErrNotImage = errors.New("invalid file type: only JPG, JPEG, PNG, and GIF images are allowed")
	ErrTooLarge = errors.New("file exceeds the 5MB upload limit")
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// FileStore writes uploads to local disk under randomized names.
type FileStore struct {
	baseDir string
}

// NewFileStore creates the upload directory tree under baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	for _, dir := range []string{DirGsnFiles, DirGsnPhotos, DirGrinFiles, DirGrinPhotos} {
		if err := os.MkdirAll(filepath.Join(baseDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
		}
		if err := os.MkdirAll(filepath.Join(baseDir, dir, thumbDirSuffix), 0o755); err != nil {
			return nil, fmt.Errorf("create thumbnail dir for %s: %w", dir, err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// BaseDir returns the root of the upload tree.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}

// SaveDocument stores an arbitrary attachment (a scanned bill, usually) and
// returns its path relative to the base directory.
func (s *FileStore) SaveDocument(fh *multipart.FileHeader, dir string) (string, error) {
	if fh.Size > MaxUploadSize {
		return "", ErrTooLarge
	}
	return s.save(fh, dir)
}

// SavePhoto stores an image attachment. Non-image uploads are rejected by
// MIME type and extension, and a thumbnail is written next to the original.
func (s *FileStore) SavePhoto(fh *multipart.FileHeader, dir string) (string, error) {
	if fh.Size > MaxUploadSize {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") || !allowedImageExts[ext] {
		return "", ErrNotImage
	}

	relPath, err := s.save(fh, dir)
	if err != nil {
		return "", err
	}

	absPath := filepath.Join(s.baseDir, relPath)
	img, err := imaging.Open(absPath)
	if err != nil {
		os.Remove(absPath)
		return "", ErrNotImage
	}

	// 320px wide preview for the register tables.
	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	thumbPath := filepath.Join(s.baseDir, dir, thumbDirSuffix, filepath.Base(relPath))
	if err := imaging.Save(thumb, thumbPath); err != nil {
		// The original is already stored; a missing preview is tolerable.
		return relPath, nil
	}
	return relPath, nil
}

// Remove deletes a stored file by its relative path.
func (s *FileStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.baseDir, relPath))
}

func (s *FileStore) save(fh *multipart.FileHeader, dir string) (string, error) {
	name, err := randomName(fh.Filename)
	if err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	relPath := filepath.Join(dir, name)
	dst, err := os.Create(filepath.Join(s.baseDir, relPath))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filepath.Join(s.baseDir, relPath))
		return "", err
	}
	return filepath.ToSlash(relPath), nil
}

// randomName keeps the original extension on a 16-byte hex name, the same
// scheme the previous uploads on disk already use.
func randomName(original string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf) + filepath.Ext(original), nil
}
