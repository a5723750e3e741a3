package storage

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// makeFileHeader builds a real multipart.FileHeader by round-tripping the
// content through an HTTP request.
func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("part write: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestSaveDocumentRandomizesNameKeepsExtension(t *testing.T) {
	store := newTestStore(t)
	fh := makeFileHeader(t, "invoice copy.pdf", "application/pdf", []byte("%PDF-1.4 test"))

	relPath, err := store.SaveDocument(fh, DirGsnFiles)
	if err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	if !strings.HasPrefix(relPath, DirGsnFiles+"/") {
		t.Errorf("path %q not under %s/", relPath, DirGsnFiles)
	}
	base := filepath.Base(relPath)
	if !strings.HasSuffix(base, ".pdf") {
		t.Errorf("extension not preserved: %q", base)
	}
	if name := strings.TrimSuffix(base, ".pdf"); len(name) != 32 {
		t.Errorf("expected 32 hex chars, got %q", name)
	}
	if base == "invoice copy.pdf" {
		t.Error("original filename must not be reused")
	}

	data, err := os.ReadFile(filepath.Join(store.BaseDir(), relPath))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "%PDF-1.4 test" {
		t.Errorf("stored content mismatch: %q", data)
	}
}

func TestSaveDocumentRejectsOversizedUpload(t *testing.T) {
	store := newTestStore(t)
	fh := makeFileHeader(t, "big.pdf", "application/pdf", make([]byte, MaxUploadSize+1))

	if _, err := store.SaveDocument(fh, DirGsnFiles); err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestSavePhotoStoresImageAndThumbnail(t *testing.T) {
	store := newTestStore(t)
	fh := makeFileHeader(t, "truck.png", "image/png", pngBytes(t))

	relPath, err := store.SavePhoto(fh, DirGsnPhotos)
	if err != nil {
		t.Fatalf("SavePhoto: %v", err)
	}

	if _, err := os.Stat(filepath.Join(store.BaseDir(), relPath)); err != nil {
		t.Fatalf("original missing: %v", err)
	}
	thumbPath := filepath.Join(store.BaseDir(), DirGsnPhotos, "thumbs", filepath.Base(relPath))
	if _, err := os.Stat(thumbPath); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}
}

func TestSavePhotoRejectsNonImageUploads(t *testing.T) {
	store := newTestStore(t)

	cases := []struct {
		name        string
		filename    string
		contentType string
		content     []byte
	}{
		{"wrong mime", "notes.txt", "text/plain", []byte("hello")},
		{"wrong extension", "photo.bmp", "image/bmp", pngBytes(t)},
		{"forged image", "fake.png", "image/png", []byte("not a png at all")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fh := makeFileHeader(t, tc.filename, tc.contentType, tc.content)
			if _, err := store.SavePhoto(fh, DirGsnPhotos); err != ErrNotImage {
				t.Fatalf("expected ErrNotImage, got %v", err)
			}
		})
	}

	// A rejected upload leaves nothing on disk.
	entries, err := os.ReadDir(filepath.Join(store.BaseDir(), DirGsnPhotos))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			t.Errorf("unexpected leftover file %q", e.Name())
		}
	}
}

func TestRemoveIgnoresEmptyPath(t *testing.T) {
	store := newTestStore(t)
	if err := store.Remove(""); err != nil {
		t.Fatalf("Remove(\"\") should be a no-op, got %v", err)
	}
}
