// Package upload receives multipart image uploads, validates them, and
// writes them to the configured storage disk.
//
// Files are renamed to "<unix-nano>-<8 random hex>.<ext>" so original
// filenames never reach the filesystem or the URL space.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/themelissanyc/melissa/config"
	"github.com/themelissanyc/melissa/pkg/metrics"
	"github.com/themelissanyc/melissa/pkg/storage"
)

// ErrNoFile means the request carried no file under the expected field.
var ErrNoFile = errors.New("upload: no file provided")

// RejectError marks an upload the client must fix (bad type, too large).
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string { return e.Reason }

// File describes a stored upload.
type File struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Image extensions the gallery and unit endpoints accept, with the sniffed
// content types each may carry.
var allowedTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
}

// Single stores one image from the named form field.
func Single(r *http.Request, field string) (*File, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, ErrNoFile
	}

	return store(r, headers[0])
}

// Multiple stores up to max images from the named form field.
func Multiple(r *http.Request, field string, max int) ([]*File, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, ErrNoFile
	}
	if len(headers) > max {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, &RejectError{Reason: fmt.Sprintf("Too many files (max %d)", max)}
	}

	files := make([]*File, 0, len(headers))
	for _, h := range headers {
		f, err := store(r, h)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func parseForm(r *http.Request) error {
	// Allow headroom for the multipart framing around the per-file cap.
	limit := config.UploadMaxBytes()*12 + 1<<20
	r.Body = http.MaxBytesReader(nil, r.Body, limit)

	if err := r.ParseMultipartForm(config.UploadMaxBytes()); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &RejectError{Reason: "Upload too large"}
		}
		return fmt.Errorf("upload: parse multipart form: %w", err)
	}
	return nil
}

func store(r *http.Request, header *multipart.FileHeader) (*File, error) {
	if header.Size > config.UploadMaxBytes() {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, &RejectError{
			Reason: fmt.Sprintf("File too large (max %d bytes)", config.UploadMaxBytes()),
		}
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	mimes, ok := allowedTypes[ext]
	if !ok {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, &RejectError{Reason: "Only image files are allowed (jpg, jpeg, png, gif, webp)"}
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("upload: open %s: %w", header.Filename, err)
	}
	defer src.Close()

	// Sniff the real content type; the extension alone is client-controlled.
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("upload: read %s: %w", header.Filename, err)
	}
	if !mimeAllowed(http.DetectContentType(head[:n]), mimes) {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, &RejectError{Reason: "File content does not match an allowed image type"}
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("upload: rewind %s: %w", header.Filename, err)
	}

	name := randomName(ext)
	disk := storage.Default()
	if err := disk.Put(r.Context(), name, src); err != nil {
		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	return &File{Filename: name, URL: disk.URL(name)}, nil
}

func mimeAllowed(detected string, allowed []string) bool {
	for _, m := range allowed {
		if detected == m {
			return true
		}
	}
	return false
}

func randomName(ext string) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), hex.EncodeToString(b), ext)
}
