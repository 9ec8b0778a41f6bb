package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themelissanyc/melissa/pkg/storage"
)

// memDisk keeps stored files in a map so tests never touch the filesystem.
type memDisk struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemDisk() *memDisk { return &memDisk{files: map[string][]byte{}} }

func (d *memDisk) Put(_ context.Context, path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.files[path] = data
	d.mu.Unlock()
	return nil
}

func (d *memDisk) Open(_ context.Context, path string) (io.ReadCloser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (d *memDisk) Exists(_ context.Context, path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.files[path]
	return ok
}

func (d *memDisk) Delete(_ context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, path)
	return nil
}

func (d *memDisk) URL(path string) string { return "/uploads/" + path }

var pngBytes = []byte("\x89PNG\r\n\x1a\n0000000000")

func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func setupDisk(t *testing.T) *memDisk {
	t.Helper()
	disk := newMemDisk()
	storage.Register("local", disk)
	return disk
}

func TestSingleStoresPNG(t *testing.T) {
	disk := setupDisk(t)

	body, contentType := multipartBody(t, "image", map[string][]byte{"photo.png": pngBytes})
	r := httptest.NewRequest("POST", "/api/units/upload-image", body)
	r.Header.Set("Content-Type", contentType)

	file, err := Single(r, "image")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(file.Filename, ".png"))
	assert.Equal(t, "/uploads/"+file.Filename, file.URL)
	assert.True(t, disk.Exists(context.Background(), file.Filename))
}

func TestSingleRenamesFile(t *testing.T) {
	setupDisk(t)

	body, contentType := multipartBody(t, "image", map[string][]byte{"../escape.png": pngBytes})
	r := httptest.NewRequest("POST", "/api/units/upload-image", body)
	r.Header.Set("Content-Type", contentType)

	file, err := Single(r, "image")
	require.NoError(t, err)

	assert.NotContains(t, file.Filename, "escape")
	assert.NotContains(t, file.Filename, "..")
}

func TestSingleRejectsDisallowedExtension(t *testing.T) {
	setupDisk(t)

	body, contentType := multipartBody(t, "image", map[string][]byte{"script.exe": pngBytes})
	r := httptest.NewRequest("POST", "/api/units/upload-image", body)
	r.Header.Set("Content-Type", contentType)

	_, err := Single(r, "image")

	var reject *RejectError
	require.ErrorAs(t, err, &reject)
	assert.Contains(t, reject.Reason, "image files")
}

func TestSingleRejectsMismatchedContent(t *testing.T) {
	setupDisk(t)

	// .png extension but plain-text payload.
	body, contentType := multipartBody(t, "image", map[string][]byte{"fake.png": []byte("just text, no image here")})
	r := httptest.NewRequest("POST", "/api/units/upload-image", body)
	r.Header.Set("Content-Type", contentType)

	_, err := Single(r, "image")

	var reject *RejectError
	require.ErrorAs(t, err, &reject)
}

func TestSingleNoFile(t *testing.T) {
	setupDisk(t)

	body, contentType := multipartBody(t, "other", map[string][]byte{"photo.png": pngBytes})
	r := httptest.NewRequest("POST", "/api/units/upload-image", body)
	r.Header.Set("Content-Type", contentType)

	_, err := Single(r, "image")
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestMultipleStoresAll(t *testing.T) {
	disk := setupDisk(t)

	body, contentType := multipartBody(t, "images", map[string][]byte{
		"a.png": pngBytes,
		"b.png": pngBytes,
		"c.png": pngBytes,
	})
	r := httptest.NewRequest("POST", "/api/units/upload-images", body)
	r.Header.Set("Content-Type", contentType)

	files, err := Multiple(r, "images", 10)
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, f := range files {
		assert.True(t, disk.Exists(context.Background(), f.Filename))
	}
}

func TestMultipleOverLimit(t *testing.T) {
	setupDisk(t)

	payload := map[string][]byte{}
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		payload[name] = pngBytes
	}
	body, contentType := multipartBody(t, "images", payload)
	r := httptest.NewRequest("POST", "/api/units/upload-images", body)
	r.Header.Set("Content-Type", contentType)

	_, err := Multiple(r, "images", 2)

	var reject *RejectError
	require.ErrorAs(t, err, &reject)
	assert.Contains(t, reject.Reason, "max 2")
}
