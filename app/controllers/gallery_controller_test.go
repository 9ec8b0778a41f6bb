package controllers_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themelissanyc/melissa/app/models"
	"github.com/themelissanyc/melissa/pkg/storage"
)

// memDisk keeps uploads in memory so gallery tests never touch the filesystem.
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

func (d *memDisk) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.files)
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n0000000000")

// doUpload posts a multipart gallery upload with the given metadata fields.
func (e *testEnv) doUpload(t *testing.T, token string, image []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if image != nil {
		part, err := w.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/gallery/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func seedGalleryItem(t *testing.T, env *testEnv, title, category string, active bool, sortOrder int) *models.GalleryItem {
	t.Helper()

	item := &models.GalleryItem{
		Title:     title,
		ImageURL:  "/uploads/" + title + ".jpg",
		Category:  category,
		IsActive:  active,
		SortOrder: sortOrder,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, env.gallery.Create(context.Background(), item))
	return item
}

func TestGalleryPublicIndexActiveSorted(t *testing.T) {
	env := newTestEnv(t)
	seedGalleryItem(t, env, "rooftop", "rooftop", true, 2)
	seedGalleryItem(t, env, "lobby", "lobby", true, 1)
	seedGalleryItem(t, env, "hidden", "amenities", false, 0)

	rec := env.do(t, http.MethodGet, "/api/gallery/public", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeList(t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "lobby", items[0]["title"])
	assert.Equal(t, "rooftop", items[1]["title"])
}

func TestGalleryPublicIndexCategoryFilter(t *testing.T) {
	env := newTestEnv(t)
	seedGalleryItem(t, env, "rooftop", "rooftop", true, 0)
	seedGalleryItem(t, env, "lobby", "lobby", true, 0)

	rec := env.do(t, http.MethodGet, "/api/gallery/public?category=lobby", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeList(t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "lobby", items[0]["title"])
}

func TestGalleryAdminIndexFilters(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	seedGalleryItem(t, env, "rooftop", "rooftop", true, 0)
	seedGalleryItem(t, env, "hidden", "lobby", false, 0)

	rec := env.do(t, http.MethodGet, "/api/gallery?isActive=false", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeMap(t, rec)
	assert.Equal(t, true, got["success"])

	items := got["galleryItems"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "hidden", items[0].(map[string]interface{})["title"])
}

func TestGalleryAdminRoutesAreGated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/gallery", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGalleryUpload(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	disk := newMemDisk()
	storage.Register("local", disk)

	rec := env.doUpload(t, token, pngBytes, map[string]string{
		"title":     "Sunset from the roof",
		"category":  "rooftop",
		"sortOrder": "3",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "Gallery image uploaded successfully", got["message"])

	item := got["galleryItem"].(map[string]interface{})
	assert.Equal(t, "Sunset from the roof", item["title"])
	assert.Equal(t, "rooftop", item["category"])
	assert.Equal(t, float64(3), item["sortOrder"])
	assert.Equal(t, true, item["isActive"])
	assert.Equal(t, 1, disk.count())
}

func TestGalleryUploadDefaults(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	storage.Register("local", newMemDisk())

	rec := env.doUpload(t, token, pngBytes, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	item := decodeMap(t, rec)["galleryItem"].(map[string]interface{})
	assert.Equal(t, "Gallery Image", item["title"])
	assert.Equal(t, models.DefaultGalleryCategory, item["category"])
}

func TestGalleryUploadMissingFile(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	storage.Register("local", newMemDisk())

	rec := env.doUpload(t, token, nil, map[string]string{"title": "No photo"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "No image file provided", got["message"])
}

func TestGalleryUploadBadCategoryDiscardsFile(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	disk := newMemDisk()
	storage.Register("local", disk)

	rec := env.doUpload(t, token, pngBytes, map[string]string{"category": "parking-garage"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeMap(t, rec)["errors"], "`parking-garage` is not a valid enum value for path `category`.")
	// The stored file was cleaned up along with the rejected document.
	assert.Equal(t, 0, disk.count())
	assert.Empty(t, env.gallery.items)
}

func TestGalleryUpdate(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	item := seedGalleryItem(t, env, "rooftop", "rooftop", true, 0)

	rec := env.do(t, http.MethodPut, "/api/gallery/"+item.ID.Hex(), token, map[string]interface{}{
		"title":    "Rooftop at dusk",
		"isActive": false,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, "Gallery item updated successfully", got["message"])

	updated := got["galleryItem"].(map[string]interface{})
	assert.Equal(t, "Rooftop at dusk", updated["title"])
	assert.Equal(t, false, updated["isActive"])
	assert.Equal(t, "rooftop", updated["category"])
}

func TestGalleryUpdateRejectsUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	item := seedGalleryItem(t, env, "rooftop", "rooftop", true, 0)

	rec := env.do(t, http.MethodPut, "/api/gallery/"+item.ID.Hex(), token, map[string]interface{}{
		"category": "parking-garage",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The rejected edit must not stick.
	stored, err := env.gallery.FindByID(context.Background(), item.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "rooftop", stored.Category)
}

func TestGalleryDelete(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	item := seedGalleryItem(t, env, "rooftop", "rooftop", true, 0)

	rec := env.do(t, http.MethodDelete, "/api/gallery/"+item.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gallery item deleted successfully", decodeMap(t, rec)["message"])

	rec = env.do(t, http.MethodDelete, "/api/gallery/"+item.ID.Hex(), token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Gallery item not found", decodeMap(t, rec)["message"])
}
