package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/themelissanyc/melissa/app/controllers"
	"github.com/themelissanyc/melissa/app/models"
	"github.com/themelissanyc/melissa/app/repositories"
	"github.com/themelissanyc/melissa/app/routes"
	"github.com/themelissanyc/melissa/app/services"
	"github.com/themelissanyc/melissa/config"
	"github.com/themelissanyc/melissa/pkg/auth"
	"github.com/themelissanyc/melissa/pkg/router"
)

// fakeUserRepo keeps accounts in memory.
type fakeUserRepo struct {
	mu    sync.Mutex
	users []*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	user.ID = u.ID
	f.users = append(f.users, &u)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID.Hex() == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) FindByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == identifier || u.Username == identifier {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.users[:0]
	for _, u := range f.users {
		if u.ID.Hex() != id {
			kept = append(kept, u)
		}
	}
	f.users = kept
}

// fakeUnitRepo keeps listings in memory, insertion order preserved.
type fakeUnitRepo struct {
	mu    sync.Mutex
	units []*models.Unit
}

func (f *fakeUnitRepo) Available(_ context.Context) ([]models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Unit{}
	for i := len(f.units) - 1; i >= 0; i-- {
		if f.units[i].Available {
			out = append(out, *f.units[i])
		}
	}
	return out, nil
}

func (f *fakeUnitRepo) All(_ context.Context) ([]models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Unit{}
	for i := len(f.units) - 1; i >= 0; i-- {
		out = append(out, *f.units[i])
	}
	return out, nil
}

func (f *fakeUnitRepo) FindByID(_ context.Context, id string) (*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locked(id)
}

func (f *fakeUnitRepo) locked(id string) (*models.Unit, error) {
	for _, u := range f.units {
		if u.ID.Hex() == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUnitRepo) FindAvailableByID(_ context.Context, id string) (*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.locked(id)
	if err != nil || !u.Available {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (f *fakeUnitRepo) Create(_ context.Context, unit *models.Unit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *unit
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	unit.ID = u.ID
	f.units = append(f.units, &u)
	return nil
}

func (f *fakeUnitRepo) Update(_ context.Context, unit *models.Unit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.units {
		if u.ID == unit.ID {
			copied := *unit
			f.units[i] = &copied
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeUnitRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.units {
		if u.ID.Hex() == id {
			f.units = append(f.units[:i], f.units[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeUnitRepo) AppendImages(_ context.Context, id string, urls []string) (*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.units {
		if u.ID.Hex() == id {
			u.Images = append(u.Images, urls...)
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUnitRepo) RemoveImage(_ context.Context, id string, index int) (string, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.units {
		if u.ID.Hex() == id {
			if index < 0 || index >= len(u.Images) {
				return "", 0, repositories.ErrIndexOutOfRange
			}
			removed := u.Images[index]
			u.Images = append(u.Images[:index], u.Images[index+1:]...)
			return removed, len(u.Images), nil
		}
	}
	return "", 0, repositories.ErrNotFound
}

// fakeContactRepo keeps inquiries in memory.
type fakeContactRepo struct {
	mu       sync.Mutex
	contacts []*models.Contact
}

func (f *fakeContactRepo) Create(_ context.Context, contact *models.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *contact
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	contact.ID = c.ID
	f.contacts = append(f.contacts, &c)
	return nil
}

func (f *fakeContactRepo) List(_ context.Context, status string, page, limit int) ([]models.Contact, repositories.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	matched := []models.Contact{}
	for i := len(f.contacts) - 1; i >= 0; i-- {
		if status == "" || f.contacts[i].Status == status {
			matched = append(matched, *f.contacts[i])
		}
	}

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	pagination := repositories.Pagination{
		Page:  page,
		Limit: limit,
		Total: int64(total),
		Pages: (total + limit - 1) / limit,
	}
	return matched[start:end], pagination, nil
}

func (f *fakeContactRepo) FindByID(_ context.Context, id string) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contacts {
		if c.ID.Hex() == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeContactRepo) Update(_ context.Context, contact *models.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.contacts {
		if c.ID == contact.ID {
			copied := *contact
			f.contacts[i] = &copied
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeContactRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.contacts {
		if c.ID.Hex() == id {
			f.contacts = append(f.contacts[:i], f.contacts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// fakeGalleryRepo keeps gallery items in memory.
type fakeGalleryRepo struct {
	mu    sync.Mutex
	items []*models.GalleryItem
}

func (f *fakeGalleryRepo) sorted(filter func(*models.GalleryItem) bool) []models.GalleryItem {
	out := []models.GalleryItem{}
	for _, it := range f.items {
		if filter(it) {
			out = append(out, *it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f *fakeGalleryRepo) Active(_ context.Context, category string) ([]models.GalleryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(it *models.GalleryItem) bool {
		return it.IsActive && (category == "" || it.Category == category)
	}), nil
}

func (f *fakeGalleryRepo) List(_ context.Context, category string, isActive *bool) ([]models.GalleryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(it *models.GalleryItem) bool {
		if category != "" && it.Category != category {
			return false
		}
		if isActive != nil && it.IsActive != *isActive {
			return false
		}
		return true
	}), nil
}

func (f *fakeGalleryRepo) Create(_ context.Context, item *models.GalleryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := *item
	if it.ID.IsZero() {
		it.ID = primitive.NewObjectID()
	}
	item.ID = it.ID
	f.items = append(f.items, &it)
	return nil
}

func (f *fakeGalleryRepo) FindByID(_ context.Context, id string) (*models.GalleryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID.Hex() == id {
			copied := *it
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeGalleryRepo) Update(_ context.Context, item *models.GalleryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == item.ID {
			copied := *item
			f.items[i] = &copied
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeGalleryRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID.Hex() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// testEnv bundles the API handler with the fakes behind it.
type testEnv struct {
	handler  http.Handler
	users    *fakeUserRepo
	units    *fakeUnitRepo
	contacts *fakeContactRepo
	gallery  *fakeGalleryRepo
	notify   *services.NotifyService
}

// newTestEnv mounts the full route table over in-memory repositories, so
// requests pass through the real auth middleware and role gate.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	config.Set("JWT_SECRET", "test-secret")
	t.Cleanup(func() { config.Set("JWT_SECRET", "") })

	env := &testEnv{
		users:    &fakeUserRepo{},
		units:    &fakeUnitRepo{},
		contacts: &fakeContactRepo{},
		gallery:  &fakeGalleryRepo{},
		notify:   services.NewNotifyService(),
	}
	t.Cleanup(env.notify.Shutdown)

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Auth:     controllers.NewAuthController(services.NewAuthService(env.users)),
		Units:    controllers.NewUnitController(env.units),
		Contacts: controllers.NewContactController(env.contacts, env.notify),
		Gallery:  controllers.NewGalleryController(env.gallery),
		Users:    services.NewAuthUserSource(env.users),
	})

	env.handler = r.Handler()
	return env
}

// addUser seeds an account with a bcrypt-hashed password and returns it.
func (e *testEnv) addUser(t *testing.T, username, email, password, role string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &models.User{Username: username, Email: email, Password: hash, Role: role}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// tokenFor issues a valid bearer token for the user.
func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := auth.GenerateToken(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// do sends a JSON request through the full route table and records the
// response. An empty token leaves the Authorization header off.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// decodeMap parses an object response body.
func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

// decodeList parses an array response body.
func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()

	var out []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}
