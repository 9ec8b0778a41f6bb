package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themelissanyc/melissa/app/models"
)

func seedUnit(t *testing.T, env *testEnv, number string, available bool, images ...string) *models.Unit {
	t.Helper()

	if images == nil {
		images = []string{}
	}
	unit := &models.Unit{
		UnitNumber:  number,
		Description: "Seeded listing " + number,
		Price:       3500,
		Bedrooms:    1,
		Bathrooms:   1,
		ImageURL:    "https://cdn.example.com/" + number + ".jpg",
		Images:      images,
		Available:   available,
	}
	require.NoError(t, env.units.Create(context.Background(), unit))
	return unit
}

func adminToken(t *testing.T, env *testEnv) string {
	t.Helper()
	admin := env.addUser(t, "manager", "manager@themelissanyc.com", "letmein1", models.RoleAdmin)
	return env.tokenFor(t, admin)
}

func TestPublicIndexExcludesUnavailable(t *testing.T) {
	env := newTestEnv(t)
	seedUnit(t, env, "2A", true)
	seedUnit(t, env, "3B", false)
	seedUnit(t, env, "4C", true)

	rec := env.do(t, http.MethodGet, "/api/units/public", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	units := decodeList(t, rec)
	require.Len(t, units, 2)
	// Newest first.
	assert.Equal(t, "4C", units[0]["unitNumber"])
	assert.Equal(t, "2A", units[1]["unitNumber"])
}

func TestPublicShowHidesUnavailable(t *testing.T) {
	env := newTestEnv(t)
	hidden := seedUnit(t, env, "3B", false)

	rec := env.do(t, http.MethodGet, "/api/units/public/"+hidden.ID.Hex(), "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Unit not found or not available", decodeMap(t, rec)["message"])
}

func TestAdminUnitRoutesAreGated(t *testing.T) {
	env := newTestEnv(t)
	member := env.addUser(t, "plainuser", "plain@themelissanyc.com", "letmein1", models.RoleUser)

	rec := env.do(t, http.MethodGet, "/api/units", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied. No token provided.", decodeMap(t, rec)["message"])

	rec = env.do(t, http.MethodGet, "/api/units", env.tokenFor(t, member), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied. Admin privileges required.", decodeMap(t, rec)["message"])
}

func TestAdminIndexIncludesUnavailable(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	seedUnit(t, env, "2A", true)
	seedUnit(t, env, "3B", false)

	rec := env.do(t, http.MethodGet, "/api/units", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 2)
}

func TestCreateUnitZeroValuesAreValid(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)

	// A studio: zero bedrooms, and a promotional $0 price must both pass.
	rec := env.do(t, http.MethodPost, "/api/units", token, map[string]interface{}{
		"unitNumber":  "ST1",
		"description": "Cozy studio",
		"price":       0,
		"bedrooms":    0,
		"bathrooms":   1,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, float64(0), got["price"])
	assert.Equal(t, float64(0), got["bedrooms"])
	assert.Equal(t, true, got["available"])
	assert.NotEmpty(t, got["imageURL"])
	assert.Equal(t, []interface{}{}, got["images"])
}

func TestCreateUnitMissingFields(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)

	rec := env.do(t, http.MethodPost, "/api/units", token, map[string]interface{}{
		"unitNumber": "5A",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, "Validation error", got["message"])
	assert.NotEmpty(t, got["errors"])
}

func TestUpdateUnitPartial(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	unit := seedUnit(t, env, "2A", true)

	rec := env.do(t, http.MethodPut, "/api/units/"+unit.ID.Hex(), token, map[string]interface{}{
		"price":     4200,
		"available": false,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, float64(4200), got["price"])
	assert.Equal(t, false, got["available"])
	// Untouched fields keep their stored values.
	assert.Equal(t, "2A", got["unitNumber"])
	assert.Equal(t, unit.Description, got["description"])
}

func TestUpdateUnitNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)

	rec := env.do(t, http.MethodPut, "/api/units/64b000000000000000000000", token, map[string]interface{}{
		"price": 4200,
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Unit not found", decodeMap(t, rec)["message"])
}

func TestDeleteUnit(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	unit := seedUnit(t, env, "2A", true)

	rec := env.do(t, http.MethodDelete, "/api/units/"+unit.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Unit deleted successfully", decodeMap(t, rec)["message"])

	rec = env.do(t, http.MethodDelete, "/api/units/"+unit.ID.Hex(), token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddImagesPreservesOrder(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	unit := seedUnit(t, env, "2A", true, "/uploads/first.jpg")

	rec := env.do(t, http.MethodPut, "/api/units/"+unit.ID.Hex()+"/images", token, map[string]interface{}{
		"imageUrls": []string{"/uploads/second.jpg", "/uploads/third.jpg"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, "2 images added to unit successfully", got["message"])
	assert.Equal(t, float64(3), got["totalImages"])

	images := got["unit"].(map[string]interface{})["images"].([]interface{})
	require.Len(t, images, 3)
	assert.Equal(t, "/uploads/first.jpg", images[0])
	assert.Equal(t, "/uploads/second.jpg", images[1])
	assert.Equal(t, "/uploads/third.jpg", images[2])
}

func TestAddImagesRequiresArray(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	unit := seedUnit(t, env, "2A", true)

	rec := env.do(t, http.MethodPut, "/api/units/"+unit.ID.Hex()+"/images", token, map[string]interface{}{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "imageUrls array is required", decodeMap(t, rec)["message"])
}

func TestRemoveImageByIndex(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	unit := seedUnit(t, env, "2A", true, "/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.jpg")

	rec := env.do(t, http.MethodDelete, "/api/units/"+unit.ID.Hex()+"/images/1", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, "Image removed successfully", got["message"])
	assert.Equal(t, "/uploads/b.jpg", got["removedImage"])
	assert.Equal(t, float64(2), got["remainingImages"])
}

func TestRemoveImageBadIndex(t *testing.T) {
	env := newTestEnv(t)
	token := adminToken(t, env)
	unit := seedUnit(t, env, "2A", true, "/uploads/a.jpg")

	for _, index := range []string{"5", "-1", "abc"} {
		rec := env.do(t, http.MethodDelete, "/api/units/"+unit.ID.Hex()+"/images/"+index, token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, "index %s", index)
		assert.Equal(t, "Invalid image index", decodeMap(t, rec)["message"])
	}

	// The failed removals left the unit untouched.
	stored, err := env.units.FindByID(context.Background(), unit.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.jpg"}, stored.Images)
}
