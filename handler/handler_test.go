package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"opta/database"
	"opta/geocode"
	"opta/helper"
	"opta/model"
	"opta/router"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)))
	require.NoError(t, err)
	database.DB = db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	helper.RedisClient = nil
	helper.Geocoder = geocode.ResolverFunc(func(_ context.Context, c model.Coordinate) (string, error) {
		switch {
		case c.Latitude == 0 && c.Longitude == 0:
			return "", fmt.Errorf("%w: ocean", geocode.ErrNoResults)
		case c.Latitude == 1 && c.Longitude == 1:
			return "", fmt.Errorf("%w: %v", geocode.ErrResolution, errors.New("provider down"))
		}
		return "123 Main St, Springfield, IL", nil
	})

	app := fiber.New()
	router.SetupRoutes(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, target string, body any, headers ...string) (int, map[string]any) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App, name, phone, password string) {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/register", map[string]string{
		"user_name": name, "phone_number": phone, "password": password,
	})
	require.Equal(t, http.StatusOK, status, body)
}

func login(t *testing.T, app *fiber.App, phone, password string) (token string, userId uint) {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/login", map[string]string{
		"phone_number": phone, "password": password,
	})
	require.Equal(t, http.StatusOK, status, body)
	return body["access_token"].(string), uint(body["user_id"].(float64))
}

func TestPing(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hi", body["message"])
}

func TestRegister(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/register", map[string]string{
		"user_name": "Asha", "phone_number": "9000000001", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User registered successfully", body["message"])

	status, body = do(t, app, http.MethodPost, "/register", map[string]string{
		"user_name": "Other", "phone_number": "9000000001", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Phone number already registered", body["detail"])

	status, body = do(t, app, http.MethodPost, "/register", map[string]string{
		"phone_number": "9000000002", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "user_name is required")
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Asha", "9000000001", "s3cret")

	status, body := do(t, app, http.MethodPost, "/login", map[string]string{
		"phone_number": "9000000001", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, "Asha", body["user_name"])
	assert.EqualValues(t, 1, body["user_id"])

	token, err := helper.ParseToken(body["access_token"].(string))
	require.NoError(t, err)
	claim, err := helper.ClaimFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claim.UserId)

	status, body = do(t, app, http.MethodPost, "/login", map[string]string{
		"phone_number": "9000000001", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["detail"])

	status, _ = do(t, app, http.MethodPost, "/login", map[string]string{
		"phone_number": "9999999999", "password": "s3cret",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, app, http.MethodPost, "/login", map[string]string{"phone_number": "9000000001"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAddresses(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Asha", "9000000001", "s3cret")
	token, userId := login(t, app, "9000000001", "s3cret")

	status, body := do(t, app, http.MethodGet, fmt.Sprintf("/get-address?data=%d", userId), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["addresses"])

	status, body = do(t, app, http.MethodPost, "/address", map[string]any{
		"user_id": userId, "address": "12B, Oak Rd, Springfield, IL", "tag": " Home",
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "address added successfully", body["message"])

	status, body = do(t, app, http.MethodPost, "/address", map[string]any{
		"user_id": userId, "address": "Tower 4", "tag": "friends",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "tag must be one of")

	status, body = do(t, app, http.MethodGet, fmt.Sprintf("/get-address?data=%d", userId), nil)
	require.Equal(t, http.StatusOK, status)
	addresses := body["addresses"].([]any)
	require.Len(t, addresses, 1)
	first := addresses[0].(map[string]any)
	assert.Equal(t, "12B, Oak Rd, Springfield, IL", first["address"])
	assert.Equal(t, "home", first["tag"])

	status, _ = do(t, app, http.MethodGet, "/get-address?data=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAddressOtherUserForbidden(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Asha", "9000000001", "s3cret")
	register(t, app, "Ravi", "9000000002", "s3cret")
	token, _ := login(t, app, "9000000001", "s3cret")

	status, body := do(t, app, http.MethodGet, "/get-address?data=2", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Token does not belong to this user", body["detail"])

	status, _ = do(t, app, http.MethodPost, "/address", map[string]any{
		"user_id": 2, "address": "x", "tag": "work",
	}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, app, http.MethodGet, "/get-address?data=1", nil, "Authorization", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAddressIdempotencyKey(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Asha", "9000000001", "s3cret")
	_, userId := login(t, app, "9000000001", "s3cret")

	record := map[string]any{"user_id": userId, "address": "12B, Oak Rd", "tag": "work"}
	for i := 0; i < 3; i++ {
		status, body := do(t, app, http.MethodPost, "/address", record, "Idempotency-Key", "k-1")
		require.Equal(t, http.StatusOK, status, body)
	}
	status, _ := do(t, app, http.MethodPost, "/address", record, "Idempotency-Key", "k-2")
	require.Equal(t, http.StatusOK, status)

	_, body := do(t, app, http.MethodGet, fmt.Sprintf("/get-address?data=%d", userId), nil)
	assert.Len(t, body["addresses"], 2)
}

func TestAddressIdempotencyKeyOtherUser(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Asha", "9000000001", "s3cret")
	register(t, app, "Ravi", "9000000002", "s3cret")
	firstToken, firstId := login(t, app, "9000000001", "s3cret")
	secondToken, secondId := login(t, app, "9000000002", "s3cret")

	status, body := do(t, app, http.MethodPost, "/address", map[string]any{
		"user_id": firstId, "address": "12B, Oak Rd", "tag": "home",
	}, "Authorization", "Bearer "+firstToken, "Idempotency-Key", "shared")
	require.Equal(t, http.StatusOK, status, body)

	status, body = do(t, app, http.MethodPost, "/address", map[string]any{
		"user_id": secondId, "address": "7, Elm St", "tag": "work",
	}, "Authorization", "Bearer "+secondToken, "Idempotency-Key", "shared")
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["detail"], "idempotency key")

	_, body = do(t, app, http.MethodGet, fmt.Sprintf("/get-address?data=%d", secondId), nil,
		"Authorization", "Bearer "+secondToken)
	assert.Empty(t, body["addresses"])

	_, body = do(t, app, http.MethodGet, fmt.Sprintf("/get-address?data=%d", firstId), nil,
		"Authorization", "Bearer "+firstToken)
	assert.Len(t, body["addresses"], 1)
}

func TestDuplicatePhoneTranslated(t *testing.T) {
	newTestApp(t)

	require.NoError(t, database.DB.Create(&model.User{UserName: "Asha", PhoneNumber: "9000000001", Password: "x"}).Error)
	err := database.DB.Create(&model.User{UserName: "Ravi", PhoneNumber: "9000000001", Password: "y"}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestPurgeExpiredIdempotencyKeys(t *testing.T) {
	newTestApp(t)

	now := time.Now()
	require.NoError(t, database.DB.Create(&model.IdempotencyKey{Key: "old", UserId: 1, ExpiresAt: now.Add(-time.Minute)}).Error)
	require.NoError(t, database.DB.Create(&model.IdempotencyKey{Key: "new", UserId: 1, ExpiresAt: now.Add(time.Hour)}).Error)

	n, err := helper.PurgeExpiredIdempotencyKeys(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var left []model.IdempotencyKey
	require.NoError(t, database.DB.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "new", left[0].Key)
}

func TestReverseGeocode(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/geocode/reverse?lat=39.78&lng=-89.65", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "123 Main St, Springfield, IL", body["formatted_address"])

	status, body = do(t, app, http.MethodGet, "/geocode/reverse?lat=0&lng=0", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Address not found", body["detail"])

	status, _ = do(t, app, http.MethodGet, "/geocode/reverse?lat=1&lng=1", nil)
	assert.Equal(t, http.StatusBadGateway, status)

	status, _ = do(t, app, http.MethodGet, "/geocode/reverse?lat=91&lng=0", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/geocode/reverse?lat=10", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
