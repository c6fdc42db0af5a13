package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub/internal/auth"
	"renthub/internal/config"
	"renthub/internal/database"
	"renthub/internal/mailer"
	"renthub/internal/models"
	"renthub/internal/repository"
	"renthub/internal/service"
)

type fakeChat struct {
	reply string
	fail  error
}

func (f *fakeChat) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	return f.reply, nil
}

type testEnv struct {
	server *Server
	db     *database.DB
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenManager("test-secret", "renthub", time.Hour)
	cache := repository.NewFailoverListingCache(
		repository.NewMemoryListingCache(), repository.NewMemoryListingCache(), &logger)
	templates := mailer.NewTemplates("")

	svc := Services{
		Auth:      service.NewAuthService(db, tokens, &logger),
		Property:  service.NewPropertyService(db, cache, templates, &logger),
		Booking:   service.NewBookingService(db, templates, &logger),
		Rating:    service.NewRatingService(db, &logger),
		Admin:     service.NewAdminService(db, cache, &logger),
		Analytics: service.NewAnalyticsService(db, &logger),
		Chat:      service.NewChatService(&fakeChat{reply: "hello from assistant"}, &logger),
	}

	cfg := config.ServerConfig{Port: 0}
	return &testEnv{server: NewServer(cfg, db, tokens, cache, svc, &logger), db: db}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func (e *testEnv) register(t *testing.T, email, role string) (int64, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret123", "name": "User " + role, "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID int64 `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data.User.ID, env.Data.Token
}

func (e *testEnv) promoteToAdmin(t *testing.T, userID int64) {
	t.Helper()
	require.NoError(t, e.db.UpdateUserRole(context.Background(), userID, models.RoleAdmin))
}

func (e *testEnv) createListing(t *testing.T, ownerToken string) int64 {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/properties", ownerToken, map[string]any{
		"title": "Central flat", "rent": 800.0, "location": "Riga",
		"bedrooms": 2, "propertyType": "apartment",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var env struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data.ID
}

func TestHealth(t *testing.T) {
	e := setupServer(t)
	rec := e.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestAuthEndpoints(t *testing.T) {
	e := setupServer(t)
	_, token := e.register(t, "anna@test.com", models.RoleTenant)

	// Повторная регистрация того же адреса
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "anna@test.com", "password": "secret123", "name": "Anna", "role": models.RoleTenant,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "anna@test.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/auth/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGates(t *testing.T) {
	e := setupServer(t)
	_, tenantToken := e.register(t, "tenant@test.com", models.RoleTenant)
	_, ownerToken := e.register(t, "owner@test.com", models.RoleOwner)

	// Арендатор не может создавать объекты
	rec := e.do(t, http.MethodPost, "/api/properties", tenantToken, map[string]any{
		"title": "X", "rent": 1.0, "location": "Y", "propertyType": "studio",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Владелец не может бронировать
	rec = e.do(t, http.MethodPost, "/api/bookings", ownerToken, map[string]any{"propertyId": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Обычный пользователь не видит админку
	rec = e.do(t, http.MethodGet, "/api/admin/stats", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	e := setupServer(t)
	_, ownerToken := e.register(t, "owner@test.com", models.RoleOwner)
	_, tenantToken := e.register(t, "tenant@test.com", models.RoleTenant)
	propID := e.createListing(t, ownerToken)

	rec := e.do(t, http.MethodPost, "/api/bookings", tenantToken, map[string]any{
		"propertyId": propID, "message": "please", "durationMonths": 6,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.StatusPending, created.Data.Status)

	// Дубликат Pending-заявки отклоняется
	rec = e.do(t, http.MethodPost, "/api/bookings", tenantToken, map[string]any{
		"propertyId": propID, "durationMonths": 3,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Решение принимает только владелец объекта
	path := fmt.Sprintf("/api/bookings/%d/status", created.Data.ID)
	rec = e.do(t, http.MethodPatch, path, tenantToken, map[string]string{"status": models.StatusApproved})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPatch, path, ownerToken, map[string]string{
		"status": models.StatusApproved, "ownerNotes": "welcome",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var decided struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decided))
	assert.Equal(t, models.StatusApproved, decided.Data.Status)

	// Approved нельзя отменить
	rec = e.do(t, http.MethodDelete, fmt.Sprintf("/api/bookings/%d", created.Data.ID), tenantToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/bookings/my-bookings", tenantToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/bookings/requests", ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/bookings/stats", ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRatingGatesOverHTTP(t *testing.T) {
	e := setupServer(t)
	ownerID, ownerToken := e.register(t, "owner@test.com", models.RoleOwner)
	_, tenantToken := e.register(t, "tenant@test.com", models.RoleTenant)
	propID := e.createListing(t, ownerToken)

	rec := e.do(t, http.MethodPost, "/api/ratings/property", tenantToken, map[string]any{
		"propertyId": propID, "rating": 5,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Оформляем и одобряем бронь
	rec = e.do(t, http.MethodPost, "/api/bookings", tenantToken, map[string]any{
		"propertyId": propID, "durationMonths": 6,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	rec = e.do(t, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/status", created.Data.ID),
		ownerToken, map[string]string{"status": models.StatusApproved})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/ratings/property", tenantToken, map[string]any{
		"propertyId": propID, "rating": 5, "comment": "great place",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/ratings/user", tenantToken, map[string]any{
		"userId": ownerID, "rating": 4,
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Публичное чтение без токена
	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/ratings/property/%d", propID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/ratings/user/%d", ownerID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListingCacheInvalidation(t *testing.T) {
	e := setupServer(t)
	_, ownerToken := e.register(t, "owner@test.com", models.RoleOwner)
	e.createListing(t, ownerToken)

	rec := e.do(t, http.MethodGet, "/api/properties", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := rec.Body.String()

	// Повторный запрос обслуживается из кэша с тем же телом
	rec = e.do(t, http.MethodGet, "/api/properties", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, first, rec.Body.String())

	// Новый объект сбрасывает кэш
	e.createListing(t, ownerToken)
	rec = e.do(t, http.MethodGet, "/api/properties", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data listingsData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Len(t, env.Data.Properties, 2)
}

func TestAdminEndpoints(t *testing.T) {
	e := setupServer(t)
	adminID, _ := e.register(t, "boss@test.com", models.RoleOwner)
	e.promoteToAdmin(t, adminID)
	// Токен выпускаем заново после смены роли
	rec := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "boss@test.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Data authData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	adminToken := login.Data.Token

	tenantID, _ := e.register(t, "tenant@test.com", models.RoleTenant)

	rec = e.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/admin/properties", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/admin/bookings", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", tenantID),
		adminToken, map[string]string{"role": models.RoleOwner})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/admin/export/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "users_export_")
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = e.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", tenantID), adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatbotEndpoint(t *testing.T) {
	e := setupServer(t)
	_, tenantToken := e.register(t, "tenant@test.com", models.RoleTenant)

	rec := e.do(t, http.MethodPost, "/api/chatbot/message", tenantToken, map[string]string{
		"message": "find me a flat",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "hello from assistant", env.Data["reply"])

	rec = e.do(t, http.MethodPost, "/api/chatbot/message", tenantToken, map[string]string{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/chatbot/message", "", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	e := setupServer(t)
	_, ownerToken := e.register(t, "owner@test.com", models.RoleOwner)
	_, tenantToken := e.register(t, "tenant@test.com", models.RoleTenant)
	e.createListing(t, ownerToken)

	rec := e.do(t, http.MethodGet, "/api/analytics/financial", ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/analytics/properties", ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/analytics/activities", ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/analytics/financial", tenantToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	e := setupServer(t)
	rec := e.do(t, http.MethodGet, "/api/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rr := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, "fixed-id", rr.Header().Get("X-Request-ID"))
}
