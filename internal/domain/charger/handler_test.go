package charger

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chargeshare/internal/database"
	"chargeshare/internal/middleware"
	"chargeshare/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type testAPI struct {
	router *gin.Engine
	repo   Repository
	tokens *jwt.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	repo := NewRepository(db)
	h := NewHandler(newTestService(repo), zap.NewNop())
	tokens := jwt.New("test-secret", time.Hour)

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(tokens))
	h.RegisterProtectedRoutes(protected)

	admin := v1.Group("/admin")
	admin.Use(middleware.JWTAuth(tokens), middleware.AdminOnly())
	h.RegisterAdminRoutes(admin)

	return &testAPI{router: r, repo: repo, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, userID, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		tok, err := a.tokens.GenerateToken(userID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateApproveAndSearch(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/chargers", "owner-1", jwt.RoleMember, `{
		"title": "Driveway L2",
		"charger_type": "level2",
		"connector_type": "j1772",
		"power_kw": 7.2,
		"hourly_rate": 5,
		"availability_windows": [{"day_of_week": 1, "start_time": "08:00", "end_time": "18:00"}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := gjson.Get(w.Body.String(), "data.charger.id").String()
	require.NotEmpty(t, id)
	assert.Equal(t, "pending", gjson.Get(w.Body.String(), "data.charger.status").String())

	w = api.do(t, http.MethodGet, "/api/v1/chargers", "", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), gjson.Get(w.Body.String(), "data.chargers.#").Int())

	w = api.do(t, http.MethodPatch, "/api/v1/admin/chargers/"+id+"/status", "owner-1", jwt.RoleMember, `{"status":"approved"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPatch, "/api/v1/admin/chargers/"+id+"/status", "admin-1", jwt.RoleAdmin, `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/v1/chargers?type=level2&connector=j1772", "", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, gjson.Get(w.Body.String(), "data.chargers.0.id").String())
}

func TestHandler_CreateRejectsBadWindows(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/chargers", "owner-1", jwt.RoleMember, `{
		"title": "Driveway",
		"charger_type": "level2",
		"connector_type": "j1772",
		"power_kw": 7.2,
		"hourly_rate": 5,
		"availability_windows": [{"day_of_week": 1, "start_time": "18:00", "end_time": "08:00"}]
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", gjson.Get(w.Body.String(), "error.code").String())
}

func TestHandler_SetAvailabilityForbiddenForOthers(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.repo.Create(context.Background(), &Charger{
		ID: "c-1", OwnerID: "owner-1", Title: "x", HourlyRate: 5, Windows: Windows{}, Status: StatusApproved,
	}))

	body := `{"availability_windows":[{"day_of_week":1,"start_time":"08:00","end_time":"18:00"}]}`
	w := api.do(t, http.MethodPut, "/api/v1/chargers/c-1/availability", "intruder", jwt.RoleMember, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/chargers/c-1/availability", "owner-1", jwt.RoleMember, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "18:00", gjson.Get(w.Body.String(), "data.charger.availability_windows.0.end_time").String())
}

func TestHandler_IsOpen(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.repo.Create(context.Background(), &Charger{
		ID: "c-1", OwnerID: "owner-1", Title: "x", HourlyRate: 5, Windows: mondayWindow(), Status: StatusApproved,
	}))

	w := api.do(t, http.MethodGet, "/api/v1/chargers/c-1/open?start=2030-01-07T10:00:00Z&end=2030-01-07T12:00:00Z", "", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gjson.Get(w.Body.String(), "data.open").Bool())

	w = api.do(t, http.MethodGet, "/api/v1/chargers/c-1/open?start=2030-01-08T10:00:00Z&end=2030-01-08T12:00:00Z", "", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, gjson.Get(w.Body.String(), "data.open").Bool())

	w = api.do(t, http.MethodGet, "/api/v1/chargers/c-1/open?start=tomorrow", "", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/chargers/missing", "", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
