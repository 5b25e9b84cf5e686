package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/internal/dashboard"
	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/scheduler"
	"github.com/mamadbah2/dairy/internal/service/admin"
	"github.com/mamadbah2/dairy/web"
)

type stubDashboards struct {
	refreshed admin.State
	current   admin.State
	refreshes int
}

func (s *stubDashboards) Refresh(context.Context) admin.State {
	s.refreshes++
	return s.refreshed
}

func (s *stubDashboards) Current() admin.State { return s.current }

type stubDigests struct {
	gotTo   string
	receipt models.DigestReceipt
	err     error
}

func (s *stubDigests) SendDigest(_ context.Context, to string) (models.DigestReceipt, error) {
	s.gotTo = to
	return s.receipt, s.err
}

var updatedAt = time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

func readyState(t *testing.T) admin.State {
	t.Helper()
	d, err := dashboard.Build(models.Snapshot{
		Entries: []models.MilkEntry{
			{Date: "2024-03-09", Time: models.Morning, Liters: 4, Total: decimal.NewFromInt(40)},
			{Date: "2024-03-10", Time: models.Evening, Liters: 6, Total: decimal.NewFromInt(60)},
		},
		Payments: []models.Payment{{Amount: decimal.NewFromInt(25)}},
		Users:    []models.User{{Role: models.RoleCustomer}},
	}, updatedAt, dashboard.Options{})
	require.NoError(t, err)
	return admin.State{Status: admin.StatusReady, Dashboard: &d, UpdatedAt: updatedAt}
}

func failedState() admin.State {
	return admin.State{
		Status:    admin.StatusFailed,
		Err:       &models.FetchError{Resource: models.ResourceUsers, Err: errors.New("connection refused")},
		UpdatedAt: updatedAt,
	}
}

func newEngine(t *testing.T, h *DashboardHandler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/dashboard", h.Page)
	r.GET("/api/dashboard", h.GetDashboard)
	r.GET("/api/dashboard/status", h.GetStatus)
	r.POST("/api/digest", h.SendDigest)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGetDashboard_Ready(t *testing.T) {
	svc := &stubDashboards{refreshed: readyState(t)}
	r := newEngine(t, NewDashboardHandler(svc, &stubDigests{}, "RS", nil))

	w := serve(r, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.refreshes)

	body := decode(t, w)
	assert.Equal(t, "ready", body["status"])
	assert.NotContains(t, body, "error")

	dash := body["dashboard"].(map[string]any)
	totals := dash["totals"].(map[string]any)
	assert.Equal(t, float64(1), totals["totalCustomers"])
	assert.Equal(t, "75", totals["totalDues"])
	assert.Len(t, dash["days"], dashboard.DefaultWindowDays)
}

func TestGetDashboard_Failed(t *testing.T) {
	svc := &stubDashboards{refreshed: failedState()}
	r := newEngine(t, NewDashboardHandler(svc, &stubDigests{}, "RS", nil))

	w := serve(r, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decode(t, w)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "data unavailable", body["error"])
	assert.Equal(t, "users", body["resource"])
	assert.NotContains(t, body, "dashboard")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestGetStatus(t *testing.T) {
	svc := &stubDashboards{current: admin.State{Status: admin.StatusPending}}
	r := newEngine(t, NewDashboardHandler(svc, &stubDigests{}, "RS", nil))

	w := serve(r, http.MethodGet, "/api/dashboard/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "pending"}, decode(t, w))

	svc.current = failedState()
	w = serve(r, http.MethodGet, "/api/dashboard/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 0, svc.refreshes)
}

func TestPage(t *testing.T) {
	svc := &stubDashboards{refreshed: readyState(t)}
	r := newEngine(t, NewDashboardHandler(svc, &stubDigests{}, "RS", nil))

	w := serve(r, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()
	assert.Contains(t, page, "RS 100.00")
	assert.Contains(t, page, "RS 75.00")
	assert.Contains(t, page, "<svg")
	assert.Equal(t, dashboard.DefaultWindowDays*2, strings.Count(page, "<rect"))
	assert.Contains(t, page, "Sun</strong> Mar 10")
	assert.Contains(t, page, `aria-label="up">▲ 50.0%`)
	assert.Contains(t, page, `aria-label="up">▲ 100.0%`)
	assert.Contains(t, page, `aria-label="neutral">— 0.0%`)
	assert.Equal(t, 1, strings.Count(page, `dy="10"`))
	assert.Equal(t, 4, strings.Count(page, `dy="-2"`))
	assert.NotContains(t, page, "Data unavailable")

	svc.refreshed = failedState()
	w = serve(r, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Data unavailable: could not load users.")
	assert.NotContains(t, w.Body.String(), "<svg")
}

func TestSendDigest(t *testing.T) {
	digests := &stubDigests{receipt: models.DigestReceipt{To: "221770000000", MessageID: "wamid.1", Digest: "Dairy digest"}}
	r := newEngine(t, NewDashboardHandler(&stubDashboards{}, digests, "RS", nil))

	w := serve(r, http.MethodPost, "/api/digest", "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "", digests.gotTo)
	assert.Equal(t, "wamid.1", decode(t, w)["messageId"])

	w = serve(r, http.MethodPost, "/api/digest", `{"to":"33600000000"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "33600000000", digests.gotTo)

	w = serve(r, http.MethodPost, "/api/digest", `{"to":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendDigest_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"disabled", scheduler.ErrNotifierDisabled, http.StatusServiceUnavailable},
		{"no recipient", scheduler.ErrNoRecipient, http.StatusBadRequest},
		{"upstream", errors.New("whatsapp api error: code=190"), http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine(t, NewDashboardHandler(&stubDashboards{}, &stubDigests{err: tc.err}, "RS", nil))
			w := serve(r, http.MethodPost, "/api/digest", "")
			assert.Equal(t, tc.code, w.Code)
		})
	}
}
