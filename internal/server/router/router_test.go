package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/server/handlers"
	"github.com/mamadbah2/dairy/internal/service/admin"
)

type pendingDashboards struct{}

func (pendingDashboards) Refresh(context.Context) admin.State {
	return admin.State{Status: admin.StatusPending}
}

func (pendingDashboards) Current() admin.State {
	return admin.State{Status: admin.StatusPending}
}

type noDigests struct{}

func (noDigests) SendDigest(context.Context, string) (models.DigestReceipt, error) {
	return models.DigestReceipt{}, nil
}

func TestNew_Routes(t *testing.T) {
	r, err := New(handlers.NewDashboardHandler(pendingDashboards{}, noDigests{}, "RS", nil), nil)
	require.NoError(t, err)

	cases := []struct {
		method, path string
		code         int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/dashboard", http.StatusOK},
		{http.MethodGet, "/api/dashboard", http.StatusOK},
		{http.MethodGet, "/api/dashboard/status", http.StatusOK},
		{http.MethodPost, "/api/digest", http.StatusAccepted},
		{http.MethodGet, "/webhook", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestNew_PendingPage(t *testing.T) {
	r, err := New(handlers.NewDashboardHandler(pendingDashboards{}, noDigests{}, "RS", nil), nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Contains(t, w.Body.String(), "Loading dashboard data")
}
