package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/dashboard"
	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/scheduler"
	"github.com/mamadbah2/dairy/internal/service/admin"
	"github.com/mamadbah2/dairy/web"
)

// DashboardService exposes the cached and freshly computed dashboard state.
type DashboardService interface {
	Refresh(ctx context.Context) admin.State
	Current() admin.State
}

// DigestSender pushes the daily digest to a WhatsApp recipient.
type DigestSender interface {
	SendDigest(ctx context.Context, to string) (models.DigestReceipt, error)
}

// DashboardHandler serves the dashboard as JSON and as an HTML page.
type DashboardHandler struct {
	dashboards DashboardService
	digests    DigestSender
	currency   string
	logger     *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(dashboards DashboardService, digests DigestSender, currency string, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{dashboards: dashboards, digests: digests, currency: currency, logger: logger}
}

type dashboardResponse struct {
	Status    admin.Status         `json:"status"`
	UpdatedAt *time.Time           `json:"updatedAt,omitempty"`
	Dashboard *dashboard.Dashboard `json:"dashboard,omitempty"`
	Error     string               `json:"error,omitempty"`
	Resource  string               `json:"resource,omitempty"`
}

type pageData struct {
	Status    string
	Dashboard *dashboard.Dashboard
	Resource  string
	Currency  string
}

// GetDashboard refreshes the data and returns the computed dashboard.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	h.writeState(c, h.dashboards.Refresh(c.Request.Context()))
}

// GetStatus returns the last computed state without touching the source.
func (h *DashboardHandler) GetStatus(c *gin.Context) {
	h.writeState(c, h.dashboards.Current())
}

// Page renders the dashboard page from fresh data.
func (h *DashboardHandler) Page(c *gin.Context) {
	state := h.dashboards.Refresh(c.Request.Context())

	code := http.StatusOK
	if state.Status == admin.StatusFailed {
		code = http.StatusServiceUnavailable
	}

	c.HTML(code, web.DashboardTemplate, pageData{
		Status:    string(state.Status),
		Dashboard: state.Dashboard,
		Resource:  state.FailedResource(),
		Currency:  h.currency,
	})
}

// SendDigest sends the daily digest right away.
func (h *DashboardHandler) SendDigest(c *gin.Context) {
	var req models.DigestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid digest request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	receipt, err := h.digests.SendDigest(c.Request.Context(), req.To)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, receipt)
	case errors.Is(err, scheduler.ErrNotifierDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "whatsapp not configured"})
	case errors.Is(err, scheduler.ErrNoRecipient):
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipient required"})
	default:
		h.logger.Error("failed sending digest", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send digest"})
	}
}

func (h *DashboardHandler) writeState(c *gin.Context, state admin.State) {
	resp := dashboardResponse{Status: state.Status}
	if !state.UpdatedAt.IsZero() {
		updated := state.UpdatedAt
		resp.UpdatedAt = &updated
	}

	if state.Status == admin.StatusFailed {
		resp.Error = "data unavailable"
		resp.Resource = state.FailedResource()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	resp.Dashboard = state.Dashboard
	c.JSON(http.StatusOK, resp)
}
