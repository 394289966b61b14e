package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/dto"
	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/service"
)

// Handler provides HTTP handlers for the journal's analytics and sync
// endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP parameters
//   - Interact with the service layer
//   - Translate service results into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	analytics service.AnalyticsService
	sync      service.SyncService
	// defaultCapital is used when a request does not pass its own
	// baseline/initial capital.
	defaultCapital decimal.Decimal
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - analytics (service.AnalyticsService): derived-view computations.
//   - sync (service.SyncService): broker import orchestration.
//   - defaultCapital (decimal.Decimal): fallback starting capital.
//
// Returns:
//   - *Handler: a handler ready to be registered with the router.
func NewHandler(analytics service.AnalyticsService, sync service.SyncService, defaultCapital decimal.Decimal) *Handler {
	return &Handler{analytics: analytics, sync: sync, defaultCapital: defaultCapital}
}

// parseAccountID reads and validates the required account_id query parameter.
func parseAccountID(c *gin.Context) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query("account_id"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("account_id is required", nil))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid account_id", err))
		return uuid.Nil, false
	}
	return id, true
}

// parseCapital reads an optional non-negative decimal query parameter,
// falling back to the configured default.
func (h *Handler) parseCapital(c *gin.Context, param string) (decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return h.defaultCapital, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid "+param, err))
		return decimal.Decimal{}, false
	}
	return d, true
}

// GetStats handles GET /api/v1/stats requests.
//
// GetStats godoc
// @Summary      Performance statistics
// @Description  Returns aggregated performance metrics for an account's trades
// @Tags         analytics
// @Produce      json
// @Param        account_id        query     string  true   "Account UUID"
// @Param        baseline_capital  query     number  false  "Starting capital (defaults to BASELINE_CAPITAL)"
// @Success      200  {object}  dto.StatsResponse      "Success"
// @Failure      400  {object}  dto.ErrorResponse      "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	baseline, ok := h.parseCapital(c, "baseline_capital")
	if !ok {
		return
	}

	stats, err := h.analytics.GetStats(c.Request.Context(), accountID, baseline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to compute stats", err))
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{AccountID: accountID.String(), Stats: stats})
}

// GetEquityCurve handles GET /api/v1/equity-curve requests.
//
// GetEquityCurve godoc
// @Summary      Equity curve
// @Description  Returns the running-balance series for an account, one point per trade
// @Tags         analytics
// @Produce      json
// @Param        account_id       query     string  true   "Account UUID"
// @Param        initial_capital  query     number  false  "Starting capital (defaults to BASELINE_CAPITAL)"
// @Success      200  {object}  dto.EquityCurveResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse        "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse        "Internal Error"
// @Router       /api/v1/equity-curve [get]
func (h *Handler) GetEquityCurve(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	capital, ok := h.parseCapital(c, "initial_capital")
	if !ok {
		return
	}

	points, err := h.analytics.GetEquityCurve(c.Request.Context(), accountID, capital)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to build equity curve", err))
		return
	}
	if points == nil {
		// Empty journal: explicit empty array, not null.
		points = []models.EquityPoint{}
	}

	c.JSON(http.StatusOK, dto.EquityCurveResponse{AccountID: accountID.String(), Points: points})
}

// GetFlags handles GET /api/v1/flags requests.
//
// GetFlags godoc
// @Summary      Discipline flags
// @Description  Evaluates today's trades against the configured discipline rules
// @Tags         analytics
// @Produce      json
// @Param        account_id  query     string  true  "Account UUID"
// @Success      200  {object}  dto.FlagsResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/flags [get]
func (h *Handler) GetFlags(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	flags, err := h.analytics.GetFlags(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to detect flags", err))
		return
	}
	if flags == nil {
		flags = []models.Flag{}
	}

	c.JSON(http.StatusOK, dto.FlagsResponse{AccountID: accountID.String(), Flags: flags})
}

// SyncBroker handles POST /api/v1/sync requests.
//
// SyncBroker godoc
// @Summary      Sync broker trades
// @Description  Fetches the broker tradebook, normalizes and deduplicates it, and persists new trades
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SyncRequest    true  "Sync parameters"
// @Success      200  {object}  dto.SyncResponse   "Success"
// @Failure      400  {object}  dto.ErrorResponse  "Bad Request"
// @Failure      502  {object}  dto.ErrorResponse  "Broker Unreachable"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/sync [post]
func (h *Handler) SyncBroker(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid sync request", err))
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid account_id", err))
		return
	}

	result, err := h.sync.SyncBroker(c.Request.Context(), req.Broker, req.AccessToken, accountID, req.Force)
	switch {
	case errors.Is(err, service.ErrUnknownBroker):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("unknown broker", err))
		return
	case errors.Is(err, service.ErrBrokerFetch):
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("broker fetch failed", err))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("sync failed", err))
		return
	}

	c.JSON(http.StatusOK, dto.SyncResponse{AccountID: accountID.String(), Result: *result})
}
