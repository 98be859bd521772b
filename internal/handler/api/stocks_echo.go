package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"FinScore/internal/domain/models"
	"FinScore/internal/service/metrics"
	"FinScore/internal/service/ratelimit"
	"FinScore/internal/usecase"
	xhttp "FinScore/pkg/http"
	xlogger "FinScore/pkg/logger"
	"FinScore/pkg/util"

	"github.com/labstack/echo/v4"
)

// StocksEchoHandler exposes the enrichment cache over HTTP. It never computes
// anything itself.
type StocksEchoHandler struct {
	logger   *xlogger.Logger
	enricher *usecase.Enricher
	limiter  *ratelimit.Limiter
	burst    float64
	perSec   float64
}

func NewStocksEchoHandler(logger *xlogger.Logger, enricher *usecase.Enricher, limiter *ratelimit.Limiter, burst, perSec float64) *StocksEchoHandler {
	metrics.Register()
	return &StocksEchoHandler{logger: logger, enricher: enricher, limiter: limiter, burst: burst, perSec: perSec}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/stocks")
	g.GET("", h.List)
	g.POST("/refresh", h.Refresh)
	g.GET("/:ticker", h.Get)
}

// List returns the cache snapshot. A cold cache is warmed in the background.
func (h *StocksEchoHandler) List(c echo.Context) error {
	defer observe("list", time.Now())
	s := h.enricher.Snapshot()
	if s.Status == models.StatusCold {
		h.enricher.TriggerRefresh(false)
		s = h.enricher.Snapshot()
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	return xhttp.SuccessResponse(c, s)
}

func (h *StocksEchoHandler) Refresh(c echo.Context) error {
	defer observe("refresh", time.Now())
	req := &models.RefreshRequest{}
	if err := echo.QueryParamsBinder(c).Bool("force", &req.Force).BindError(); err != nil {
		metrics.APIErrors.WithLabelValues("refresh", "400").Inc()
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("force must be a boolean").WithError(err))
	}
	if h.limiter != nil && !h.limiter.Allow(c.RealIP(), h.burst, h.perSec) {
		metrics.APIErrors.WithLabelValues("refresh", "429").Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("refresh requested too often"))
	}
	h.enricher.TriggerRefresh(req.Force)
	return xhttp.AcceptedResponse(c, map[string]interface{}{
		"status": h.enricher.Snapshot().Status,
		"force":  req.Force,
	})
}

// Get serves a cached record or enriches an out-of-universe ticker on demand.
func (h *StocksEchoHandler) Get(c echo.Context) error {
	defer observe("get", time.Now())
	req := &models.TickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.APIErrors.WithLabelValues("get", "400").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	if t, ok := util.NormalizeTicker(req.Ticker); ok {
		if rec, found := h.enricher.Lookup(t); found {
			return xhttp.SuccessResponse(c, rec)
		}
	}

	rec, err := h.enricher.EnrichOne(c.Request().Context(), req.Ticker)
	if err != nil {
		appErr := toAppError(err, req.Ticker)
		metrics.APIErrors.WithLabelValues("get", strconv.Itoa(appErr.Status)).Inc()
		metrics.OnDemandEnrichments.WithLabelValues("error").Inc()
		if appErr.Status >= http.StatusInternalServerError {
			h.logger.Error("on-demand enrichment failed", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	metrics.OnDemandEnrichments.WithLabelValues("ok").Inc()
	return xhttp.SuccessResponse(c, rec)
}

func toAppError(err error, ticker string) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrInvalidTicker):
		return xhttp.BadRequestErrorf("invalid ticker %q", ticker).WithParam("ticker", ticker).WithError(err)
	case errors.Is(err, models.ErrTickerNotFound):
		return xhttp.NotFoundErrorf("ticker %s not found", ticker).WithError(err)
	case errors.Is(err, models.ErrMissingCredential):
		return xhttp.ServiceUnavailableError("upstream credentials are not configured").WithError(err)
	default:
		return xhttp.InternalError("enrichment failed").WithError(err)
	}
}

func observe(endpoint string, start time.Time) {
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
