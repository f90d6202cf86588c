package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/models"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/handler/ws"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/store"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/usecase"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/cache"
	xhttp "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/http"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/http/middleware"
	xlogger "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/util"
)

// Handler serves the read-only query surface and the refresh command surface.
type Handler struct {
	logger      *xlogger.Logger
	store       *store.Store
	refresher   *usecase.Refresher
	hub         *ws.Hub
	cache       cache.BytesCache
	cacheTTL    time.Duration
	inboundGate middleware.Gate
	gateWindow  time.Duration
	onDenied    func(key string)
}

func NewHandler(
	logger *xlogger.Logger,
	st *store.Store,
	refresher *usecase.Refresher,
	hub *ws.Hub,
	bytesCache cache.BytesCache,
	cacheTTL time.Duration,
	inboundGate middleware.Gate,
	gateWindow time.Duration,
	onDenied func(key string),
) *Handler {
	return &Handler{
		logger:      logger,
		store:       st,
		refresher:   refresher,
		hub:         hub,
		cache:       bytesCache,
		cacheTTL:    cacheTTL,
		inboundGate: inboundGate,
		gateWindow:  gateWindow,
		onDenied:    onDenied,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/ws", h.hub.ServeWS)

	g := e.Group("/api", xhttp.RateLimitGate(h.inboundGate, h.gateWindow, h.onDenied))
	g.GET("/crypto", h.Assets)
	g.GET("/crypto/:id", h.Asset)
	g.GET("/market-summary", h.MarketSummary)
	g.GET("/news", h.News)
	g.GET("/calendar", h.Calendar)
	g.GET("/whales", h.Whales)
	g.GET("/fed", h.Fed)
	g.POST("/refresh/:concern", h.Refresh)
}

func (h *Handler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *Handler) Assets(c echo.Context) error {
	req := &models.AssetsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, func() interface{} {
		return h.store.ListAssets(req.Sort, req.Limit)
	})
}

func (h *Handler) Asset(c echo.Context) error {
	asset, ok := h.store.GetAsset(c.Param("id"))
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("asset %q not found", c.Param("id")))
	}
	return xhttp.SuccessResponse(c, asset)
}

func (h *Handler) MarketSummary(c echo.Context) error {
	summary, ok := h.store.Summary()
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("market summary not available yet"))
	}
	return xhttp.SuccessResponse(c, summary)
}

func (h *Handler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, func() interface{} {
		return h.store.ListNews(req.Category, req.Limit)
	})
}

func (h *Handler) Calendar(c echo.Context) error {
	req := &models.CalendarRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from := util.ParseTimeDefault(req.From, time.Time{})
	to := util.ParseTimeDefault(req.To, time.Time{})
	if !to.IsZero() {
		// Inclusive upper bound for a date-only parameter.
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return h.cached(c, func() interface{} {
		return h.store.ListEvents(req.Country, from, to, req.Limit)
	})
}

func (h *Handler) Whales(c echo.Context) error {
	req := &models.WhalesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, func() interface{} {
		return h.store.ListWhales(req.Symbol, req.Limit)
	})
}

func (h *Handler) Fed(c echo.Context) error {
	req := &models.FedRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.cached(c, func() interface{} {
		return h.store.ListFedUpdates(req.Type, req.Limit)
	})
}

// Refresh triggers one concern's cycle. The response is an ack only; the data
// arrives through the push channel and the query surface once the cycle
// completes.
func (h *Handler) Refresh(c echo.Context) error {
	concern := c.Param("concern")
	if err := h.refresher.Trigger(c.Request().Context(), concern); err != nil {
		appErr := xhttp.BadRequestError(fmt.Sprintf("unknown refresh concern %q", concern)).WithError(err)
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.AckResponse(c, fmt.Sprintf("refresh of %s completed", concern))
}

// cached serves list reads through the response cache keyed by path and
// query. Entries expire on the configured TTL, so a cached list lags the
// store by at most that much.
func (h *Handler) cached(c echo.Context, fetch func() interface{}) error {
	key := c.Request().URL.Path + "?" + c.Request().URL.RawQuery
	ctx := c.Request().Context()

	if blob, ok, err := h.cache.GetBytes(ctx, key); err == nil && ok {
		return c.JSONBlob(http.StatusOK, blob)
	}

	blob, err := json.Marshal(xhttp.APIResponse{Success: true, Data: fetch()})
	if err != nil {
		h.logger.Error("response marshal failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	if err := h.cache.SetBytes(ctx, key, blob, h.cacheTTL); err != nil {
		h.logger.Warn("response cache write failed", xlogger.Error(err))
	}
	return c.JSONBlob(http.StatusOK, blob)
}
