package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/productscout/backend/internal/domain"
	"github.com/productscout/backend/internal/usecase"
	"github.com/rs/zerolog"
)

const version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	engine  *usecase.Engine
	reports *usecase.ReportService
	logger  zerolog.Logger
}

// NewHandler creates a new HTTP handler. reports may be nil, in which case
// the report endpoint answers 501.
func NewHandler(engine *usecase.Engine, reports *usecase.ReportService, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		reports: reports,
		logger:  logger.With().Str("component", "http_handler").Logger(),
	}
}

// QueryRequest carries a raw product query
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// ListingPayload is one result list entry sent by the client
type ListingPayload struct {
	Text  string `json:"text" binding:"required"`
	Title string `json:"title"`
	Ref   string `json:"ref"`
}

// MatchRequest asks for the best listing for a query
type MatchRequest struct {
	Query    string           `json:"query" binding:"required"`
	Listings []ListingPayload `json:"listings"`
}

// ScoreRequest asks for the verdict of a single listing
type ScoreRequest struct {
	Query string `json:"query" binding:"required"`
	Text  string `json:"text" binding:"required"`
	Title string `json:"title"`
}

// ScoreResponse is the scorer verdict
type ScoreResponse struct {
	Score    int    `json:"score"`
	ModelOK  bool   `json:"modelOk"`
	Accepted bool   `json:"accepted"`
	Reject   string `json:"reject,omitempty"`
}

// ExtractRequest carries datasheet page texts. Brand defaults to the brand
// detected in Query when omitted.
type ExtractRequest struct {
	Brand string   `json:"brand"`
	Query string   `json:"query"`
	Pages []string `json:"pages"`
}

// PopupRequest carries a product safety panel text
type PopupRequest struct {
	Text string `json:"text"`
}

// ErrorResponse is the JSON body of every error answer
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "productscout-backend",
		"version": version,
	})
}

// ParseQuery returns the structured form of a query
func (h *Handler) ParseQuery(c *gin.Context) {
	var req QueryRequest
	if !h.bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.engine.Parser.Parse(req.Query))
}

// ScoreListing scores one listing against a query
func (h *Handler) ScoreListing(c *gin.Context) {
	var req ScoreRequest
	if !h.bind(c, &req) {
		return
	}
	q := h.engine.Parser.Parse(req.Query)
	v := h.engine.Scorer.Score(q, req.Text, req.Title)
	c.JSON(http.StatusOK, ScoreResponse{
		Score:    v.Score,
		ModelOK:  v.ModelOK,
		Accepted: v.Accepted(),
		Reject:   string(v.Reject),
	})
}

// MatchListings picks the best of the posted listings for a query
func (h *Handler) MatchListings(c *gin.Context) {
	var req MatchRequest
	if !h.bind(c, &req) {
		return
	}

	listings := make(usecase.StaticListings, len(req.Listings))
	for i, l := range req.Listings {
		listings[i] = domain.ListingCard{DisplayText: l.Text, TitleText: l.Title, LinkRef: l.Ref}
	}

	q := h.engine.Parser.Parse(req.Query)
	result, err := h.engine.Matcher.Match(c.Request.Context(), q, listings)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExtractFields reads energy class and supplier from datasheet page texts.
// No pages resolves both fields to Not found.
func (h *Handler) ExtractFields(c *gin.Context) {
	var req ExtractRequest
	if !h.bind(c, &req) {
		return
	}
	brand := domain.ParseBrand(strings.ToLower(strings.TrimSpace(req.Brand)))
	if brand == domain.BrandUnknown && req.Query != "" {
		brand = usecase.DetectBrand(usecase.Normalize(req.Query))
	}

	fs := h.engine.Extractor.Extract(c.Request.Context(), brand, usecase.StaticPages(req.Pages), nil)
	c.JSON(http.StatusOK, fs)
}

// ParsePopup isolates the responsible party from a safety panel text
func (h *Handler) ParsePopup(c *gin.Context) {
	var req PopupRequest
	if !h.bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplierText": domain.OrNotFound(h.engine.Popup.Parse(req.Text))})
}

// CreateReport runs the full storefront lookup for a query
func (h *Handler) CreateReport(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "report service not configured"})
		return
	}

	var req QueryRequest
	if !h.bind(c, &req) {
		return
	}

	report, err := h.reports.Process(c.Request.Context(), req.Query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// handleError maps domain errors to HTTP status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNoMatch):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSourceUnavailable), errors.Is(err, domain.ErrFetchFailure):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// EnergyLabelRequest carries the label image attributes of a product page
type EnergyLabelRequest struct {
	Alt  string `json:"alt"`
	Src  string `json:"src"`
	Text string `json:"text"`
}

// ParseEnergyLabel reads the energy class off label image attributes
func (h *Handler) ParseEnergyLabel(c *gin.Context) {
	var req EnergyLabelRequest
	if !h.bind(c, &req) {
		return
	}
	class, err := usecase.ParseEnergyLabel(req.Alt, req.Src, req.Text)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"energyClass": class})
}
