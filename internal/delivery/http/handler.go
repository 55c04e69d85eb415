package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kalorikoll/backend/internal/domain"
	"github.com/kalorikoll/backend/internal/usecase"
)

const serviceVersion = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	lookup *usecase.LookupService
	diary  *usecase.DiaryService
}

// NewHandler creates a new HTTP handler. Either service may be nil, in which
// case its endpoints answer 501.
func NewHandler(lookup *usecase.LookupService, diary *usecase.DiaryService) *Handler {
	return &Handler{lookup: lookup, diary: diary}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "kalorikoll-backend",
		"version": serviceVersion,
	})
}

// LookupProduct resolves a barcode through Open Food Facts
func (h *Handler) LookupProduct(c *gin.Context) {
	if h.lookup == nil {
		notConfigured(c, "Product lookup")
		return
	}

	record, err := h.lookup.LookupBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListCatalog returns every saved item
func (h *Handler) ListCatalog(c *gin.Context) {
	if h.diary == nil {
		notConfigured(c, "Catalog")
		return
	}

	items, err := h.diary.Catalog(c.Request.Context())
	body := gin.H{"items": items}
	if err != nil {
		body["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

// SaveCatalogItem appends a per-100g record to the catalog
func (h *Handler) SaveCatalogItem(c *gin.Context) {
	if h.diary == nil {
		notConfigured(c, "Catalog")
		return
	}

	var record domain.NutrientRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	saved, err := h.diary.SaveItem(c.Request.Context(), record)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// SearchCatalog ranks saved items by name against the q parameter
func (h *Handler) SearchCatalog(c *gin.Context) {
	if h.diary == nil {
		notConfigured(c, "Catalog")
		return
	}

	matches, err := h.diary.SearchCatalog(c.Request.Context(), c.Query("q"))
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusOK, gin.H{"matches": []usecase.CatalogMatch{}, "warning": err.Error()})
	case err != nil:
		respondError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"matches": matches})
	}
}

// targetRequest carries optional overrides of the configured goal
type targetRequest struct {
	Calories   *float64 `json:"calories" form:"calories"`
	ProteinPct *float64 `json:"proteinPct" form:"proteinPct"`
	FatPct     *float64 `json:"fatPct" form:"fatPct"`
}

func (r targetRequest) apply(spec domain.TargetSpec) domain.TargetSpec {
	if r.Calories != nil {
		spec.Calories = *r.Calories
	}
	if r.ProteinPct != nil {
		spec.ProteinPct = *r.ProteinPct
	}
	if r.FatPct != nil {
		spec.FatPct = *r.FatPct
	}
	return spec
}

// ComputeTargets converts a goal into gram targets. Missing fields fall back
// to the configured goal.
func (h *Handler) ComputeTargets(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var defaults domain.TargetSpec
	if h.diary != nil {
		defaults = h.diary.DefaultTargets()
	}
	spec := req.apply(defaults)

	targets, err := usecase.ComputeTargets(spec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spec": spec, "targets": targets})
}

type portionRequest struct {
	Record    domain.NutrientRecord `json:"record"`
	QuantityG float64               `json:"quantityG"`
}

// ScalePortion scales a per-100g record to a quantity
func (h *Handler) ScalePortion(c *gin.Context) {
	var req portionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	portion, err := usecase.ScalePortion(req.Record, req.QuantityG)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, portion)
}

// logRequest identifies the food either by a per-100g record or a barcode
type logRequest struct {
	Record    *domain.NutrientRecord `json:"record"`
	Barcode   string                 `json:"barcode"`
	QuantityG float64                `json:"quantityG"`
	Meal      string                 `json:"meal" binding:"required"`
	Cost      float64                `json:"cost"`
	Date      string                 `json:"date"`
}

// LogEntry appends a consumption to the diary
func (h *Handler) LogEntry(c *gin.Context) {
	if h.diary == nil {
		notConfigured(c, "Diary")
		return
	}

	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var record domain.NutrientRecord
	switch {
	case req.Record != nil:
		record = *req.Record
	case req.Barcode != "" && h.lookup != nil:
		found, err := h.lookup.LookupBarcode(c.Request.Context(), req.Barcode)
		if err != nil {
			respondError(c, err)
			return
		}
		record = *found
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either record or barcode is required"})
		return
	}

	entry, err := h.diary.LogEntry(c.Request.Context(), usecase.LogRequest{
		Record:    record,
		QuantityG: req.QuantityG,
		Meal:      req.Meal,
		Cost:      req.Cost,
		Date:      req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListDiary returns the entries of one day (today by default)
func (h *Handler) ListDiary(c *gin.Context) {
	if h.diary == nil {
		notConfigured(c, "Diary")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = h.diary.Today()
	}

	entries, err := h.diary.Entries(c.Request.Context(), date)
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusOK, gin.H{"date": date, "entries": entries, "warning": err.Error()})
	case err != nil:
		respondError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"date": date, "entries": entries})
	}
}

// DailySummary aggregates one day against the goal, optionally overridden by
// calories, proteinPct and fatPct query parameters
func (h *Handler) DailySummary(c *gin.Context) {
	if h.diary == nil {
		notConfigured(c, "Diary")
		return
	}

	var req targetRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return
	}

	summary, err := h.diary.Summary(c.Request.Context(), c.Query("date"), req.apply(h.diary.DefaultTargets()))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	var cfgErr *domain.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrLookupUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found", "reason": err.Error()})
	case errors.Is(err, domain.ErrNoMatch):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidMealSlot):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": what + " is not configured"})
}
