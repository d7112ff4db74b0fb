package release

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/watchnotify/notifier-api/internal/handler"
	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/service/release"
)

type Handler struct {
	service release.Service
}

func NewHandler(service release.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	releases := r.Group("/releases")
	{
		releases.POST("", h.CreateRelease)
		releases.GET("", h.ListReleases)
		releases.GET("/unnotified", h.ListUnnotified)
		releases.GET("/upcoming", h.ListUpcoming)
		releases.GET("/limited-edition", h.ListLimitedEdition)
		releases.GET("/brand/:brand", h.ListByBrand)
		releases.GET("/date-range", h.ListByDateRange)
		releases.GET("/:id", h.GetRelease)
		releases.PUT("/:id", h.UpdateRelease)
		releases.DELETE("/:id", h.DeleteRelease)
		releases.POST("/:id/mark-notified", h.MarkNotified)
	}
}

func (h *Handler) CreateRelease(c *gin.Context) {
	var req model.CreateReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	rel := &model.Release{
		WatchName:        req.WatchName,
		Brand:            req.Brand,
		ModelNumber:      req.ModelNumber,
		Description:      req.Description,
		ReleaseDate:      req.ReleaseDate,
		Price:            req.Price,
		Currency:         req.Currency,
		Features:         req.Features,
		Categories:       req.Categories,
		ImageURL:         req.ImageURL,
		ProductURL:       req.ProductURL,
		IsLimitedEdition: req.IsLimitedEdition,
		LimitedQuantity:  req.LimitedQuantity,
	}

	rel, err := h.service.CreateRelease(c.Request.Context(), rel)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(rel))
}

func (h *Handler) GetRelease(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid release ID"))
		return
	}

	rel, err := h.service.GetRelease(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rel))
}

func (h *Handler) UpdateRelease(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid release ID"))
		return
	}

	var req model.UpdateReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	existing, err := h.service.GetRelease(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	existing.WatchName = req.WatchName
	existing.Brand = req.Brand
	existing.ModelNumber = req.ModelNumber
	existing.Description = req.Description
	existing.ReleaseDate = req.ReleaseDate
	existing.Price = req.Price
	existing.Currency = req.Currency
	existing.Features = req.Features
	existing.Categories = req.Categories
	existing.ImageURL = req.ImageURL
	existing.ProductURL = req.ProductURL
	existing.IsLimitedEdition = req.IsLimitedEdition
	existing.LimitedQuantity = req.LimitedQuantity

	updated, err := h.service.UpdateRelease(c.Request.Context(), existing)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteRelease(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid release ID"))
		return
	}

	if err := h.service.DeleteRelease(c.Request.Context(), id); err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListReleases(c *gin.Context) {
	releases, err := h.service.ListReleases(c.Request.Context())
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(releases))
}

func (h *Handler) ListUnnotified(c *gin.Context) {
	releases, err := h.service.ListUnnotified(c.Request.Context())
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(releases))
}

func (h *Handler) ListUpcoming(c *gin.Context) {
	releases, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(releases))
}

func (h *Handler) ListLimitedEdition(c *gin.Context) {
	releases, err := h.service.ListLimitedEdition(c.Request.Context())
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(releases))
}

func (h *Handler) ListByBrand(c *gin.Context) {
	releases, err := h.service.ListByBrand(c.Request.Context(), c.Param("brand"))
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(releases))
}

func (h *Handler) ListByDateRange(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start date"))
		return
	}

	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end date"))
		return
	}

	releases, err := h.service.ListByDateRange(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(releases))
}

// MarkNotified flips the notified pair without dispatching anything.
func (h *Handler) MarkNotified(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid release ID"))
		return
	}

	if err := h.service.MarkNotified(c.Request.Context(), id); err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
