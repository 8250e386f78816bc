package content

import (
	"net/http"
	"strings"

	"github.com/dendrix-ai/dendrix-web/internal/locale"
	"github.com/dendrix-ai/dendrix-web/internal/variants"
	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for localized learning content
type Handler struct {
	service *Service
}

// NewHandler creates a new content handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Home returns the landing page
// GET /:locale
func (h *Handler) Home(c *gin.Context) {
	lang := requestLocale(c)
	common.SuccessResponse(c, h.service.Home(c.Request.Context(), overlayFor(c), lang))
}

// Stages returns the learning path stages
// GET /:locale/stages
func (h *Handler) Stages(c *gin.Context) {
	common.SuccessResponse(c, h.service.Stages(requestLocale(c)))
}

// ListConcepts lists concepts, optionally of one stage
// GET /:locale/concepts?stage=seed
func (h *Handler) ListConcepts(c *gin.Context) {
	var stage *Stage
	if raw := c.Query("stage"); raw != "" {
		st, err := ParseStage(raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid stage")
			return
		}
		stage = &st
	}

	concepts, err := h.service.ListConcepts(c.Request.Context(), overlayFor(c), requestLocale(c), stage)
	if err != nil {
		writeError(c, err, "failed to list concepts")
		return
	}
	common.SuccessResponse(c, concepts)
}

// GetConcept returns one concept
// GET /:locale/concepts/:slug
func (h *Handler) GetConcept(c *gin.Context) {
	detail, err := h.service.GetConcept(c.Request.Context(), overlayFor(c), c.Param("slug"), requestLocale(c))
	if err != nil {
		writeError(c, err, "failed to load concept")
		return
	}
	common.SuccessResponse(c, detail)
}

// ListPrograms lists active programs
// GET /:locale/programs
func (h *Handler) ListPrograms(c *gin.Context) {
	programs, err := h.service.ListPrograms(c.Request.Context(), overlayFor(c), requestLocale(c))
	if err != nil {
		writeError(c, err, "failed to list programs")
		return
	}
	common.SuccessResponse(c, programs)
}

// GetProgram returns one program
// GET /:locale/programs/:slug
func (h *Handler) GetProgram(c *gin.Context) {
	program, err := h.service.GetProgram(c.Request.Context(), overlayFor(c), c.Param("slug"), requestLocale(c))
	if err != nil {
		writeError(c, err, "failed to load program")
		return
	}
	common.SuccessResponse(c, program)
}

// RegisterRoutes registers the locale-prefixed page routes
func (h *Handler) RegisterRoutes(r *gin.Engine, negotiator *locale.Negotiator, session gin.HandlerFunc) {
	pages := r.Group("/:locale")
	pages.Use(requireSupportedLocale(negotiator), session)
	{
		pages.GET("", h.Home)
		pages.GET("/stages", h.Stages)
		pages.GET("/concepts", h.ListConcepts)
		pages.GET("/concepts/:slug", h.GetConcept)
		pages.GET("/programs", h.ListPrograms)
		pages.GET("/programs/:slug", h.GetProgram)
	}
}

// requireSupportedLocale 404s paths such as /favicon.ico that the locale
// middleware let through but that still match /:locale
func requireSupportedLocale(n *locale.Negotiator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !n.IsSupported(c.Param("locale")) {
			common.ErrorResponse(c, http.StatusNotFound, "not found")
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestLocale(c *gin.Context) string {
	return strings.ToLower(c.Param("locale"))
}

// overlayFor returns the session's resolver. A nil resolver leaves copy as is.
func overlayFor(c *gin.Context) Overlay {
	return variants.ResolverFromContext(c)
}

func writeError(c *gin.Context, err error, fallback string) {
	if appErr, ok := common.AsAppError(err); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
