package leads

import (
	"errors"
	"net/http"

	"github.com/dendrix-ai/dendrix-web/internal/locale"
	"github.com/dendrix-ai/dendrix-web/internal/variants"
	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/dendrix-ai/dendrix-web/pkg/i18n"
	"github.com/dendrix-ai/dendrix-web/pkg/validation"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for lead capture
type Handler struct {
	service *Service
}

// NewHandler creates a new leads handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateLead captures a lead form submission
// POST /api/v1/leads
func (h *Handler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	lang := locale.FromContext(c)
	resp, err := h.service.CreateLead(c.Request.Context(), variants.ResolverFromContext(c), &req, lang)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			message := "validation failed"
			if _, ok := verr.Errors["consent"]; ok {
				message = i18n.Translate("lead.consent_required", lang)
			}
			common.ValidationErrorResponse(c, message, verr.Errors)
			return
		}
		if appErr, ok := common.AsAppError(err); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to save lead")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusCreated, resp)
}

// RegisterRoutes registers lead routes. limit runs before the form handler.
func (h *Handler) RegisterRoutes(r *gin.Engine, session gin.HandlerFunc, limit ...gin.HandlerFunc) {
	leads := r.Group("/api/v1/leads")
	leads.Use(session)
	{
		leads.POST("", append(limit, h.CreateLead)...)
	}
}
