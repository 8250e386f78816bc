package variants

import (
	"net/http"
	"strconv"

	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/dendrix-ai/dendrix-web/pkg/middleware"
	"github.com/dendrix-ai/dendrix-web/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const resolverContextKey = "variants.resolver"

// SessionCookie describes the cookie that identifies a visitor session
type SessionCookie struct {
	Name   string
	Secure bool
}

// SessionMiddleware attaches a Resolver bound to the visitor's session. A
// missing or malformed session cookie starts a new session.
func SessionMiddleware(svc *Service, caches CacheProvider, cookie SessionCookie) gin.HandlerFunc {
	if cookie.Name == "" {
		cookie.Name = "dx_session"
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookie.Name)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			// Session cookie: no Max-Age, gone when the browser closes.
			c.SetCookie(cookie.Name, sessionID, 0, "/", "", cookie.Secure, true)
		}

		c.Set(resolverContextKey, svc.ForSession(sessionID, caches.ForSession(sessionID)))
		c.Next()
	}
}

// ResolverFromContext returns the session's Resolver, or nil when
// SessionMiddleware did not run. A nil Resolver resolves nothing.
func ResolverFromContext(c *gin.Context) *Resolver {
	v, ok := c.Get(resolverContextKey)
	if !ok {
		return nil
	}
	r, _ := v.(*Resolver)
	return r
}

// Handler handles HTTP requests for content variants
type Handler struct {
	service *Service
}

// NewHandler creates a new content variants handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ========================================
// VISITOR ENDPOINTS
// ========================================

// GetVariant resolves the session's variant for a content key
// GET /api/v1/variants/:key?locale=et
func (h *Handler) GetVariant(c *gin.Context) {
	locale := requestLocale(c)
	if locale == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "locale is required")
		return
	}

	sel := ResolverFromContext(c).Resolve(c.Request.Context(), c.Param("key"), locale)
	common.SuccessResponse(c, ResolveResponse{Found: sel != nil, Selection: sel})
}

// RecordEngagement reports that the visitor interacted with a variant
// POST /api/v1/variants/engagement
func (h *Handler) RecordEngagement(c *gin.Context) {
	sel, ok := bindSelection(c)
	if !ok {
		return
	}
	ResolverFromContext(c).RecordEngagement(sel)
	common.SuccessResponseWithStatus(c, http.StatusAccepted, gin.H{"accepted": true})
}

// RecordConversion reports that a variant led to a conversion
// POST /api/v1/variants/conversion
func (h *Handler) RecordConversion(c *gin.Context) {
	sel, ok := bindSelection(c)
	if !ok {
		return
	}
	ResolverFromContext(c).RecordConversion(sel)
	common.SuccessResponseWithStatus(c, http.StatusAccepted, gin.H{"accepted": true})
}

// ClearCache forgets the session's selections
// DELETE /api/v1/variants/cache
func (h *Handler) ClearCache(c *gin.Context) {
	ResolverFromContext(c).ClearCache(c.Request.Context())
	common.SuccessResponse(c, gin.H{"cleared": true})
}

func bindSelection(c *gin.Context) (*VariantSelection, bool) {
	var req VariantEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return &VariantSelection{
		ContentKey:  req.ContentKey,
		Locale:      req.Locale,
		VariantName: req.VariantName,
	}, true
}

// requestLocale prefers an explicit ?locale= over the negotiated one
func requestLocale(c *gin.Context) string {
	if l := c.Query("locale"); l != "" {
		return l
	}
	return c.GetString("locale")
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// CreateVariant adds a variant to a slot
// POST /api/v1/admin/variants
func (h *Handler) CreateVariant(c *gin.Context) {
	var req CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	variant, err := h.service.CreateVariant(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := common.AsAppError(err); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create variant")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusCreated, variant)
}

// ListVariants lists variants
// GET /api/v1/admin/variants?content_key=&locale=
func (h *Handler) ListVariants(c *gin.Context) {
	params := pagination.ParseParams(c)

	variants, err := h.service.ListVariants(c.Request.Context(), c.Query("content_key"), c.Query("locale"), params.Limit, params.Offset)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list variants")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, int64(len(variants)))
	common.SuccessResponseWithMeta(c, variants, meta)
}

// SetActive enables or disables a variant
// POST /api/v1/admin/variants/:id/active?value=false
func (h *Handler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid variant id")
		return
	}

	active := true
	if v := c.Query("value"); v != "" {
		active, err = strconv.ParseBool(v)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "value must be true or false")
			return
		}
	}

	if err := h.service.SetActive(c.Request.Context(), id, active); err != nil {
		if appErr, ok := common.AsAppError(err); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update variant")
		return
	}

	common.SuccessResponse(c, gin.H{"id": id, "is_active": active})
}

// GetStats reports per-variant telemetry for a slot
// GET /api/v1/admin/variants/stats?content_key=&locale=
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context(), c.Query("content_key"), c.Query("locale"))
	if err != nil {
		if appErr, ok := common.AsAppError(err); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load stats")
		return
	}

	common.SuccessResponse(c, stats)
}

// RegisterRoutes registers content variant routes. The visitor routes expect
// SessionMiddleware to run before them; limit guards the telemetry writes.
func (h *Handler) RegisterRoutes(r *gin.Engine, session gin.HandlerFunc, adminToken string, limit ...gin.HandlerFunc) {
	visitor := r.Group("/api/v1/variants")
	visitor.Use(session)
	{
		visitor.GET("/:key", h.GetVariant)
		visitor.POST("/engagement", append(limit, h.RecordEngagement)...)
		visitor.POST("/conversion", append(limit, h.RecordConversion)...)
		visitor.DELETE("/cache", h.ClearCache)
	}

	admin := r.Group("/api/v1/admin/variants")
	admin.Use(middleware.RequireAdminToken(adminToken))
	{
		admin.POST("", h.CreateVariant)
		admin.GET("", h.ListVariants)
		admin.GET("/stats", h.GetStats)
		admin.POST("/:id/active", h.SetActive)
	}
}
