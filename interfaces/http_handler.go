package interfaces

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"recruitment-tracker/domain"
	"recruitment-tracker/infrastructure"
	"recruitment-tracker/service"
)

// Renderer turns an application detail view into a document.
type Renderer interface {
	Render(detail *domain.ApplicationDetail) ([]byte, error)
}

type HTTPHandler struct {
	DB          *gorm.DB
	Catalog     *service.Catalog
	Progression *service.Progression
	Aggregator  *service.Aggregator
	PDF         Renderer
	DOCX        Renderer
	Limiter     infrastructure.Limiter
	Log         *logrus.Logger

	ExportRateLimit  int
	ExportRateWindow time.Duration
}

// NewRouter builds the gin engine with the shared middleware and every
// route. Only peers in trustedProxies may set the client IP through
// forwarding headers.
func NewRouter(h *HTTPHandler, trustedProxies []string) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(gin.Recovery(), RequestID(), AccessLog(h.Log), CORS())
	NewHTTPHandler(router, h)
	return router, nil
}

func NewHTTPHandler(router *gin.Engine, h *HTTPHandler) {
	router.GET("/", h.Health)

	candidates := router.Group("/candidates")
	candidates.POST("", h.CreateCandidate)
	candidates.GET("", listHandler[domain.Candidate](h, nil))
	candidates.GET("/:id", getHandler[domain.Candidate](h, "candidate"))
	candidates.PUT("/:id", updateHandler(h, h.Catalog.UpdateCandidate))
	candidates.DELETE("/:id", deleteHandler(h, h.Catalog.DeleteCandidate))

	roles := router.Group("/roles")
	roles.POST("", h.CreateRole)
	roles.GET("", listHandler[domain.Role](h, nil))
	roles.GET("/:id", getHandler[domain.Role](h, "role"))
	roles.PUT("/:id", updateHandler(h, h.Catalog.UpdateRole))
	roles.DELETE("/:id", deleteHandler(h, h.Catalog.DeleteRole))

	stages := router.Group("/stages")
	stages.POST("", h.CreateStage)
	stages.GET("", listHandler[domain.Stage](h, nil))
	stages.GET("/:id", getHandler[domain.Stage](h, "stage"))
	stages.PUT("/:id", updateHandler(h, h.Catalog.UpdateStage))
	stages.DELETE("/:id", deleteHandler(h, h.Catalog.DeleteStage))

	openings := router.Group("/openings")
	openings.POST("", h.CreateOpening)
	openings.GET("", listHandler[domain.Opening](h, locationFilter))
	openings.GET("/:id", getHandler[domain.Opening](h, "opening"))
	openings.PUT("/:id", updateHandler(h, h.Catalog.UpdateOpening))
	openings.DELETE("/:id", deleteHandler(h, h.Catalog.DeleteOpening))

	experiences := router.Group("/experiences")
	experiences.POST("", h.CreateExperience)
	experiences.GET("", listHandler[domain.Experience](h, nil))
	experiences.GET("/:id", getHandler[domain.Experience](h, "experience"))
	experiences.PUT("/:id", updateHandler(h, h.Catalog.UpdateExperience))
	experiences.DELETE("/:id", deleteHandler(h, h.Catalog.DeleteExperience))

	applications := router.Group("/applications")
	applications.POST("", h.CreateApplication)
	applications.GET("", listHandler[domain.Application](h, nil))
	applications.POST("/by-month/detailed", h.ListByMonth)
	applications.GET("/:id", getHandler[domain.Application](h, "application"))
	applications.PUT("/:id", updateHandler(h, h.Catalog.UpdateApplication))
	applications.DELETE("/:id", deleteHandler(h, h.Catalog.DeleteApplication))
	applications.GET("/:id/details", h.GetApplicationDetails)
	applications.POST("/:id/update-stage", h.UpdateStage)

	export := RateLimit(h.Limiter, h.ExportRateLimit, h.ExportRateWindow, h.Log)
	applications.GET("/:id/pdf", export, h.exportHandler(h.PDF, "pdf", "application/pdf"))
	applications.GET("/:id/docx", export, h.exportHandler(h.DOCX, "docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
}

func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "Recruitment API is running"})
}

type updateStageRequest struct {
	Action          string `json:"action"`
	ExpectedStageID *uint  `json:"expected_stage_id"`
}

// UpdateStage moves an application to its next stage or rejects it.
func (h *HTTPHandler) UpdateStage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req updateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	app, err := h.Progression.Advance(c.Request.Context(), service.AdvanceRequest{
		ApplicationID:   id,
		Action:          req.Action,
		ExpectedStageID: req.ExpectedStageID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *HTTPHandler) GetApplicationDetails(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	detail, err := h.Aggregator.Aggregate(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// exportHandler renders the same view as GetApplicationDetails with r.
func (h *HTTPHandler) exportHandler(r Renderer, ext, contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		detail, err := h.Aggregator.Aggregate(c.Request.Context(), id)
		if err != nil {
			h.writeError(c, err)
			return
		}
		doc, err := r.Render(detail)
		if err != nil {
			h.writeError(c, fmt.Errorf("failed to render application %d as %s: %w", id, ext, err))
			return
		}

		c.Header("Content-Disposition", attachment(id, detail.CandidateName, ext))
		c.Data(http.StatusOK, contentType, doc)
	}
}

// attachment builds a Content-Disposition value. Quoting and non-ASCII
// names are handled by mime.FormatMediaType.
func attachment(id uint, candidateName, ext string) string {
	name := fmt.Sprintf("application_%d_%s.%s", id, strings.ReplaceAll(strings.TrimSpace(candidateName), " ", "_"), ext)
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return fmt.Sprintf("attachment; filename=application_%d.%s", id, ext)
}

type monthlyRequest struct {
	Year         *int   `json:"year" binding:"omitempty,min=1,max=9999"`
	Month        *int   `json:"month" binding:"omitempty,min=1,max=12"`
	StatusFilter string `json:"status_filter" binding:"omitempty,oneof=All Accepted Rejected Pending"`
}

// ListByMonth lists applications for a month with their current stage.
// An empty body lists everything.
func (h *HTTPHandler) ListByMonth(c *gin.Context) {
	var req monthlyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.bindError(c, err)
		return
	}

	filter := service.SummaryFilter{Year: req.Year, Month: req.Month}
	if req.StatusFilter != "" && req.StatusFilter != "All" {
		st, err := domain.ParseStatus(req.StatusFilter)
		if err != nil {
			h.writeError(c, err)
			return
		}
		filter.Status = &st
	}

	rows, err := h.Aggregator.Summaries(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *HTTPHandler) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id", "code": codeInvalidRequest})
		return 0, false
	}
	return uint(id), true
}
