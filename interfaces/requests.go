package interfaces

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recruitment-tracker/domain"
	"recruitment-tracker/service"
)

type candidateRequest struct {
	Photo       *string `json:"photo"`
	Name        string  `json:"candidate_name" binding:"required,notblank"`
	Email       string  `json:"email" binding:"required,email"`
	PhoneNumber string  `json:"phone_number" binding:"required,notblank"`
}

type roleRequest struct {
	Name        string  `json:"name" binding:"required,notblank"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type stageRequest struct {
	Name     string `json:"stage_name" binding:"required,notblank"`
	RoleID   uint   `json:"role_id" binding:"required"`
	Sequence *int   `json:"stage_sequence" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

type openingRequest struct {
	Title              string     `json:"title" binding:"required,notblank"`
	Description        string     `json:"description" binding:"required"`
	Requirements       string     `json:"requirements" binding:"required"`
	SalaryRange        string     `json:"salary_range" binding:"required"`
	Location           string     `json:"location" binding:"required,notblank"`
	IsRemote           bool       `json:"is_remote"`
	IsActive           *bool      `json:"is_active"`
	PostedDate         *time.Time `json:"posted_date"`
	Deadline           time.Time  `json:"deadline" binding:"required"`
	RoleID             uint       `json:"role_id" binding:"required"`
	ExperienceRequired int        `json:"experience_required" binding:"min=0"`
}

type experienceRequest struct {
	ApplicationID uint       `json:"application_id" binding:"required"`
	CompanyName   string     `json:"company_name" binding:"required,notblank"`
	Position      string     `json:"position" binding:"required,notblank"`
	Description   *string    `json:"description"`
	StartDate     time.Time  `json:"start_date" binding:"required"`
	EndDate       *time.Time `json:"end_date"`
}

// applicationRequest has no status field: new applications start pending.
type applicationRequest struct {
	CandidateID     uint       `json:"candidate_id" binding:"required"`
	OpeningID       uint       `json:"opening_id" binding:"required"`
	RoleID          *uint      `json:"role_id"`
	CurrentStage    *uint      `json:"current_stage"`
	Rating          *int       `json:"rating" binding:"omitempty,min=0,max=5"`
	Attachments     *string    `json:"attachments"`
	ApplicationDate *time.Time `json:"application_date"`
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func (h *HTTPHandler) CreateCandidate(c *gin.Context) {
	var req candidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	candidate := &domain.Candidate{Photo: req.Photo, Name: req.Name, Email: req.Email, PhoneNumber: req.PhoneNumber}
	if err := h.Catalog.CreateCandidate(c.Request.Context(), candidate); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

func (h *HTTPHandler) CreateRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	role := &domain.Role{Name: req.Name, Description: req.Description, IsActive: boolOr(req.IsActive, true)}
	if err := h.Catalog.CreateRole(c.Request.Context(), role); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

func (h *HTTPHandler) CreateStage(c *gin.Context) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	stage := &domain.Stage{Name: req.Name, RoleID: req.RoleID, Sequence: *req.Sequence, IsActive: boolOr(req.IsActive, true)}
	if err := h.Catalog.CreateStage(c.Request.Context(), stage); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stage)
}

func (h *HTTPHandler) CreateOpening(c *gin.Context) {
	var req openingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	opening := &domain.Opening{
		Title:              req.Title,
		Description:        req.Description,
		Requirements:       req.Requirements,
		SalaryRange:        req.SalaryRange,
		Location:           req.Location,
		IsRemote:           req.IsRemote,
		IsActive:           boolOr(req.IsActive, true),
		Deadline:           req.Deadline,
		RoleID:             req.RoleID,
		ExperienceRequired: req.ExperienceRequired,
	}
	if req.PostedDate != nil {
		opening.PostedDate = *req.PostedDate
	}
	if err := h.Catalog.CreateOpening(c.Request.Context(), opening); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, opening)
}

func (h *HTTPHandler) CreateExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	experience := &domain.Experience{
		ApplicationID: req.ApplicationID,
		CompanyName:   req.CompanyName,
		Position:      req.Position,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}
	if err := h.Catalog.CreateExperience(c.Request.Context(), experience); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, experience)
}

func (h *HTTPHandler) CreateApplication(c *gin.Context) {
	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	app, err := h.Catalog.CreateApplication(c.Request.Context(), service.NewApplication{
		CandidateID:     req.CandidateID,
		OpeningID:       req.OpeningID,
		RoleID:          req.RoleID,
		CurrentStageID:  req.CurrentStage,
		Rating:          req.Rating,
		Attachments:     req.Attachments,
		ApplicationDate: req.ApplicationDate,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}
