package domain

import "time"

// Patch types carry the fields a partial update may change. A nil field is
// left untouched.

type CandidatePatch struct {
	Photo       *string `json:"photo"`
	Name        *string `json:"candidate_name" binding:"omitempty,notblank"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,notblank"`
}

func (p CandidatePatch) Apply(c *Candidate) {
	if p.Photo != nil {
		c.Photo = p.Photo
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
}

type RolePatch struct {
	Name        *string `json:"name" binding:"omitempty,notblank"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (p RolePatch) Apply(r *Role) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = p.Description
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
}

// StagePatch cannot move a stage to another role.
type StagePatch struct {
	Name     *string `json:"stage_name" binding:"omitempty,notblank"`
	Sequence *int    `json:"stage_sequence"`
	IsActive *bool   `json:"is_active"`
}

func (p StagePatch) Apply(s *Stage) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Sequence != nil {
		s.Sequence = *p.Sequence
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
}

type OpeningPatch struct {
	Title              *string    `json:"title" binding:"omitempty,notblank"`
	Description        *string    `json:"description"`
	Requirements       *string    `json:"requirements"`
	SalaryRange        *string    `json:"salary_range"`
	Location           *string    `json:"location" binding:"omitempty,notblank"`
	IsRemote           *bool      `json:"is_remote"`
	IsActive           *bool      `json:"is_active"`
	Deadline           *time.Time `json:"deadline"`
	ExperienceRequired *int       `json:"experience_required" binding:"omitempty,min=0"`
}

func (p OpeningPatch) Apply(o *Opening) {
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Requirements != nil {
		o.Requirements = *p.Requirements
	}
	if p.SalaryRange != nil {
		o.SalaryRange = *p.SalaryRange
	}
	if p.Location != nil {
		o.Location = *p.Location
	}
	if p.IsRemote != nil {
		o.IsRemote = *p.IsRemote
	}
	if p.IsActive != nil {
		o.IsActive = *p.IsActive
	}
	if p.Deadline != nil {
		o.Deadline = *p.Deadline
	}
	if p.ExperienceRequired != nil {
		o.ExperienceRequired = *p.ExperienceRequired
	}
}

type ExperiencePatch struct {
	CompanyName *string    `json:"company_name" binding:"omitempty,notblank"`
	Position    *string    `json:"position" binding:"omitempty,notblank"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (p ExperiencePatch) Apply(e *Experience) {
	if p.CompanyName != nil {
		e.CompanyName = *p.CompanyName
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		e.EndDate = p.EndDate
	}
}

// ApplicationPatch omits status and current stage; those only
// change through a stage transition.
type ApplicationPatch struct {
	Rating          *int       `json:"rating" binding:"omitempty,min=0,max=5"`
	Attachments     *string    `json:"attachments"`
	ApplicationDate *time.Time `json:"application_date"`
}

func (p ApplicationPatch) Apply(a *Application) {
	if p.Rating != nil {
		a.Rating = p.Rating
	}
	if p.Attachments != nil {
		a.Attachments = p.Attachments
	}
	if p.ApplicationDate != nil {
		a.ApplicationDate = *p.ApplicationDate
	}
}
