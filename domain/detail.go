package domain

import "time"

// StageStatus is the display state of a stage relative to an application.
// It is derived on read and never stored.
type StageStatus string

const (
	StageCompleted StageStatus = "Completed"
	StageCurrent   StageStatus = "Current"
	StagePending   StageStatus = "Pending"
)

type ExperienceDetail struct {
	ExperienceID uint       `json:"experience_id"`
	CompanyName  string     `json:"company_name"`
	Position     string     `json:"position"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Description  *string    `json:"description"`
}

type RoleStage struct {
	StageID       uint        `json:"stage_id"`
	StageName     string      `json:"stage_name"`
	StageSequence int         `json:"stage_sequence"`
	Status        StageStatus `json:"status"`
}

// ApplicationDetail is the composite view of an application joined with its
// candidate, role, current stage, experiences and the role's stage pipeline.
type ApplicationDetail struct {
	ApplicationID        uint               `json:"application_id"`
	CandidateID          uint               `json:"candidate_id"`
	CandidateName        string             `json:"candidate_name"`
	RoleID               uint               `json:"role_id"`
	RoleName             string             `json:"role_name"`
	CurrentStageID       uint               `json:"current_stage_id"`
	CurrentStageName     string             `json:"current_stage_name"`
	CurrentStageSequence int                `json:"current_stage_sequence"`
	Status               Status             `json:"status"`
	ApplicationDate      time.Time          `json:"application_date"`
	Rating               *int               `json:"rating"`
	Experiences          []ExperienceDetail `json:"experiences"`
	RoleStages           []RoleStage        `json:"role_stages"`
}

// StageProgress labels each stage as completed, current or pending for an
// application at currentStageID (sequence currentSequence) with status.
func StageProgress(status Status, currentStageID uint, currentSequence int, stages []Stage) []RoleStage {
	out := make([]RoleStage, 0, len(stages))
	for _, st := range stages {
		var s StageStatus
		switch {
		case status == StatusAccepted:
			s = StageCompleted
		case st.Sequence < currentSequence:
			s = StageCompleted
		case st.ID == currentStageID:
			s = StageCurrent
		default:
			s = StagePending
		}
		out = append(out, RoleStage{
			StageID:       st.ID,
			StageName:     st.Name,
			StageSequence: st.Sequence,
			Status:        s,
		})
	}
	return out
}

// StageInfo is the current stage summary used by list views.
type StageInfo struct {
	CurrentStage  uint   `json:"current_stage"`
	StageName     string `json:"stage_name"`
	StageSequence int    `json:"stage_sequence"`
}

// ApplicationSummary is one row of the monthly listing.
type ApplicationSummary struct {
	ApplicationID   uint       `json:"application_id"`
	CandidateName   string     `json:"candidate_name"`
	RoleName        string     `json:"role_name"`
	Rating          *int       `json:"rating"`
	ApplicationDate time.Time  `json:"application_date"`
	Attachments     *string    `json:"attachments"`
	Status          Status     `json:"status"`
	Stage           *StageInfo `json:"stage"`
}
