package model

import "time"

// ExpedienteStatus is the lifecycle status of a case file.
type ExpedienteStatus string

const (
	ExpedienteDraft    ExpedienteStatus = "draft"
	ExpedientePending  ExpedienteStatus = "pending_approval"
	ExpedienteApproved ExpedienteStatus = "approved"
	ExpedienteRejected ExpedienteStatus = "rejected"
)

// ApprovalLevel designates which role must approve a pending expediente.
type ApprovalLevel string

const (
	LevelCourtPresident   ApprovalLevel = "court_president"
	LevelGeneralSecretary ApprovalLevel = "general_secretary"
)

// Expediente is a judicial case file moving through the two-gate
// approval pipeline. Pure domain model, no persistence tags beyond JSON.
type Expediente struct {
	ID              string           `json:"id"`
	CaseNumber      string           `json:"case_number"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Status          ExpedienteStatus `json:"status"`
	CurrentLevel    ApprovalLevel    `json:"current_level,omitempty"`
	DepartmentID    string           `json:"department_id"`
	OwnerID         string           `json:"owner_id"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	Version         int64            `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

var _ Approvable = (*Expediente)(nil)

func (e *Expediente) DocumentID() string { return e.ID }
func (e *Expediente) Owner() string      { return e.OwnerID }

func (e *Expediente) Pending() bool { return e.Status == ExpedientePending }

func (e *Expediente) Editable() bool {
	return e.Status == ExpedienteDraft || e.Status == ExpedienteRejected
}

func (e *Expediente) Draft() bool { return e.Status == ExpedienteDraft }

// ApproverRoles maps the current level to the single role it designates.
// Only pending documents designate an approver.
func (e *Expediente) ApproverRoles() []Role {
	if !e.Pending() {
		return nil
	}
	switch e.CurrentLevel {
	case LevelCourtPresident:
		return []Role{RoleCourtPresident}
	case LevelGeneralSecretary:
		return []Role{RoleGeneralSecretary}
	}
	return nil
}

// ApproverDepartment scopes the first gate to the expediente's own
// department. The general secretary gate is institution-wide.
func (e *Expediente) ApproverDepartment() string {
	if e.Pending() && e.CurrentLevel == LevelCourtPresident {
		return e.DepartmentID
	}
	return ""
}

// GateAdmitsContent is always true for expedientes; their gates carry no
// content-class restriction.
func (e *Expediente) GateAdmitsContent() bool { return true }

// Terminal reports whether no further transitions exist.
func (e *Expediente) Terminal() bool { return e.Status == ExpedienteApproved }
