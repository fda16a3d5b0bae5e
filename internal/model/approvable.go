package model

import "time"

// Action is a workflow command recorded in the approval history.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Approvable is the capability surface the policy engine evaluates.
// Both document variants implement it; the engine never inspects the
// concrete type beyond this interface.
type Approvable interface {
	// DocumentID identifies the document; equality is by id.
	DocumentID() string
	// Owner returns the creator's actor id. Immutable after creation.
	Owner() string
	// Pending reports whether the document sits at an approval gate.
	Pending() bool
	// Editable reports whether the document is in a status the owner may
	// still modify (draft or rejected).
	Editable() bool
	// Draft reports whether the document has never been submitted or was
	// returned to draft.
	Draft() bool
	// ApproverRoles returns the roles accepted at the current gate.
	// Empty when the document is not pending.
	ApproverRoles() []Role
	// ApproverDepartment returns the department the approver must belong
	// to at the current gate, or "" when the gate is not department-scoped.
	ApproverDepartment() string
	// GateAdmitsContent reports whether the document's content class is
	// accepted at its current gate. Only the presidential press gate
	// restricts content: it takes articles exclusively.
	GateAdmitsContent() bool
}

// HistoryRecord is one immutable entry in a document's approval history.
type HistoryRecord struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Action     Action    `json:"action"`
	ActorID    string    `json:"actor_id"`
	ActorRole  Role      `json:"actor_role"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
