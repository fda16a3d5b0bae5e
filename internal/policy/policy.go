// Package policy is the single source of truth for workflow authorization.
// Every predicate is a pure function over (actor, document); the orchestrator,
// the visibility projector, and the HTTP layer all call these functions and
// never reimplement the rules.
package policy

import (
	"fmt"
	"slices"

	"courtflow/internal/model"
)

// Predicate names carried by a Violation. The HTTP layer surfaces them
// verbatim so a caller can tell exactly which rule rejected the action.
const (
	PredicateUnauthenticated    = "unauthenticated"
	PredicateNotOwner           = "not-owner"
	PredicateNotEditable        = "not-editable-status"
	PredicateNotDraft           = "not-draft"
	PredicateNotPending         = "not-pending"
	PredicateSelfApproval       = "self-approval-forbidden"
	PredicateWrongApproverRole  = "wrong-approver-role"
	PredicateDepartmentMismatch = "department-mismatch"
	PredicateWrongGateForType   = "wrong-gate-for-content-type"
	PredicateRoleNotPermitted   = "role-not-permitted"
)

// Violation reports which predicate denied an action. A nil *Violation
// means the action is allowed.
type Violation struct {
	Predicate string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("policy violation: %s", v.Predicate)
}

func deny(predicate string) *Violation {
	return &Violation{Predicate: predicate}
}

// EvaluateEdit decides whether the actor may modify the document's fields.
// Editing is owner-gated (admin override) and limited to draft/rejected.
func EvaluateEdit(actor model.Actor, doc model.Approvable) *Violation {
	if actor.IsZero() {
		return deny(PredicateUnauthenticated)
	}
	if !doc.Editable() {
		return deny(PredicateNotEditable)
	}
	if actor.ID != doc.Owner() && actor.Role != model.RoleAdmin {
		return deny(PredicateNotOwner)
	}
	return nil
}

// EvaluateSubmit decides whether the actor may send the document into the
// approval pipeline. Same predicate as edit: owner-gated from draft/rejected.
func EvaluateSubmit(actor model.Actor, doc model.Approvable) *Violation {
	return EvaluateEdit(actor, doc)
}

// EvaluateDelete decides whether the actor may destroy the document.
// Destruction is only permitted while the document is a draft.
func EvaluateDelete(actor model.Actor, doc model.Approvable) *Violation {
	if actor.IsZero() {
		return deny(PredicateUnauthenticated)
	}
	if !doc.Draft() {
		return deny(PredicateNotDraft)
	}
	if actor.ID != doc.Owner() && actor.Role != model.RoleAdmin {
		return deny(PredicateNotOwner)
	}
	return nil
}

// EvaluateApprove is the decisive gate algorithm. Order matters: the
// ownership check precedes the role check, so a court president who
// submitted their own case can never clear their own gate. Admin passes
// unconditionally, including over admin's own documents; that override is
// a confirmed product decision, not an accident.
func EvaluateApprove(actor model.Actor, doc model.Approvable) *Violation {
	if actor.IsZero() {
		return deny(PredicateUnauthenticated)
	}
	if !doc.Pending() {
		return deny(PredicateNotPending)
	}
	if actor.Role == model.RoleAdmin {
		return nil
	}
	if actor.ID == doc.Owner() {
		return deny(PredicateSelfApproval)
	}
	if !slices.Contains(doc.ApproverRoles(), actor.Role) {
		return deny(PredicateWrongApproverRole)
	}
	if dep := doc.ApproverDepartment(); dep != "" && actor.DepartmentID != dep {
		return deny(PredicateDepartmentMismatch)
	}
	if !doc.GateAdmitsContent() {
		return deny(PredicateWrongGateForType)
	}
	return nil
}

// EvaluateReject applies the same predicate as EvaluateApprove: whoever
// holds the gate may resolve it either way.
func EvaluateReject(actor model.Actor, doc model.Approvable) *Violation {
	return EvaluateApprove(actor, doc)
}

// expedienteCreators and newsCreators are the roles allowed to open new
// documents of each kind.
var expedienteCreators = []model.Role{
	model.RoleJudge,
	model.RoleCourtPresident,
	model.RoleCouncilPresident,
	model.RoleAdmin,
}

var newsCreators = []model.Role{
	model.RolePressTechnician,
	model.RolePressDirector,
	model.RoleCouncilPresident,
	model.RoleAdmin,
}

// courtSubmitters are the court-side roles allowed to hand notices and
// communiques to the press pipeline.
var courtSubmitters = []model.Role{
	model.RoleJudge,
	model.RoleCourtPresident,
	model.RoleAdmin,
}

// EvaluateCreateExpediente gates who may open a new case file.
func EvaluateCreateExpediente(actor model.Actor) *Violation {
	if actor.IsZero() {
		return deny(PredicateUnauthenticated)
	}
	if !slices.Contains(expedienteCreators, actor.Role) {
		return deny(PredicateRoleNotPermitted)
	}
	return nil
}

// EvaluateCreateNews gates who may author press content.
func EvaluateCreateNews(actor model.Actor) *Violation {
	if actor.IsZero() {
		return deny(PredicateUnauthenticated)
	}
	if !slices.Contains(newsCreators, actor.Role) {
		return deny(PredicateRoleNotPermitted)
	}
	return nil
}

// EvaluateCourtSubmission gates the court-to-press channel. Courts may
// only hand in notices and communiques, never articles.
func EvaluateCourtSubmission(actor model.Actor, contentType model.NewsType) *Violation {
	if actor.IsZero() {
		return deny(PredicateUnauthenticated)
	}
	if !slices.Contains(courtSubmitters, actor.Role) {
		return deny(PredicateRoleNotPermitted)
	}
	if contentType == model.NewsArticle {
		return deny(PredicateWrongGateForType)
	}
	return nil
}

// Boolean conveniences over the Evaluate* decisions. UI affordances and
// the visibility projector use these; the orchestrator uses the Evaluate*
// forms to surface the failed predicate.

func CanEdit(actor model.Actor, doc model.Approvable) bool {
	return EvaluateEdit(actor, doc) == nil
}

func CanSubmit(actor model.Actor, doc model.Approvable) bool {
	return EvaluateSubmit(actor, doc) == nil
}

func CanDelete(actor model.Actor, doc model.Approvable) bool {
	return EvaluateDelete(actor, doc) == nil
}

func CanApprove(actor model.Actor, doc model.Approvable) bool {
	return EvaluateApprove(actor, doc) == nil
}

func CanReject(actor model.Actor, doc model.Approvable) bool {
	return EvaluateReject(actor, doc) == nil
}
