// Package visibility derives, for one actor, the subset of documents they
// may see and the actions currently legal on each. It is implemented
// entirely by delegation to the policy package — there is no second rule
// set here, only the same predicates applied in bulk.
package visibility

import (
	"courtflow/internal/model"
	"courtflow/internal/policy"
	"courtflow/internal/repository"
)

// Actions maps an action name to whether the actor may perform it now.
type Actions map[string]bool

// ActionsFor computes the affordance map for one document by calling the
// policy predicates.
func ActionsFor(actor model.Actor, doc model.Approvable) Actions {
	return Actions{
		"edit":    policy.CanEdit(actor, doc),
		"submit":  policy.CanSubmit(actor, doc),
		"approve": policy.CanApprove(actor, doc),
		"reject":  policy.CanReject(actor, doc),
		"delete":  policy.CanDelete(actor, doc),
	}
}

// CanViewExpediente reports whether the actor may see the case file:
// owners always see their own, admin sees all, and gate holders see what
// is pending at their gate.
func CanViewExpediente(actor model.Actor, e *model.Expediente) bool {
	if actor.IsZero() {
		return false
	}
	if actor.Role == model.RoleAdmin || actor.ID == e.OwnerID {
		return true
	}
	return policy.CanApprove(actor, e)
}

// CanViewNews applies the same ownership/gate rules as expedientes;
// published items are additionally visible to every authenticated actor.
func CanViewNews(actor model.Actor, n *model.NewsItem) bool {
	if actor.IsZero() {
		return false
	}
	if actor.Role == model.RoleAdmin || actor.ID == n.OwnerID {
		return true
	}
	if n.Status == model.NewsPublished {
		return true
	}
	return policy.CanApprove(actor, n)
}

// ExpedienteView is one visible case file plus its affordances.
type ExpedienteView struct {
	Expediente model.Expediente `json:"expediente"`
	Actions    Actions          `json:"actions"`
}

// NewsView is one visible press item plus its affordances.
type NewsView struct {
	News    model.NewsItem `json:"news"`
	Actions Actions        `json:"actions"`
}

// ProjectExpedientes filters the documents down to what the actor may see
// and attaches per-document affordances.
func ProjectExpedientes(actor model.Actor, items []model.Expediente) []ExpedienteView {
	views := make([]ExpedienteView, 0, len(items))
	for i := range items {
		e := items[i]
		if !CanViewExpediente(actor, &e) {
			continue
		}
		views = append(views, ExpedienteView{Expediente: e, Actions: ActionsFor(actor, &e)})
	}
	return views
}

// ProjectNews filters the press items down to what the actor may see and
// attaches per-document affordances.
func ProjectNews(actor model.Actor, items []model.NewsItem) []NewsView {
	views := make([]NewsView, 0, len(items))
	for i := range items {
		n := items[i]
		if !CanViewNews(actor, &n) {
			continue
		}
		views = append(views, NewsView{News: n, Actions: ActionsFor(actor, &n)})
	}
	return views
}

// ExpedienteQuery derives the server-side narrowing for the actor's role.
// The filter must over-approximate CanViewExpediente: every row the
// predicate admits survives it, and ProjectExpedientes applies the exact
// predicate afterwards. The transport layer never filters on its own.
func ExpedienteQuery(actor model.Actor) repository.ExpedienteFilter {
	switch actor.Role {
	case model.RoleAdmin:
		return repository.ExpedienteFilter{}
	case model.RoleCourtPresident:
		// The gate is department-scoped, but their own case files may
		// have been opened under another department.
		return repository.ExpedienteFilter{DepartmentID: actor.DepartmentID, OrOwnerID: actor.ID}
	case model.RoleGeneralSecretary:
		return repository.ExpedienteFilter{Status: model.ExpedientePending}
	default:
		return repository.ExpedienteFilter{OwnerID: actor.ID}
	}
}

// NewsQuery derives the server-side narrowing for the actor's role. Like
// ExpedienteQuery it must over-approximate CanViewNews, which grants
// published items to every authenticated actor.
func NewsQuery(actor model.Actor) repository.NewsFilter {
	switch actor.Role {
	case model.RoleAdmin, model.RolePressDirector, model.RoleCouncilPresident:
		return repository.NewsFilter{}
	case model.RoleVicePresident:
		return repository.NewsFilter{Status: model.NewsPendingPresident, OrPublished: true}
	default:
		return repository.NewsFilter{OwnerID: actor.ID, OrPublished: true}
	}
}
