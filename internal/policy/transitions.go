package policy

import (
	"errors"

	"courtflow/internal/model"
)

// ErrNoTransition means the requested action has no outcome defined from
// the document's current status. It indicates a caller bug or a stale
// read, never a policy decision.
var ErrNoTransition = errors.New("no transition defined from current status")

// SubmitExpediente returns the status and level a case file enters when
// submitted. A rejected expediente re-enters at the first gate; it never
// resumes at the level it was rejected from.
func SubmitExpediente() (model.ExpedienteStatus, model.ApprovalLevel) {
	return model.ExpedientePending, model.LevelCourtPresident
}

// NextExpedienteStatus is the deterministic transition table for pending
// case files. Approval advances along court_president -> general_secretary
// -> approved; rejection always lands on rejected.
func NextExpedienteStatus(e *model.Expediente, action model.Action) (model.ExpedienteStatus, model.ApprovalLevel, error) {
	if e.Status != model.ExpedientePending {
		return "", "", ErrNoTransition
	}
	switch action {
	case model.ActionReject:
		return model.ExpedienteRejected, "", nil
	case model.ActionApprove:
		switch e.CurrentLevel {
		case model.LevelCourtPresident:
			return model.ExpedientePending, model.LevelGeneralSecretary, nil
		case model.LevelGeneralSecretary:
			return model.ExpedienteApproved, "", nil
		}
	}
	return "", "", ErrNoTransition
}

// SubmitNews returns the status a press item enters when submitted.
func SubmitNews() model.NewsStatus {
	return model.NewsPendingDirector
}

// NextNewsStatus is the deterministic transition table for pending press
// items. Director approval publishes notices and communiques immediately;
// only articles continue to the presidential gate.
func NextNewsStatus(n *model.NewsItem, action model.Action) (model.NewsStatus, error) {
	switch action {
	case model.ActionReject:
		if !n.Pending() {
			return "", ErrNoTransition
		}
		return model.NewsRejected, nil
	case model.ActionApprove:
		switch n.Status {
		case model.NewsPendingDirector:
			if n.Type == model.NewsArticle {
				return model.NewsPendingPresident, nil
			}
			return model.NewsPublished, nil
		case model.NewsPendingPresident:
			return model.NewsPublished, nil
		}
	}
	return "", ErrNoTransition
}
