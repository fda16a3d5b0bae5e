package visibility

import (
	"testing"

	"courtflow/internal/model"
	"courtflow/internal/repository"

	"github.com/stretchr/testify/assert"
)

var (
	admin      = model.Actor{ID: "u-admin", Role: model.RoleAdmin}
	judge      = model.Actor{ID: "u-judge", Role: model.RoleJudge, DepartmentID: "dep-1"}
	pres       = model.Actor{ID: "u-pres", Role: model.RoleCourtPresident, DepartmentID: "dep-1"}
	otherPres  = model.Actor{ID: "u-pres2", Role: model.RoleCourtPresident, DepartmentID: "dep-2"}
	secretary  = model.Actor{ID: "u-secr", Role: model.RoleGeneralSecretary}
	director   = model.Actor{ID: "u-dir", Role: model.RolePressDirector}
	technician = model.Actor{ID: "u-tech", Role: model.RolePressTechnician}
	council    = model.Actor{ID: "u-council", Role: model.RoleCouncilPresident}
	vice       = model.Actor{ID: "u-vice", Role: model.RoleVicePresident}
)

func TestCanViewExpediente(t *testing.T) {
	pendingFirstGate := &model.Expediente{
		ID: "exp-1", Status: model.ExpedientePending,
		CurrentLevel: model.LevelCourtPresident,
		DepartmentID: "dep-1", OwnerID: judge.ID,
	}
	pendingSecondGate := &model.Expediente{
		ID: "exp-2", Status: model.ExpedientePending,
		CurrentLevel: model.LevelGeneralSecretary,
		DepartmentID: "dep-1", OwnerID: judge.ID,
	}
	draft := &model.Expediente{
		ID: "exp-3", Status: model.ExpedienteDraft,
		DepartmentID: "dep-1", OwnerID: judge.ID,
	}

	tests := []struct {
		name  string
		actor model.Actor
		doc   *model.Expediente
		want  bool
	}{
		{"owner sees own draft", judge, draft, true},
		{"admin sees everything", admin, draft, true},
		{"gate holder sees the document awaiting them", pres, pendingFirstGate, true},
		{"president of another department does not", otherPres, pendingFirstGate, false},
		{"secretary does not see the first gate", secretary, pendingFirstGate, false},
		{"secretary sees the second gate", secretary, pendingSecondGate, true},
		{"first-gate president loses sight after clearing", pres, pendingSecondGate, false},
		{"press staff never see case files", director, pendingFirstGate, false},
		{"unauthenticated sees nothing", model.Actor{}, draft, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewExpediente(tt.actor, tt.doc))
		})
	}
}

func TestCanViewNews(t *testing.T) {
	published := &model.NewsItem{
		ID: "n-1", Type: model.NewsArticle,
		Status: model.NewsPublished, OwnerID: technician.ID,
	}
	pendingPresident := &model.NewsItem{
		ID: "n-2", Type: model.NewsArticle,
		Status: model.NewsPendingPresident, OwnerID: technician.ID,
	}
	draft := &model.NewsItem{
		ID: "n-3", Type: model.NewsNotice,
		Status: model.NewsDraft, OwnerID: technician.ID,
	}

	tests := []struct {
		name  string
		actor model.Actor
		doc   *model.NewsItem
		want  bool
	}{
		{"published is visible to any signed-in reader", judge, published, true},
		{"published is not visible anonymously", model.Actor{}, published, false},
		{"owner sees own draft", technician, draft, true},
		{"director does not see foreign drafts", director, draft, false},
		{"council president sees the presidential queue", council, pendingPresident, true},
		{"vice president sees the presidential queue", vice, pendingPresident, true},
		{"judge does not see items in review", judge, pendingPresident, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewNews(tt.actor, tt.doc))
		})
	}
}

func TestActionsFor(t *testing.T) {
	pending := &model.Expediente{
		ID: "exp-1", Status: model.ExpedientePending,
		CurrentLevel: model.LevelCourtPresident,
		DepartmentID: "dep-1", OwnerID: judge.ID,
	}

	t.Run("gate holder gets decision affordances only", func(t *testing.T) {
		actions := ActionsFor(pres, pending)
		assert.True(t, actions["approve"])
		assert.True(t, actions["reject"])
		assert.False(t, actions["edit"])
		assert.False(t, actions["delete"])
	})

	t.Run("owner of a pending document can only wait", func(t *testing.T) {
		actions := ActionsFor(judge, pending)
		for name, allowed := range actions {
			assert.False(t, allowed, name)
		}
	})

	t.Run("owner of a draft can edit, submit, delete", func(t *testing.T) {
		draft := &model.Expediente{ID: "exp-2", Status: model.ExpedienteDraft, OwnerID: judge.ID}
		actions := ActionsFor(judge, draft)
		assert.True(t, actions["edit"])
		assert.True(t, actions["submit"])
		assert.True(t, actions["delete"])
		assert.False(t, actions["approve"])
	})
}

func TestExpedienteQuery(t *testing.T) {
	tests := []struct {
		name  string
		actor model.Actor
		want  repository.ExpedienteFilter
	}{
		{"admin is unfiltered", admin, repository.ExpedienteFilter{}},
		{"court president scopes to the department plus own rows", pres, repository.ExpedienteFilter{DepartmentID: "dep-1", OrOwnerID: pres.ID}},
		{"secretary scopes to pending", secretary, repository.ExpedienteFilter{Status: model.ExpedientePending}},
		{"judge scopes to own documents", judge, repository.ExpedienteFilter{OwnerID: judge.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpedienteQuery(tt.actor))
		})
	}
}

func TestNewsQuery(t *testing.T) {
	tests := []struct {
		name  string
		actor model.Actor
		want  repository.NewsFilter
	}{
		{"admin is unfiltered", admin, repository.NewsFilter{}},
		{"director is unfiltered", director, repository.NewsFilter{}},
		{"council president is unfiltered", council, repository.NewsFilter{}},
		{"vice president scopes to the presidential queue plus published", vice, repository.NewsFilter{Status: model.NewsPendingPresident, OrPublished: true}},
		{"technician scopes to own items plus published", technician, repository.NewsFilter{OwnerID: technician.ID, OrPublished: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewsQuery(tt.actor))
		})
	}
}

// The filter helpers below mirror the repository's WHERE clause: the
// narrowing conjuncts, widened by the Or field.
func expedienteFilterAdmits(f repository.ExpedienteFilter, e *model.Expediente) bool {
	narrow := (f.Status == "" || e.Status == f.Status) &&
		(f.Level == "" || e.CurrentLevel == f.Level) &&
		(f.DepartmentID == "" || e.DepartmentID == f.DepartmentID) &&
		(f.OwnerID == "" || e.OwnerID == f.OwnerID)
	return narrow || (f.OrOwnerID != "" && e.OwnerID == f.OrOwnerID)
}

func newsFilterAdmits(f repository.NewsFilter, n *model.NewsItem) bool {
	narrow := (f.Status == "" || n.Status == f.Status) &&
		(f.Type == "" || n.Type == f.Type) &&
		(f.OwnerID == "" || n.OwnerID == f.OwnerID)
	return narrow || (f.OrPublished && n.Status == model.NewsPublished)
}

// Every document the view predicate grants must survive its role's query
// filter, or List would hide rows that Get serves.
func TestQueryFiltersCoverViewPredicates(t *testing.T) {
	actors := []model.Actor{admin, judge, pres, otherPres, secretary, director, technician, council, vice}

	t.Run("expedientes", func(t *testing.T) {
		corpus := []*model.Expediente{
			{ID: "exp-1", Status: model.ExpedienteDraft, DepartmentID: "dep-1", OwnerID: judge.ID},
			{ID: "exp-2", Status: model.ExpedientePending, CurrentLevel: model.LevelCourtPresident, DepartmentID: "dep-1", OwnerID: judge.ID},
			{ID: "exp-3", Status: model.ExpedientePending, CurrentLevel: model.LevelGeneralSecretary, DepartmentID: "dep-1", OwnerID: judge.ID},
			{ID: "exp-4", Status: model.ExpedienteApproved, DepartmentID: "dep-1", OwnerID: judge.ID},
			// A president's own case file opened under another department.
			{ID: "exp-5", Status: model.ExpedienteRejected, DepartmentID: "dep-2", OwnerID: pres.ID},
			{ID: "exp-6", Status: model.ExpedientePending, CurrentLevel: model.LevelCourtPresident, DepartmentID: "dep-2", OwnerID: otherPres.ID},
		}
		for _, actor := range actors {
			f := ExpedienteQuery(actor)
			for _, e := range corpus {
				if CanViewExpediente(actor, e) {
					assert.True(t, expedienteFilterAdmits(f, e),
						"role %s filter must admit %s", actor.Role, e.ID)
				}
			}
		}
	})

	t.Run("news", func(t *testing.T) {
		corpus := []*model.NewsItem{
			{ID: "n-1", Type: model.NewsArticle, Status: model.NewsDraft, OwnerID: technician.ID},
			{ID: "n-2", Type: model.NewsArticle, Status: model.NewsPendingDirector, OwnerID: technician.ID},
			{ID: "n-3", Type: model.NewsArticle, Status: model.NewsPendingPresident, OwnerID: technician.ID},
			// Published items are readable by every authenticated actor.
			{ID: "n-4", Type: model.NewsArticle, Status: model.NewsPublished, OwnerID: technician.ID},
			{ID: "n-5", Type: model.NewsNotice, Status: model.NewsPendingDirector, OwnerID: judge.ID},
			{ID: "n-6", Type: model.NewsCommunique, Status: model.NewsRejected, OwnerID: director.ID},
		}
		for _, actor := range actors {
			f := NewsQuery(actor)
			for _, n := range corpus {
				if CanViewNews(actor, n) {
					assert.True(t, newsFilterAdmits(f, n),
						"role %s filter must admit %s", actor.Role, n.ID)
				}
			}
		}
	})
}

// The projector refines the over-approximating repository filter.
func TestProjectExpedientes(t *testing.T) {
	items := []model.Expediente{
		{ID: "exp-1", Status: model.ExpedienteDraft, DepartmentID: "dep-1", OwnerID: "someone-else"},
		{ID: "exp-2", Status: model.ExpedientePending, CurrentLevel: model.LevelCourtPresident, DepartmentID: "dep-1", OwnerID: "someone-else"},
	}

	// Department scoping alone would show the president both rows; only
	// the one at their gate survives projection.
	views := ProjectExpedientes(pres, items)
	assert.Len(t, views, 1)
	assert.Equal(t, "exp-2", views[0].Expediente.ID)
	assert.True(t, views[0].Actions["approve"])
}
