package model

import "time"

// NewsStatus is the lifecycle status of a press item.
type NewsStatus string

const (
	NewsDraft            NewsStatus = "draft"
	NewsPendingDirector  NewsStatus = "pending_director"
	NewsPendingPresident NewsStatus = "pending_president"
	NewsPublished        NewsStatus = "published"
	NewsRejected         NewsStatus = "rejected"
)

// NewsType classifies press content. Only articles pass through the
// presidential gate; notices and communiques publish on director approval.
type NewsType string

const (
	NewsArticle    NewsType = "article"
	NewsNotice     NewsType = "notice"
	NewsCommunique NewsType = "communique"
)

var validNewsTypes = map[NewsType]bool{
	NewsArticle:    true,
	NewsNotice:     true,
	NewsCommunique: true,
}

// ParseNewsType validates a raw content type string from a request.
func ParseNewsType(s string) (NewsType, bool) {
	t := NewsType(s)
	return t, validNewsTypes[t]
}

// NewsItem is a press content item moving through the director gate and,
// for articles only, the presidential gate.
type NewsItem struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Type            NewsType   `json:"type"`
	Status          NewsStatus `json:"status"`
	OwnerID         string     `json:"owner_id"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

var _ Approvable = (*NewsItem)(nil)

func (n *NewsItem) DocumentID() string { return n.ID }
func (n *NewsItem) Owner() string      { return n.OwnerID }

func (n *NewsItem) Pending() bool {
	return n.Status == NewsPendingDirector || n.Status == NewsPendingPresident
}

func (n *NewsItem) Editable() bool {
	return n.Status == NewsDraft || n.Status == NewsRejected
}

func (n *NewsItem) Draft() bool { return n.Status == NewsDraft }

// ApproverRoles derives the gate's accepted roles from the status. The
// presidential gate accepts either the council president or the vice
// president.
func (n *NewsItem) ApproverRoles() []Role {
	switch n.Status {
	case NewsPendingDirector:
		return []Role{RolePressDirector}
	case NewsPendingPresident:
		return []Role{RoleCouncilPresident, RoleVicePresident}
	}
	return nil
}

// ApproverDepartment is always unscoped for press content.
func (n *NewsItem) ApproverDepartment() string { return "" }

// GateAdmitsContent rejects anything but articles at the presidential
// gate. Notices and communiques never legally reach that gate; the check
// guards data integrity if one does.
func (n *NewsItem) GateAdmitsContent() bool {
	if n.Status == NewsPendingPresident {
		return n.Type == NewsArticle
	}
	return true
}

// Terminal reports whether no further transitions exist.
func (n *NewsItem) Terminal() bool { return n.Status == NewsPublished }
