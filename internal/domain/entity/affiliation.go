package entity

import "time"

// Affiliation is the edge recording a user's role within one organization.
// At most one affiliation exists per (organization, user) pair; the absence
// of an edge means the user has no permission on that organization.
type Affiliation struct {
	ID         string
	OrgID      string
	UserID     string
	Permission Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Claim is the edge recording an organization's ownership of a domain.
type Claim struct {
	ID        string
	OrgID     string
	Domain    string
	CreatedAt time.Time
}
