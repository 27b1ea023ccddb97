package model

import "time"

// AffiliationModel is the affiliations collection document.
type AffiliationModel struct {
	ID         string    `bson:"_id"`
	OrgID      string    `bson:"org_id"`
	UserID     string    `bson:"user_id"`
	Permission string    `bson:"permission"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// ClaimModel is the claims collection document.
type ClaimModel struct {
	ID        string    `bson:"_id"`
	OrgID     string    `bson:"org_id"`
	Domain    string    `bson:"domain"`
	CreatedAt time.Time `bson:"created_at"`
}
