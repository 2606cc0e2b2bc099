package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project groups tasks inside a workspace. Client fields are external
// identifiers of the customer the job belongs to; both are optional and
// the aggregation engine buckets projects without them under a shared
// "unknown" client.
type Project struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Emoji         string             `json:"emoji,omitempty" bson:"emoji,omitempty"`
	ClientID      string             `json:"clientId,omitempty" bson:"clientId,omitempty"`
	ClientName    string             `json:"clientName,omitempty" bson:"clientName,omitempty"`
	ProjectCode   string             `json:"projectCode,omitempty" bson:"projectCode,omitempty"`
	TotalChapters *int               `json:"totalChapters,omitempty" bson:"totalChapters,omitempty"`
	Workspace     primitive.ObjectID `json:"workspace" bson:"workspace"`
	CreatedBy     primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProjectSummary is the slim projection used when a task or work-log row
// is enriched for display.
type ProjectSummary struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	ClientID   string             `json:"clientId,omitempty" bson:"clientId,omitempty"`
	ClientName string             `json:"clientName,omitempty" bson:"clientName,omitempty"`
}
