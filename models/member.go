package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Member is one roster row of a workspace as served by the users service.
// The progress service only reads the roster to label aggregation rows;
// membership itself is managed elsewhere.
type Member struct {
	UserID primitive.ObjectID `json:"userId" bson:"userId"`
	Name   string             `json:"name" bson:"name"`
}
