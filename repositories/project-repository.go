package repositories

import (
	"context"
	"fmt"

	"doctrack/backend/progress-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProjectRepository is the read-only view of projects. Project CRUD is
// owned by the projects service; the progress service only consumes them
// for rollups and display labels.
type ProjectRepository struct {
	projectsCollection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{projectsCollection: db.Collection("projects")}
}

func (r *ProjectRepository) FindByWorkspace(ctx context.Context, workspace primitive.ObjectID) ([]models.Project, error) {
	cursor, err := r.projectsCollection.Find(ctx, bson.M{"workspace": workspace})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}
