package repositories

import (
	"context"
	"fmt"

	"doctrack/backend/progress-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WorkLogRepository reads closed sessions for the aggregation engine.
// Entries are only ever written by the stop transaction in
// TaskRepository; this side is read-only.
type WorkLogRepository struct {
	workLogsCollection *mongo.Collection
}

func NewWorkLogRepository(db *mongo.Database) *WorkLogRepository {
	return &WorkLogRepository{workLogsCollection: db.Collection("task_work_logs")}
}

// FindInWindow returns the work-log rows whose activity timestamp falls
// inside the window, joined through their task (which carries the
// workspace scope) to the task's current project. The join always follows
// the task's current project link; entries are not snapshotted against
// the project they were logged under.
func (r *WorkLogRepository) FindInWindow(ctx context.Context, workspace primitive.ObjectID, user *primitive.ObjectID, window models.DateRange) ([]models.WorkLogRow, error) {
	match := bson.M{
		"activityAt": bson.M{"$gte": window.From, "$lte": window.To},
	}
	if user != nil {
		match["userId"] = *user
	}

	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{
			"activityAt": bson.M{"$ifNull": bson.A{"$stoppedAt", "$startedAt"}},
		}}},
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "tasks",
			"localField":   "taskId",
			"foreignField": "_id",
			"as":           "task",
		}}},
		{{Key: "$unwind", Value: "$task"}},
		{{Key: "$match", Value: bson.M{"task.workspace": workspace}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "projects",
			"localField":   "task.project",
			"foreignField": "_id",
			"as":           "project",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$project",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":             1,
			"taskId":          1,
			"userId":          1,
			"startedAt":       1,
			"stoppedAt":       1,
			"activityAt":      1,
			"durationMinutes": 1,
			"pagesCompleted":  bson.M{"$ifNull": bson.A{"$pagesCompleted", 0}},
			"remarks":         1,
			"taskTitle":       "$task.title",
			"taskCode":        "$task.taskCode",
			"projectId":       "$task.project",
			"projectName":     "$project.name",
		}}},
		{{Key: "$sort", Value: bson.M{"activityAt": -1}}},
	}

	cursor, err := r.workLogsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate work logs: %v", err)
	}
	defer cursor.Close(ctx)

	var rows []models.WorkLogRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode work log rows: %v", err)
	}
	return rows, nil
}
