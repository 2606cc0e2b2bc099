package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctrack/backend/progress-service/models"
	"doctrack/backend/progress-service/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// errTimerRaced aborts the stop transaction when the guarded task update
// matched nothing, i.e. a concurrent transition won.
var errTimerRaced = errors.New("timer state changed concurrently")

// TaskRepository persists tasks and owns the stop transaction, which
// spans the tasks and work-log collections.
type TaskRepository struct {
	client             *mongo.Client
	tasksCollection    *mongo.Collection
	workLogsCollection *mongo.Collection
}

func NewTaskRepository(client *mongo.Client, db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		client:             client,
		tasksCollection:    db.Collection("tasks"),
		workLogsCollection: db.Collection("task_work_logs"),
	}
}

func (r *TaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := r.tasksCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Find(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := bson.M{"workspace": filter.Workspace}
	if filter.Project != nil {
		query["project"] = *filter.Project
	}
	if filter.AssignedTo != nil {
		query["assignedTo"] = *filter.AssignedTo
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := r.tasksCollection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Insert(ctx context.Context, task *models.Task) error {
	result, err := r.tasksCollection.InsertOne(ctx, task)
	if err != nil {
		return err
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus, updatedAt time.Time) (bool, error) {
	result, err := r.tasksCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": updatedAt}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.tasksCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// MarkRunning performs the start transition as a single conditional
// update: the isRunning filter is what serializes concurrent starts on
// the same task.
func (r *TaskRepository) MarkRunning(ctx context.Context, id primitive.ObjectID, startAt time.Time, setFirstStarted bool) (bool, error) {
	set := bson.M{
		"activeStartAt": startAt,
		"isRunning":     true,
		"updatedAt":     startAt,
	}
	if setFirstStarted {
		set["firstStartedAt"] = startAt
	}

	result, err := r.tasksCollection.UpdateOne(ctx,
		bson.M{"_id": id, "isRunning": false},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// CommitStop appends the work-log entry and updates the task accumulators
// inside one transaction. The task update is additionally guarded by the
// expected activeStartAt, so a concurrent stop aborts the whole unit: a
// log row without the matching accumulator update can never be left
// behind.
func (r *TaskRepository) CommitStop(ctx context.Context, commit services.StopCommit) (bool, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return false, fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.workLogsCollection.InsertOne(sc, commit.Entry); err != nil {
			return nil, err
		}

		set := bson.M{
			"isRunning":         false,
			"activeStartAt":     nil,
			"lastStoppedAt":     commit.StoppedAt,
			"totalSecondsSpent": commit.TotalSecondsSpent,
			"totalMinutesSpent": commit.TotalMinutesSpent,
			"updatedAt":         commit.StoppedAt,
		}
		if commit.PagesCompleted != nil {
			set["pagesCompleted"] = *commit.PagesCompleted
		}
		if commit.Remarks != nil {
			set["remarks"] = *commit.Remarks
		}

		result, err := r.tasksCollection.UpdateOne(sc,
			bson.M{
				"_id":           commit.TaskID,
				"isRunning":     true,
				"activeStartAt": commit.ActiveStartAt,
			},
			bson.M{"$set": set},
		)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, errTimerRaced
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, errTimerRaced) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
