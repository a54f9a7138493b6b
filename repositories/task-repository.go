package repositories

import (
	"context"
	"errors"
	"fmt"

	"lawbench-project/microservices/tasks-service/models"
	"lawbench-project/microservices/tasks-service/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepository is the MongoDB implementation of the task store.
type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(collection *mongo.Collection) *TaskRepository {
	return &TaskRepository{collection: collection}
}

var _ services.TaskStore = (*TaskRepository)(nil)

func (r *TaskRepository) LoadTask(ctx context.Context, id string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &models.ValidationError{Field: "id", Message: "invalid task ID format"}
	}

	var task models.Task
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &models.NotFoundError{Resource: "task", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task %s: %v", id, err)
	}
	return &task, nil
}

func (r *TaskRepository) SaveTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task, opts); err != nil {
		return nil, fmt.Errorf("failed to save task %s: %v", task.ID.Hex(), err)
	}
	return task, nil
}

func (r *TaskRepository) ListTasks(ctx context.Context, filter services.TaskFilter) ([]*models.Task, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.AssigneeID != "" {
		query["assignees.userId"] = filter.AssigneeID
	}
	if filter.CaseID != "" {
		query["caseReference.caseId"] = filter.CaseID
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []*models.Task
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}
		tasks = append(tasks, &task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return tasks, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &models.ValidationError{Field: "id", Message: "invalid task ID format"}
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %v", id, err)
	}
	if result.DeletedCount == 0 {
		return &models.NotFoundError{Resource: "task", ID: id}
	}
	return nil
}
