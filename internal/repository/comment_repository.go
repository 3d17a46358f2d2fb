package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openvid/vidshare/internal/model"
)

const commentCollection = "comments"

// CommentRepo is the MongoDB implementation of CommentStore.
type CommentRepo struct{ db *mongo.Database }

func NewCommentRepo(db *mongo.Database) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) col() *mongo.Collection { return r.db.Collection(commentCollection) }

// Create inserts a new comment.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	if cm.ID == "" {
		cm.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cm.CreatedAt = now
	cm.UpdatedAt = now
	_, err := r.col().InsertOne(ctx, cm)
	return err
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id string) (model.Comment, error) {
	var cm model.Comment
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&cm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Comment{}, ErrNotFound
	}
	return cm, err
}

// UpdateText replaces the comment text and returns the updated document.
func (r *CommentRepo) UpdateText(ctx context.Context, id, text string) (model.Comment, error) {
	var cm model.Comment
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"commentText": text, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Comment{}, ErrNotFound
	}
	return cm, err
}

// Delete removes a comment by id.
func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByVideo returns all comments on a video, newest first.
func (r *CommentRepo) ListByVideo(ctx context.Context, videoID string) ([]model.Comment, error) {
	cur, err := r.col().Find(ctx,
		bson.M{"video_id": videoID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := []model.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
