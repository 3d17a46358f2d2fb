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

const videoCollection = "videos"

// VideoRepo is the MongoDB implementation of VideoStore. All engagement
// mutations are expressed as a single UpdateOne/FindOneAndUpdate carrying
// $addToSet/$pull so concurrent callers race at document granularity and
// never lose updates to read-modify-write in the handler.
type VideoRepo struct{ db *mongo.Database }

func NewVideoRepo(db *mongo.Database) *VideoRepo { return &VideoRepo{db: db} }

func (r *VideoRepo) col() *mongo.Collection { return r.db.Collection(videoCollection) }

// Create inserts a new video owned by v.UserID.
func (r *VideoRepo) Create(ctx context.Context, v *model.Video) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Tags == nil {
		v.Tags = []string{}
	}
	v.LikedBy = []string{}
	v.DislikedBy = []string{}
	v.ViewedBy = []string{}
	_, err := r.col().InsertOne(ctx, v)
	return err
}

// GetByID fetches a video without side effects.
func (r *VideoRepo) GetByID(ctx context.Context, id string) (model.Video, error) {
	var v model.Video
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Video{}, ErrNotFound
	}
	return v, err
}

// ViewAndGet adds viewerID to the viewed set and returns the updated video
// in one atomic operation. Repeat views by the same user leave the set
// unchanged.
func (r *VideoRepo) ViewAndGet(ctx context.Context, id, viewerID string) (model.Video, error) {
	var v model.Video
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"viewedBy": viewerID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Video{}, ErrNotFound
	}
	return v, err
}

// List returns videos matching f, newest first.
func (r *VideoRepo) List(ctx context.Context, f VideoFilter) ([]model.Video, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.OwnerID != "" {
		filter["user_id"] = f.OwnerID
	}
	cur, err := r.col().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	videos := []model.Video{}
	if err := cur.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// UpdateMeta applies the non-nil fields of upd and returns the updated
// document. Ownership is checked by the caller before this is invoked.
func (r *VideoRepo) UpdateMeta(ctx context.Context, id string, upd VideoUpdate) (model.Video, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.ThumbnailURL != nil {
		set["thumbnailUrl"] = *upd.ThumbnailURL
	}
	if upd.ThumbnailID != nil {
		set["thumbnailId"] = *upd.ThumbnailID
	}

	var v model.Video
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Video{}, ErrNotFound
	}
	return v, err
}

// Delete removes the video document. Asset release at the media host is the
// caller's responsibility.
func (r *VideoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Like moves userID into the liked set and out of the disliked set in one
// update, then returns the result. Liking twice is a no-op.
func (r *VideoRepo) Like(ctx context.Context, id, userID string) (model.Video, error) {
	return r.engage(ctx, id, bson.M{
		"$addToSet": bson.M{"likedBy": userID},
		"$pull":     bson.M{"dislikedBy": userID},
	})
}

// Dislike is the symmetric inverse of Like.
func (r *VideoRepo) Dislike(ctx context.Context, id, userID string) (model.Video, error) {
	return r.engage(ctx, id, bson.M{
		"$addToSet": bson.M{"dislikedBy": userID},
		"$pull":     bson.M{"likedBy": userID},
	})
}

func (r *VideoRepo) engage(ctx context.Context, id string, update bson.M) (model.Video, error) {
	var v model.Video
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Video{}, ErrNotFound
	}
	return v, err
}
