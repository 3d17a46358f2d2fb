package model

import "time"

// Video represents an uploaded video document in the `videos` collection.
// UserID is the owner and is immutable after creation. The engagement sets
// (LikedBy, DislikedBy, ViewedBy) hold user ids; a user id never appears in
// LikedBy and DislikedBy at the same time, and ViewedBy only ever grows.
type Video struct {
	ID           string    `json:"_id" bson:"_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Category     string    `json:"category" bson:"category"`
	Tags         []string  `json:"tags" bson:"tags"`
	VideoURL     string    `json:"videoUrl" bson:"videoUrl"`
	VideoID      string    `json:"videoId" bson:"videoId"`
	ThumbnailURL string    `json:"thumbnailUrl" bson:"thumbnailUrl"`
	ThumbnailID  string    `json:"thumbnailId" bson:"thumbnailId"`
	LikedBy      []string  `json:"likedBy" bson:"likedBy"`
	DislikedBy   []string  `json:"dislikedBy" bson:"dislikedBy"`
	ViewedBy     []string  `json:"viewedBy" bson:"viewedBy"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}
