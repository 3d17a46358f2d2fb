package model

import "time"

// Comment is a user comment on a video, stored in the `comments`
// collection. VideoID and UserID are immutable; only Text may change, and
// only by the owner.
type Comment struct {
	ID        string    `json:"_id" bson:"_id"`
	VideoID   string    `json:"video_id" bson:"video_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Text      string    `json:"commentText" bson:"commentText"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CommentWithAuthor decorates a comment with the public profile of the user
// who wrote it. Produced by the comment listing read-side join.
type CommentWithAuthor struct {
	Comment `bson:",inline"`
	Author  PublicProfile `json:"user" bson:"user"`
}
