package repository

import (
	"context"

	"github.com/openvid/vidshare/internal/model"
)

// ProfileUpdate carries the mutable user profile fields. Nil pointers mean
// "keep the current value". LogoURL and LogoID are always set together when
// the profile image is replaced.
type ProfileUpdate struct {
	ChannelName *string
	Phone       *string
	LogoURL     *string
	LogoID      *string
}

// VideoUpdate carries the mutable video metadata fields with the same
// nil-means-unchanged semantics as ProfileUpdate.
type VideoUpdate struct {
	Title        *string
	Description  *string
	Category     *string
	Tags         *[]string
	ThumbnailURL *string
	ThumbnailID  *string
}

// VideoFilter selects a subset of videos for collection reads. Zero values
// mean "no constraint". Results are always sorted newest-first.
type VideoFilter struct {
	Category string
	Tag      string
	OwnerID  string
}

// UserStore persists channel accounts and their subscription edges.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (model.User, error)

	// Subscribe adds channelID to the caller's subscribed set and, when the
	// edge is newly added, increments the target channel's subscriber count.
	// Both writes happen atomically with respect to each other. Returns
	// ErrSelfSubscribe when callerID == channelID and ErrNotFound when
	// either side does not exist. Re-issuing the call is safe.
	Subscribe(ctx context.Context, callerID, channelID string) error

	// PublicProfiles resolves the sanitized projections for a set of user
	// ids. Unknown ids are simply absent from the result.
	PublicProfiles(ctx context.Context, ids []string) (map[string]model.PublicProfile, error)
}

// VideoStore persists videos and applies engagement-set updates. Every
// set-membership mutation is a single conditional update on one document so
// concurrent requests cannot lose each other's writes.
type VideoStore interface {
	Create(ctx context.Context, v *model.Video) error
	GetByID(ctx context.Context, id string) (model.Video, error)

	// ViewAndGet records viewerID in the viewed set (idempotently) and
	// returns the updated video in the same atomic operation.
	ViewAndGet(ctx context.Context, id, viewerID string) (model.Video, error)

	List(ctx context.Context, f VideoFilter) ([]model.Video, error)
	UpdateMeta(ctx context.Context, id string, upd VideoUpdate) (model.Video, error)
	Delete(ctx context.Context, id string) error

	// Like puts userID in the liked set and removes it from the disliked
	// set in one atomic update; afterwards userID is in exactly one of the
	// two sets. Idempotent. Dislike is the symmetric inverse.
	Like(ctx context.Context, id, userID string) (model.Video, error)
	Dislike(ctx context.Context, id, userID string) (model.Video, error)
}

// CommentStore persists comments.
type CommentStore interface {
	Create(ctx context.Context, cm *model.Comment) error
	GetByID(ctx context.Context, id string) (model.Comment, error)
	UpdateText(ctx context.Context, id, text string) (model.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByVideo(ctx context.Context, videoID string) ([]model.Comment, error)
}
