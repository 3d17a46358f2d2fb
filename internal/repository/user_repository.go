package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openvid/vidshare/internal/model"
)

const userCollection = "users"

// UserRepo is the MongoDB implementation of UserStore.
type UserRepo struct{ db *mongo.Database }

func NewUserRepo(db *mongo.Database) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) col() *mongo.Collection { return r.db.Collection(userCollection) }

// EnsureIndexes creates the unique email index. Called once at startup.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a new user. The id is generated here when absent and the
// email is normalized to lower case. A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.SubscribedChannels == nil {
		u.SubscribedChannels = []string{}
	}
	if _, err := r.col().InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.col().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// UpdateProfile applies the non-nil fields of upd and returns the updated
// document. Fields left nil retain their prior value.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (model.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.ChannelName != nil {
		set["channelName"] = *upd.ChannelName
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.LogoURL != nil {
		set["logoUrl"] = *upd.LogoURL
	}
	if upd.LogoID != nil {
		set["logoId"] = *upd.LogoID
	}

	var u model.User
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Subscribe adds channelID to the caller's subscribed set and increments the
// target's subscriber counter when the edge did not exist yet. Both writes
// run inside one session transaction so the counter cannot drift from the
// edge set. The $addToSet makes retries harmless: a replay matches but does
// not modify, and then no increment is issued.
func (r *UserRepo) Subscribe(ctx context.Context, callerID, channelID string) error {
	if callerID == channelID {
		return ErrSelfSubscribe
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Target must exist before we touch the caller's edge set.
		if err := r.col().FindOne(sc, bson.M{"_id": channelID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		res, err := r.col().UpdateOne(sc,
			bson.M{"_id": callerID},
			bson.M{
				"$addToSet": bson.M{"subscribedChannels": channelID},
				"$set":      bson.M{"updatedAt": time.Now().UTC()},
			})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		if res.ModifiedCount == 0 {
			// Edge already present: nothing to count.
			return nil, nil
		}

		_, err = r.col().UpdateOne(sc,
			bson.M{"_id": channelID},
			bson.M{"$inc": bson.M{"subscribers": 1}})
		return nil, err
	})
	return err
}

// PublicProfiles loads the sanitized projections for the given ids.
func (r *UserRepo) PublicProfiles(ctx context.Context, ids []string) (map[string]model.PublicProfile, error) {
	out := make(map[string]model.PublicProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.col().Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1, "channelName": 1, "logoUrl": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []model.PublicProfile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}
