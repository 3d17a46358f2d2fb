package model

import "time"

// User represents a channel account as stored in the `users` collection.
// The password hash is never serialized to clients; handlers expose
// PublicProfile when a sanitized view of another user is needed.
//
// Fields:
//  ID                 – opaque string id (uuid), stored as _id.
//  ChannelName        – display name of the channel.
//  Email              – unique login email (stored lower-cased).
//  Phone              – contact phone number.
//  PasswordHash       – bcrypt hash of the password.
//  LogoURL            – durable URL of the profile image at the media host.
//  LogoID             – deletable media-host identifier of the profile image.
//  Subscribers        – denormalized subscriber count; always equals the
//                       number of users whose SubscribedChannels contain ID.
//  SubscribedChannels – set of channel ids this user subscribed to. Never
//                       contains the user's own id.
type User struct {
	ID                 string    `json:"_id" bson:"_id"`
	ChannelName        string    `json:"channelName" bson:"channelName"`
	Email              string    `json:"email" bson:"email"`
	Phone              string    `json:"phone" bson:"phone"`
	PasswordHash       string    `json:"-" bson:"password"`
	LogoURL            string    `json:"logoUrl" bson:"logoUrl"`
	LogoID             string    `json:"logoId" bson:"logoId"`
	Subscribers        int64     `json:"subscribers" bson:"subscribers"`
	SubscribedChannels []string  `json:"subscribedChannels" bson:"subscribedChannels"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PublicProfile is the projection of a user other users may see, e.g. when
// comments are listed together with their authors.
type PublicProfile struct {
	ID          string `json:"_id" bson:"_id"`
	ChannelName string `json:"channelName" bson:"channelName"`
	LogoURL     string `json:"logoUrl" bson:"logoUrl"`
}

// Public returns the sanitized projection of u.
func (u User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, ChannelName: u.ChannelName, LogoURL: u.LogoURL}
}
