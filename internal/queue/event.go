// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// VideoUploadedEvent is published after a video record is successfully
// persisted. It carries enough information for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type VideoUploadedEvent struct {
	VideoID     string `json:"video_id"`
	UserID      string `json:"user_id"`
	ChannelName string `json:"channel_name"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	UploadedAt  string `json:"uploaded_at"`
}
