// Package media abstracts the external asset host. Uploads hand a local
// temp file to the host and come back with a durable URL plus a deletable
// identifier; deletes release the asset by that identifier. Video bytes are
// opaque to this service and are never processed locally.
package media

import "context"

// Asset is the (durable URL, deletable identifier) pair returned by the
// host after a successful upload.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Kind selects the host-side resource type of an upload.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Resolver is implemented by asset-host clients. Upload sends the file at
// path to the host; Delete releases a previously uploaded asset. Both calls
// are blocking I/O and honor ctx cancellation.
type Resolver interface {
	Upload(ctx context.Context, path string, kind Kind) (Asset, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}
