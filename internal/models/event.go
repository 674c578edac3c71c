package models

import "encoding/json"

// Supported notification event types.
const (
	EventTypeS3ObjectCreated  = "aws.s3.object.created"
	EventTypeAzureBlobCreated = "Microsoft.Storage.BlobCreated"
)

// Notification is one inbound storage-upload notification. The transport
// layer either pre-parses the body (PreParsed set, TypeHint and Data from the
// envelope) or passes the raw bytes through in Body for the normalizer to
// decode. A pre-parsed notification may carry no Data at all; the type hint
// alone decides how it is handled.
type Notification struct {
	PreParsed bool
	TypeHint  string
	Data      json.RawMessage
	Body      []byte
}

// Envelope is the JSON shape of a raw notification body.
type Envelope struct {
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
}

// S3ObjectPayload carries the fields of an S3 object-created event needed to
// compose the object's public URL.
type S3ObjectPayload struct {
	Bucket struct {
		Name string `json:"name"`
	} `json:"bucket"`
	Object struct {
		Key string `json:"key"`
	} `json:"object"`
}

// BlobPayload carries the direct URL of an Azure blob-created event.
type BlobPayload struct {
	URL string `json:"url"`
}
