package services

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"image-classify-bot/internal/models"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestImageURLFromRawBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantURL string
		wantOK  bool
		wantErr bool
	}{
		{
			name:    "s3 object created",
			body:    `{"eventType":"aws.s3.object.created","data":{"bucket":{"name":"mybucket"},"object":{"key":"pics/cat.jpg"}}}`,
			wantURL: "https://s3.amazonaws.com/mybucket/pics/cat.jpg",
			wantOK:  true,
		},
		{
			name:    "azure blob created",
			body:    `{"eventType":"Microsoft.Storage.BlobCreated","data":{"url":"https://myaccount.blob.core.windows.net/pics/cat.jpg"}}`,
			wantURL: "https://myaccount.blob.core.windows.net/pics/cat.jpg",
			wantOK:  true,
		},
		{
			name:    "url whitespace trimmed",
			body:    `{"eventType":"Microsoft.Storage.BlobCreated","data":{"url":"  https://example.com/cat.jpg\n"}}`,
			wantURL: "https://example.com/cat.jpg",
			wantOK:  true,
		},
		{
			name:   "unsupported event type is not an error",
			body:   `{"eventType":"other.event","data":{}}`,
			wantOK: false,
		},
		{
			name:    "malformed body",
			body:    `{not json`,
			wantErr: true,
		},
		{
			name:    "body with surrounding whitespace",
			body:    "\n  {\"eventType\":\"aws.s3.object.created\",\"data\":{\"bucket\":{\"name\":\"b\"},\"object\":{\"key\":\"k\"}}}  \n",
			wantURL: "https://s3.amazonaws.com/b/k",
			wantOK:  true,
		},
	}

	n := NewNormalizer(newTestLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, ok, err := n.ImageURL(&models.Notification{Body: []byte(tt.body)})

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				var pe *models.PipelineError
				if !errors.As(err, &pe) {
					t.Errorf("error %v is not a PipelineError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if url != tt.wantURL {
				t.Errorf("url = %q, want %q", url, tt.wantURL)
			}
		})
	}
}

func TestImageURLFromPreParsedData(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	data, _ := json.Marshal(map[string]interface{}{
		"bucket": map[string]string{"name": "mybucket"},
		"object": map[string]string{"key": "pics/cat.jpg"},
	})
	note := &models.Notification{
		PreParsed: true,
		TypeHint:  models.EventTypeS3ObjectCreated,
		Data:      data,
	}

	url, ok, err := n.ImageURL(note)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected an actionable URL")
	}
	if want := "https://s3.amazonaws.com/mybucket/pics/cat.jpg"; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestImageURLPreParsedTrustsTypeHint(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	note := &models.Notification{
		PreParsed: true,
		TypeHint:  "some.other.type",
		Data:      json.RawMessage(`{"url":"https://example.com/cat.jpg"}`),
	}

	_, ok, err := n.ImageURL(note)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("unsupported hinted type must not yield a URL")
	}
}

func TestImageURLPreParsedWithoutData(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	// an envelope like {"eventType":"other.event"} carries a hint but no
	// data; the hint still decides handling, so this is a skip, not an error
	note := &models.Notification{
		PreParsed: true,
		TypeHint:  "other.event",
	}

	_, ok, err := n.ImageURL(note)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("unsupported hinted type must not yield a URL")
	}
}
