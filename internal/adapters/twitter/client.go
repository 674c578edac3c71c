package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"image-classify-bot/internal/config"
)

const defaultBaseURL = "https://api.twitter.com/1.1"

// Client publishes statuses with media through the v1.1 API, signing each
// request with OAuth1 user context. Credentials are never checked up front;
// a bad token surfaces as a publish failure.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	log        *logrus.Logger
}

// NewClient creates a publishing client. An alternate base URL may be given
// for tests.
func NewClient(cfg config.TwitterConfig, log *logrus.Logger, baseURL ...string) *Client {
	oauthConfig := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = cfg.Timeout

	url := defaultBaseURL
	if len(baseURL) > 0 {
		url = baseURL[0]
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 3),
		baseURL:    url,
		log:        log,
	}
}

// statusResponse is the subset of the statuses API response needed to build
// the public URL.
type statusResponse struct {
	IDStr string `json:"id_str"`
	User  struct {
		ScreenName string `json:"screen_name"`
	} `json:"user"`
}

// PublishWithMedia posts text and the image at imagePath as a single status
// and returns the public URL of the post.
func (c *Client) PublishWithMedia(ctx context.Context, text, imagePath string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("status", text); err != nil {
		return "", err
	}

	media, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open media %s: %w", imagePath, err)
	}
	defer media.Close()

	part, err := writer.CreateFormFile("media[]", filepath.Base(imagePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, media); err != nil {
		return "", fmt.Errorf("read media %s: %w", imagePath, err)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/statuses/update_with_media.json", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("statuses/update_with_media returned %d: %s", resp.StatusCode, detail)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}

	url := fmt.Sprintf("https://twitter.com/%s/status/%s", status.User.ScreenName, status.IDStr)
	c.log.WithField("url", url).Info("status published")
	return url, nil
}
