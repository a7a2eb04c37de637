package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sukalov/hymnal/internal/logger"
	"github.com/sukalov/hymnal/internal/songs"
)

// TransportError is a rejected submission. Its message is the response body,
// shown to the user as is.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.Status)
	}
	return e.Body
}

// Client sends songs to the admin API. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// Create posts a new song and returns the redirect location, if any.
func (c *Client) Create(ctx context.Context, song songs.Song) (string, error) {
	return c.send(ctx, http.MethodPost, c.baseURL+"/admin/", song)
}

// Update replaces the lines and key of an existing song.
func (c *Client) Update(ctx context.Context, song songs.Song) error {
	endpoint := fmt.Sprintf("%s/admin/%s/%s", c.baseURL, url.PathEscape(song.Language), strconv.Itoa(song.Number))
	_, err := c.send(ctx, http.MethodPut, endpoint, songs.PartialSong{Key: &song.Key, Lines: song.Lines})
	return err
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode song: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("submit: %s %s failed\nError: %v", method, endpoint, err))
		return "", fmt.Errorf("failed to send song: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		logger.Error(fmt.Sprintf("submit: %s %s rejected\nStatus: %d", method, endpoint, resp.StatusCode))
		return "", &TransportError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return resp.Header.Get("Location"), nil
}
