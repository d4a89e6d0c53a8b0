package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"emoji-transfer/internal/model"
)

const (
	DefaultAPIBaseURL = "https://slack.com/api"

	listEndpoint   = "emoji.list"
	createEndpoint = "emoji.add"
	uploadMode     = "data"
	maxErrorBody   = 512
)

type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout applies only when HTTPClient is nil. Zero keeps the transport default.
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the Slack Web API and fetches emoji images.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

type apiResponse struct {
	OK    bool              `json:"ok"`
	Error string            `json:"error,omitempty"`
	Emoji map[string]string `json:"emoji,omitempty"`
}

func NewClient(opts ClientOptions) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultAPIBaseURL
	}
	return &Client{
		baseURL:   base,
		http:      hc,
		userAgent: strings.TrimSpace(opts.UserAgent),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListEmoji returns the name -> url mapping of the workspace behind token.
// Alias entries keep their "alias:<target>" value.
func (c *Client) ListEmoji(ctx context.Context, token string) (map[string]string, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &model.SourceListError{Err: fmt.Errorf("source token is empty: %w", model.ErrInvalidArgument)}
	}
	q := url.Values{}
	q.Set("token", strings.TrimSpace(token))
	endpoint := c.baseURL + "/" + listEndpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &model.SourceListError{Err: err}
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.SourceListError{Err: redactToken(err, token)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.SourceListError{Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.SourceListError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, snippet(body))}
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &model.SourceListError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if !out.OK {
		return nil, &model.SourceListError{Code: firstNonEmpty(out.Error, "unknown_error")}
	}
	if out.Emoji == nil {
		return nil, &model.SourceListError{Err: errors.New("response has no emoji mapping")}
	}
	return out.Emoji, nil
}

// FetchImage downloads the raw bytes behind rawURL in a single attempt.
func (c *Client) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	if err := model.ValidateImageURL(rawURL); err != nil {
		return nil, err
	}
	u := strings.TrimSpace(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &model.FetchError{URL: u, Err: err}
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &model.FetchError{URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status: %s", snippet(body))}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.FetchError{URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) == 0 {
		return nil, &model.FetchError{URL: u, StatusCode: resp.StatusCode, Err: errors.New("empty body")}
	}
	return data, nil
}

// CreateEmoji submits one emoji.add call. An ok=false answer comes back as
// *model.UploadError with Code set to the service error string.
func (c *Client) CreateEmoji(ctx context.Context, token, name string, image Image) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("emoji name is empty: %w", model.ErrInvalidArgument)
	}
	if len(image.Data) == 0 {
		return &model.UploadError{Name: name, Err: errors.New("image is empty")}
	}

	payload, contentType, err := buildCreatePayload(name, image)
	if err != nil {
		return &model.UploadError{Name: name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+createEndpoint, payload)
	if err != nil {
		return &model.UploadError{Name: name, Err: err}
	}
	c.decorate(req)
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return &model.UploadError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &model.UploadError{Name: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.UploadError{Name: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status: %s", snippet(body))}
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return &model.UploadError{Name: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !out.OK {
		return &model.UploadError{Name: name, Code: firstNonEmpty(out.Error, "unknown_error")}
	}
	return nil
}

func buildCreatePayload(name string, image Image) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := w.WriteField("mode", uploadMode); err != nil {
		return nil, "", fmt.Errorf("write mode field: %w", err)
	}
	if err := w.WriteField("name", name); err != nil {
		return nil, "", fmt.Errorf("write name field: %w", err)
	}

	mimeType, ext := image.ContentType, image.Extension
	if mimeType == "" {
		mimeType, ext = DetectImageType(image.Data)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s%s"`, escapeQuotes(name), ext))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", fmt.Errorf("write image part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) decorate(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

func redactToken(err error, token string) error {
	t := strings.TrimSpace(token)
	if err == nil || t == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(t), "REDACTED")
	msg = strings.ReplaceAll(msg, t, "REDACTED")
	return errors.New(msg)
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	if s == "" {
		return "<empty body>"
	}
	return s
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
