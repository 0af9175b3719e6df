package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/eringen/folio/content"
)

// SupabaseOptions configures a SupabaseClient.
type SupabaseOptions struct {
	URL    string // project URL, e.g. https://xyz.supabase.co
	APIKey string // anon or service key
	Table  string // content table (default "hero_content")
	Bucket string // storage bucket (default "portfolio-images")

	HTTPClient *http.Client
}

// SupabaseClient talks to a Supabase project: PostgREST for the content
// table and the Storage API for card images. It implements both
// ContentStore and ObjectStore.
type SupabaseClient struct {
	base   *url.URL
	apiKey string
	table  string
	bucket string
	http   *http.Client
}

// APIError is a non-success response from the Supabase API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// NewSupabaseClient validates opts and returns a client.
func NewSupabaseClient(opts SupabaseOptions) (*SupabaseClient, error) {
	if opts.URL == "" {
		return nil, errors.New("supabase URL is required")
	}
	if opts.APIKey == "" {
		return nil, errors.New("supabase API key is required")
	}
	u, err := url.Parse(strings.TrimSuffix(opts.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse supabase URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("supabase URL %q must be absolute", opts.URL)
	}
	if opts.Table == "" {
		opts.Table = "hero_content"
	}
	if opts.Bucket == "" {
		opts.Bucket = "portfolio-images"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &SupabaseClient{
		base:   u,
		apiKey: opts.APIKey,
		table:  opts.Table,
		bucket: opts.Bucket,
		http:   hc,
	}, nil
}

func (c *SupabaseClient) endpoint(segments ...string) *url.URL {
	u := *c.base
	plain := strings.TrimSuffix(c.base.Path, "/")
	raw := strings.TrimSuffix(c.base.EscapedPath(), "/")
	for _, s := range segments {
		plain += "/" + s
		raw += "/" + url.PathEscape(s)
	}
	u.Path = plain
	u.RawPath = raw
	return &u
}

func (c *SupabaseClient) newRequest(ctx context.Context, method string, u *url.URL, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

type contentRow struct {
	ID       int64          `json:"id,omitempty"`
	Headline string         `json:"headline"`
	Bio      string         `json:"bio"`
	Cards    []content.Card `json:"cards"`
}

// GetContent selects all columns of the row with the given id.
func (c *SupabaseClient) GetContent(ctx context.Context, id int64) (content.Record, error) {
	u := c.endpoint("rest", "v1", c.table)
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	u.RawQuery = q.Encode()

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return content.Record{}, err
	}
	// Ask PostgREST for a single object; zero rows then come back as 406.
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return content.Record{}, fmt.Errorf("get content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotAcceptable {
		return content.Record{}, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return content.Record{}, decodeAPIError(resp)
	}
	var row contentRow
	if err := json.NewDecoder(resp.Body).Decode(&row); err != nil {
		return content.Record{}, fmt.Errorf("decode content: %w", err)
	}
	return content.Record{Headline: row.Headline, Bio: row.Bio, Cards: row.Cards}.Normalize(), nil
}

// UpdateContent overwrites headline, bio and cards of the row with the given id.
func (c *SupabaseClient) UpdateContent(ctx context.Context, id int64, rec content.Record) error {
	rec = rec.Normalize()
	body, err := json.Marshal(contentRow{Headline: rec.Headline, Bio: rec.Bio, Cards: rec.Cards})
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	u := c.endpoint("rest", "v1", c.table)
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	u.RawQuery = q.Encode()

	req, err := c.newRequest(ctx, http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Upload stores r in the bucket under key.
func (c *SupabaseClient) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	u := c.endpoint("storage", "v1", "object", c.bucket, key)
	req, err := c.newRequest(ctx, http.MethodPost, u, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// PublicURL returns the public object URL for key. It does not check that
// the object exists.
func (c *SupabaseClient) PublicURL(key string) string {
	return c.endpoint("storage", "v1", "object", "public", c.bucket, key).String()
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Code    any    `json:"code"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		if payload.Code != nil {
			apiErr.Code = fmt.Sprint(payload.Code)
		} else {
			apiErr.Code = payload.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
