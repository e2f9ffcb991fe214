package relay

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

	"accord/internal/domain"
)

// HTTP talks to an accordd server.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the server at base. A nil client means
// http.DefaultClient.
func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: client}
}

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Msg    string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("relay %s %s: %d %s", e.Method, e.Path, e.Status, e.Msg)
	}
	return fmt.Sprintf("relay %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is match 404 against domain.ErrNotFound and 401/403
// against domain.ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

type profileBody struct {
	DisplayName         string           `json:"display_name,omitempty"`
	EncryptionPublicKey domain.PublicKey `json:"encryption_public_key,omitempty"`
}

type publicKeyBody struct {
	UserID    domain.UserID    `json:"userId"`
	PublicKey domain.PublicKey `json:"publicKey"`
}

type messagesBody struct {
	Messages []domain.Message `json:"messages"`
}

// PublicKey fetches the stored public key of user; ok is false on 404.
func (c *HTTP) PublicKey(ctx context.Context, user domain.UserID) (domain.PublicKey, bool, error) {
	var out publicKeyBody
	err := c.do(ctx, http.MethodGet, "/v1/profiles/"+url.PathEscape(user.String())+"/public-key", nil, nil, &out)
	if errors.Is(err, domain.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out.PublicKey, out.PublicKey != "", nil
}

// PublishPublicKey stores key on user's profile.
func (c *HTTP) PublishPublicKey(ctx context.Context, user domain.UserID, key domain.PublicKey) error {
	_, err := c.PutProfile(ctx, user, "", key)
	return err
}

// PutProfile creates or updates user's profile. Empty values keep what the
// server has.
func (c *HTTP) PutProfile(ctx context.Context, user domain.UserID, displayName string, key domain.PublicKey) (domain.Profile, error) {
	var out domain.Profile
	body := profileBody{DisplayName: displayName, EncryptionPublicKey: key}
	err := c.do(ctx, http.MethodPut, "/v1/profiles/"+url.PathEscape(user.String()), nil, body, &out)
	return out, err
}

// SaveMessage posts msg with its payload strings unchanged.
func (c *HTTP) SaveMessage(ctx context.Context, msg domain.Message) error {
	return c.do(ctx, http.MethodPost, "/v1/messages", nil, msg, nil)
}

// ListConversation fetches messages between a and b, oldest first.
func (c *HTTP) ListConversation(ctx context.Context, a, b domain.UserID) ([]domain.Message, error) {
	q := url.Values{}
	q.Set("user", a.String())
	q.Set("peer", b.String())
	var out messagesBody
	if err := c.do(ctx, http.MethodGet, "/v1/messages?"+q.Encode(), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// MigrateKeys triggers a key consistency run on the server as caller.
func (c *HTTP) MigrateKeys(ctx context.Context, token string, caller domain.UserID, opts domain.MigrationOptions) (domain.MigrationSummary, error) {
	q := url.Values{}
	q.Set("dryRun", strconv.FormatBool(opts.DryRun))
	if opts.Concurrency > 0 {
		q.Set("concurrency", strconv.Itoa(opts.Concurrency))
	}
	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+token)
	hdr.Set("X-Accord-User", caller.String())

	var out domain.MigrationSummary
	err := c.do(ctx, http.MethodPost, "/v1/admin/migrate-keys?"+q.Encode(), hdr, nil, &out)
	return out, err
}

func (c *HTTP) do(ctx context.Context, method, path string, hdr http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	for k, v := range hdr {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Msg: e.Error}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Compile-time assertions that HTTP implements the domain interfaces.
var (
	_ domain.KeyDirectory = (*HTTP)(nil)
	_ domain.MessageStore = (*HTTP)(nil)
)
