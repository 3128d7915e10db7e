// Package client talks to a running copilot service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/text/message"

	"copilot-ops/internal/config"
	"copilot-ops/internal/locale"
	"copilot-ops/internal/wire"
)

// ErrTransport marks a request that never produced a readable response.
var ErrTransport = errors.New("transport failure")

// Error is a failed request. Message is ready to show to the user.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Envelope is the service response with keys converted to lowerCamel.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// Operation is a stored operation as listed by the service.
type Operation struct {
	ID              int64   `json:"id"`
	StageName       string  `json:"stageName"`
	Title           string  `json:"title"`
	Details         string  `json:"details"`
	MinimumRequired string  `json:"minimumRequired"`
	Content         string  `json:"content"`
	Uploader        string  `json:"uploader"`
	Views           int64   `json:"views"`
	HotScore        float64 `json:"hotScore"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

type Client struct {
	http          *resty.Client
	authenticated bool
	printer       *message.Printer
}

// New builds a client from cfg. With Login set the token is sent as the basic
// auth password, otherwise as a bearer token.
func New(cfg config.Client, lang string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Language", locale.Tag(lang).String())

	switch {
	case cfg.Login != "":
		c.SetBasicAuth(cfg.Login, cfg.Token)
	case cfg.Token != "":
		c.SetAuthToken(cfg.Token)
	}

	return &Client{
		http:          c,
		authenticated: cfg.Token != "",
		printer:       locale.Printer(lang),
	}
}

func (c *Client) Upload(ctx context.Context, content string) (int64, error) {
	return c.submit(ctx, "/copilot/upload", map[string]any{"content": content})
}

func (c *Client) Update(ctx context.Context, id int64, content string) (int64, error) {
	return c.submit(ctx, "/copilot/update", map[string]any{"id": id, "content": content})
}

func (c *Client) Delete(ctx context.Context, id int64) (int64, error) {
	return c.submit(ctx, "/copilot/delete", map[string]any{"id": id})
}

func (c *Client) Get(ctx context.Context, id int64) (*Operation, error) {
	const op = "client.Get"

	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/copilot/get/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var out Operation
	if err := decodeData(env, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

func (c *Client) submit(ctx context.Context, path string, body any) (int64, error) {
	const op = "client.submit"

	env, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return 0, err
	}

	var out struct {
		ID int64 `json:"id"`
	}
	if err := decodeData(env, &out); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return out.ID, nil
}

func decodeData(env *Envelope, out any) error {
	data, ok := env.Data.(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected response data %T", env.Data)
	}
	return wire.Decode(data, nil, out)
}

// do sends one request. Response keys are converted to lowerCamel at every
// depth before the envelope is inspected.
func (c *Client) do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, c.transportError(err)
	}

	tree, err := wire.Parse(resp.Body())
	if err != nil {
		return nil, c.transportError(err)
	}

	var env Envelope
	if err := wire.Decode(tree, wire.LowerCamel, &env); err != nil {
		return nil, c.transportError(err)
	}

	status := resp.StatusCode()
	failed := status < 200 || status >= 300 ||
		(env.StatusCode != 0 && (env.StatusCode < 200 || env.StatusCode >= 300))
	if !failed {
		return &env, nil
	}

	code := env.StatusCode
	if code == 0 {
		code = status
	}
	return nil, &Error{StatusCode: code, Message: c.failureMessage(status, &env, tree)}
}

func (c *Client) failureMessage(status int, env *Envelope, tree wire.Tree) string {
	if status == http.StatusUnauthorized || strings.Contains(env.Message, "Full authentication is required") {
		if c.authenticated {
			return c.printer.Sprintf(locale.MsgLoginExpired)
		}
		return c.printer.Sprintf(locale.MsgNotLoggedIn)
	}

	if env.Message != "" {
		return env.Message
	}

	if raw, err := json.Marshal(wire.RenameTree(tree, wire.LowerCamel)); err == nil {
		return string(raw)
	}
	return fmt.Sprintf("unknown error (%d)", status)
}

func (c *Client) transportError(err error) *Error {
	return &Error{
		Message: c.printer.Sprintf(locale.MsgRequestFailed),
		Err:     errors.Join(ErrTransport, err),
	}
}
