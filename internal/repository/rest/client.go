package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Guyuepp/artshare/domain"
)

// DefaultTimeout applies to every backend call.
const DefaultTimeout = 30 * time.Second

type Config struct {
	BaseURL string
	AnonKey string
	Bucket  string
	// RPS caps outbound requests per second; 0 disables the limiter.
	RPS     float64
	Timeout time.Duration
}

// Client talks to the hosted backend's REST, RPC, auth and storage surfaces.
type Client struct {
	baseURL    string
	anonKey    string
	bucket     string
	httpClient *http.Client
	limiter    *rate.Limiter
	validate   *validator.Validate
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:    cfg.AnonKey,
		bucket:     cfg.Bucket,
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
	}
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return c
}

type tokenKey struct{}

// WithAccessToken attaches the signed-in user's token to ctx so requests run
// under the user's row level permissions.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func accessToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	raw     io.Reader
	headers map[string]string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return translateTransport(err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, r request) (*response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	body := r.raw
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBadParamInput, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadParamInput, err)
	}
	req.Header.Set("apikey", c.anonKey)
	bearer := c.anonKey
	if token := accessToken(ctx); token != "" {
		bearer = token
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, translateTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, translateTransport(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := statusError(resp.StatusCode, data)
		logrus.Debugf("backend %s %s: %d %s", r.method, r.path, resp.StatusCode, data)
		return nil, err
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// statusError maps a backend status code onto a domain error.
func statusError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error_description"`
	}
	_ = json.Unmarshal(body, &payload)
	detail := payload.Message
	if detail == "" {
		detail = payload.Msg
	}
	if detail == "" {
		detail = payload.Error
	}
	if detail == "" {
		detail = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrNotAuthenticated, detail)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrNotOwner, detail)
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, detail)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", domain.ErrTimeout, detail)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrBadParamInput, detail)
	default:
		return fmt.Errorf("%w: %d %s", domain.ErrBackendUnavailable, status, detail)
	}
}

func translateTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
}

// decodeRows parses a JSON array and validates each row.
func decodeRows[T any](c *Client, data []byte) ([]T, error) {
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	for i := range rows {
		if err := c.validate.Struct(&rows[i]); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrMalformedResponse, i, err)
		}
	}
	return rows, nil
}

// decodeOne parses a single-row representation, which the backend returns
// as a one-element array.
func decodeOne[T any](c *Client, data []byte) (T, error) {
	var zero T
	rows, err := decodeRows[T](c, data)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, domain.ErrNotFound
	}
	return rows[0], nil
}

// contentRangeTotal reads the total from a "0-9/42" or "*/42" Content-Range.
func contentRangeTotal(h http.Header) (int64, error) {
	cr := h.Get("Content-Range")
	i := strings.LastIndexByte(cr, '/')
	if i < 0 || i == len(cr)-1 {
		return 0, fmt.Errorf("%w: content-range %q", domain.ErrMalformedResponse, cr)
	}
	n, err := strconv.ParseInt(cr[i+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: content-range %q", domain.ErrMalformedResponse, cr)
	}
	return n, nil
}

// count runs a HEAD request with an exact count over table filtered by query.
func (c *Client) count(ctx context.Context, table string, query url.Values) (int64, error) {
	resp, err := c.do(ctx, request{
		method:  http.MethodHead,
		path:    "/rest/v1/" + table,
		query:   query,
		headers: map[string]string{"Prefer": "count=exact"},
	})
	if err != nil {
		return 0, err
	}
	return contentRangeTotal(resp.header)
}

// rpc invokes a server-side procedure and decodes its scalar result.
func (c *Client) rpc(ctx context.Context, fn string, args any, out any) error {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/rpc/" + fn,
		body:   args,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, fn, err)
	}
	return nil
}

func eq(v string) string { return "eq." + v }

// inList renders a PostgREST in.(...) filter, quoting every value.
func inList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}
