package pushbullet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"pbsms/internal/domain"
)

const (
	// DefaultBaseURL is the Pushbullet v2 API root.
	DefaultBaseURL = "https://api.pushbullet.com/v2"
	// DefaultValidateTimeout bounds GET /users/me.
	DefaultValidateTimeout = 10 * time.Second
	// DefaultRequestTimeout bounds GET /devices and POST /texts.
	DefaultRequestTimeout = 7 * time.Second

	serviceName    = "Pushbullet"
	maxBodyBytes   = 1 << 20
	accessTokenHdr = "Access-Token"
)

// Client talks to the Pushbullet API.
type Client struct {
	Base            string
	HTTP            *http.Client
	Prober          domain.ConnectivityProber
	ValidateTimeout time.Duration
	RequestTimeout  time.Duration
	Log             *zap.Logger
}

// New returns a Client with the default timeouts.
func New(base string, httpClient *http.Client, prober domain.ConnectivityProber, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		Base:            strings.TrimRight(base, "/"),
		HTTP:            httpClient,
		Prober:          prober,
		ValidateTimeout: DefaultValidateTimeout,
		RequestTimeout:  DefaultRequestTimeout,
		Log:             log,
	}
}

var _ domain.PushbulletClient = (*Client)(nil)

// ValidateKey reports whether Pushbullet accepts key. Only a timeout is
// returned as an error; any other failure means "not valid".
func (c *Client) ValidateKey(ctx context.Context, key string) (bool, error) {
	resp, err := c.do(ctx, c.ValidateTimeout, http.MethodGet, "/users/me", key, nil)
	if err != nil {
		var te *domain.TimeoutError
		if errors.As(err, &te) {
			return false, err
		}
		c.Log.Debug("key validation failed", zap.Error(err))
		return false, nil
	}
	if !resp.ok() {
		return false, nil
	}

	var me domain.CurrentUser
	if err := json.Unmarshal(resp.body, &me); err == nil {
		c.Log.Debug("key belongs to account", zap.String("email", me.Email), zap.String("name", me.Name))
	}
	return true, nil
}

// ListDevices returns the account's devices in the order Pushbullet sends them.
// Failures other than a timeout come back as a *domain.DeviceLookupError.
func (c *Client) ListDevices(ctx context.Context, key string) ([]domain.Device, error) {
	resp, err := c.do(ctx, c.RequestTimeout, http.MethodGet, "/devices", key, nil)
	if err != nil {
		var te *domain.TimeoutError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &domain.DeviceLookupError{Err: err}
	}
	if !resp.ok() {
		return nil, &domain.DeviceLookupError{
			Err: &domain.RemoteError{Op: "failed to retrieve devices", StatusCode: resp.statusCode},
		}
	}
	var out domain.DevicesResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, &domain.DeviceLookupError{Err: fmt.Errorf("decoding devices: %w", err)}
	}
	return out.Devices, nil
}

// SendText asks the target device to send req. A non-2xx answer is reported
// through the outcome, never as an error.
func (c *Client) SendText(ctx context.Context, key string, req domain.SmsRequest) (domain.SendOutcome, error) {
	resp, err := c.do(ctx, c.RequestTimeout, http.MethodPost, "/texts", key, req)
	if err != nil {
		return domain.SendOutcome{}, err
	}
	out := domain.SendOutcome{
		Delivered:  resp.ok(),
		StatusCode: resp.statusCode,
		Reason:     resp.reason,
	}
	if out.Delivered {
		return out, nil
	}
	var envelope domain.ErrorResponse
	if err := json.Unmarshal(resp.body, &envelope); err == nil && envelope.Error != nil {
		out.Message = envelope.Error.Message
		c.Log.Debug("send rejected",
			zap.String("type", envelope.Error.Type),
			zap.String("cat", envelope.Error.Cat),
			zap.Int("status", resp.statusCode))
	}
	return out, nil
}

type response struct {
	statusCode int
	reason     string
	body       []byte
}

func (r *response) ok() bool { return r.statusCode/100 == 2 }

// do performs one request under its own deadline and reads the whole body.
func (c *Client) do(ctx context.Context, timeout time.Duration, method, path, key string, in any) (*response, error) {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return nil, err
		}
		body = buf
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, c.Base+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(accessTokenHdr, key)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, c.timeoutError(ctx, timeout)
		}
		return nil, fmt.Errorf("pushbullet %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, c.timeoutError(ctx, timeout)
		}
		return nil, fmt.Errorf("pushbullet %s %s: reading body: %w", method, path, err)
	}
	c.Log.Debug("pushbullet call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	return &response{statusCode: resp.StatusCode, reason: reasonPhrase(resp), body: b}, nil
}

// timeoutError probes connectivity using the caller's context, not the expired one.
func (c *Client) timeoutError(ctx context.Context, after time.Duration) error {
	online := true
	if c.Prober != nil {
		online = c.Prober.IsOnline(ctx)
	}
	c.Log.Debug("pushbullet call timed out", zap.Duration("after", after), zap.Bool("online", online))
	return &domain.TimeoutError{Service: serviceName, After: after, Online: online}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func reasonPhrase(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
}
