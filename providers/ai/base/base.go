package base

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/leofalp/uigen/internal/utils"
	"github.com/leofalp/uigen/providers/ai"
)

// Client bundles everything provider clients have in common: the immutable
// configuration, the retry policy, the per-request timeout, optional rate
// limiting and error-envelope decoding. Vendor packages hold a *Client and
// call it from their Generate and Stream implementations.
//
// A Client is safe for concurrent use.
type Client struct {
	provider    ai.ProviderName
	config      ai.ClientConfig
	retry       ai.RetryConfig
	limiter     *rate.Limiter
	decodeError ErrorDecoder
}

// Option customises a Client at construction.
type Option func(*Client)

// WithErrorDecoder installs a vendor-specific error envelope decoder, tried
// before [DecodeGenericError].
func WithErrorDecoder(decoder ErrorDecoder) Option {
	return func(client *Client) {
		client.decodeError = decoder
	}
}

// New builds a Client for provider. config must already carry its defaults
// (see [ai.ClientConfig.WithDefaults]).
func New(provider ai.ProviderName, config ai.ClientConfig, opts ...Option) *Client {
	client := &Client{
		provider: provider,
		config:   config,
		retry:    config.RetryConfig(),
	}

	if config.RequestsPerSecond > 0 {
		burst := int(config.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		client.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Provider returns the provider tag the client was built for.
func (client *Client) Provider() ai.ProviderName { return client.provider }

// Config returns the effective configuration.
func (client *Client) Config() ai.ClientConfig { return client.config }

// Logger returns the configured logger.
func (client *Client) Logger() *slog.Logger { return client.config.Logger }

// DoJSON POSTs body to url under the retry policy and decodes a 2xx response
// into out. Non-2xx responses become *ai.ClientError values carrying the HTTP
// status and the decoded vendor message.
func (client *Client) DoJSON(ctx context.Context, url string, body any, out any, headers ...utils.HeaderOption) error {
	start := time.Now()

	_, err := WithRetry(ctx, client.retry, client.config.Logger, func(ctx context.Context) (struct{}, error) {
		response, err := client.FetchWithTimeout(ctx, func(ctx context.Context) (*http.Request, error) {
			return utils.NewPostRequest(ctx, url, body, false, headers...)
		})
		if err != nil {
			return struct{}{}, err
		}
		defer utils.CloseWithLog(response.Body)

		payload, err := utils.ReadBody(response.Body)
		if err != nil {
			return struct{}{}, ai.NewClientError(client.provider, 0, "network error while reading response", err)
		}

		if err := json.Unmarshal(payload, out); err != nil {
			return struct{}{}, ai.NewClientError(client.provider, response.StatusCode,
				"invalid response body: "+utils.TruncateString(string(payload), 200), err)
		}

		return struct{}{}, nil
	})

	client.logCompletion(ctx, "request", start, err)
	return err
}

// OpenStream POSTs body to url under the retry policy and returns the 2xx
// response with its body open for incremental reading. The caller must close
// the body.
func (client *Client) OpenStream(ctx context.Context, url string, body any, headers ...utils.HeaderOption) (*http.Response, error) {
	start := time.Now()

	response, err := WithRetry(ctx, client.retry, client.config.Logger, func(ctx context.Context) (*http.Response, error) {
		return client.FetchWithTimeout(ctx, func(ctx context.Context) (*http.Request, error) {
			return utils.NewPostRequest(ctx, url, body, true, headers...)
		})
	})

	client.logCompletion(ctx, "stream opened", start, err)
	return response, err
}

// FetchWithTimeout performs a single HTTP attempt. A timer cancels the request
// when response headers have not arrived within the configured timeout; it is
// always stopped before returning. Expiry is reported as a 408 *ai.ClientError,
// transport failures as status 0 "network error". Non-2xx responses are
// consumed and returned as *ai.ClientError. On success the body stays readable
// until closed.
func (client *Client) FetchWithTimeout(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	if client.limiter != nil {
		if err := client.limiter.Wait(ctx); err != nil {
			return nil, ai.NewClientError(client.provider, 0, "rate limiter wait aborted", err)
		}
	}

	requestCtx, cancel := context.WithCancel(ctx)

	request, err := build(requestCtx)
	if err != nil {
		cancel()
		return nil, ai.NewClientError(client.provider, 0, "failed to build request", err)
	}

	var timedOut atomic.Bool
	timer := time.AfterFunc(client.config.Timeout, func() {
		timedOut.Store(true)
		cancel()
	})

	response, err := client.config.HTTPClient.Do(request)
	stopped := timer.Stop()

	if err != nil {
		cancel()
		switch {
		case timedOut.Load():
			return nil, ai.NewClientError(client.provider, ai.StatusRequestTimeout, "Request timeout", err)
		case ctx.Err() != nil:
			return nil, ai.NewClientError(client.provider, 0, "request aborted", ctx.Err())
		default:
			return nil, ai.NewClientError(client.provider, 0, "network error", err)
		}
	}

	if !stopped && timedOut.Load() {
		// The timer fired between the headers and Stop; the body is unusable.
		utils.CloseWithLog(response.Body)
		cancel()
		return nil, ai.NewClientError(client.provider, ai.StatusRequestTimeout, "Request timeout", nil)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer cancel()
		defer utils.CloseWithLog(response.Body)
		return nil, client.statusError(response)
	}

	if response.Body == nil || response.Body == http.NoBody {
		cancel()
		return nil, ai.NewClientError(client.provider, response.StatusCode, "response body is null", nil)
	}

	response.Body = &cancelOnClose{ReadCloser: response.Body, cancel: cancel}
	return response, nil
}

// statusError converts a non-2xx response into a *ai.ClientError.
func (client *Client) statusError(response *http.Response) error {
	payload, readErr := utils.ReadBody(response.Body)
	if readErr != nil {
		return ai.NewClientError(client.provider, response.StatusCode, describeStatus(response.StatusCode, nil).Message, readErr)
	}

	vendorErr, ok := VendorError{}, false
	if client.decodeError != nil {
		vendorErr, ok = client.decodeError(payload)
	}
	if !ok {
		vendorErr, ok = DecodeGenericError(payload)
	}
	if !ok {
		vendorErr = describeStatus(response.StatusCode, payload)
	}

	clientErr := ai.NewClientError(client.provider, response.StatusCode, vendorErr.Message, nil)
	clientErr.VendorCode = vendorErr.Code
	return clientErr
}

func (client *Client) logCompletion(ctx context.Context, what string, start time.Time, err error) {
	attrs := []any{
		slog.String("provider", string(client.provider)),
		slog.String("model", client.config.Model),
		slog.Duration("duration", time.Since(start)),
	}
	if err != nil {
		client.config.Logger.DebugContext(ctx, "llm "+what+" failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	client.config.Logger.DebugContext(ctx, "llm "+what+" completed", attrs...)
}

// cancelOnClose releases the request context once the body is closed, so the
// connection is torn down even when the caller stops reading early.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (body *cancelOnClose) Close() error {
	err := body.ReadCloser.Close()
	body.cancel()
	return err
}
