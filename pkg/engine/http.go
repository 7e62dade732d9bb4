package engine

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/elkscene/elkscene/pkg/errors"
	"github.com/elkscene/elkscene/pkg/httputil"
)

// bodySnippetLimit bounds how much of an error response body lands in
// error messages.
const bodySnippetLimit = 512

// HTTPTransport POSTs layout requests to a networked layout service.
//
// Status mapping: 2xx is a successful exchange, 4xx means the engine
// refused the graph (layout rejection), 5xx and connection failures are
// transport errors wrapped retryable for callers that opt into
// [httputil.Retry].
type HTTPTransport struct {
	url    string
	client *http.Client
}

// NewHTTPTransport returns a transport posting to rawURL. A non-positive
// timeout falls back to DefaultTimeout.
func NewHTTPTransport(rawURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{
		url:    rawURL,
		client: &http.Client{Timeout: timeout},
	}
}

// Exchange POSTs the document and returns the raw response body. The body
// is either a positioned graph or a scene document, depending on how the
// service is configured; the caller knows which from its own configuration.
func (t *HTTPTransport) Exchange(ctx context.Context, doc []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(doc))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "build request for %s", t.url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		switch {
		case isTimeout(err):
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "engine at %s did not answer in time", t.url)
		case ctx.Err() != nil:
			return nil, errors.Wrap(errors.ErrCodeTransport, ctx.Err(), "request to engine at %s canceled", t.url)
		default:
			return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeEngineUnavailable, err, "reach engine at %s", t.url)}
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeTransport, err, "read engine response from %s", t.url)}
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, &httputil.RetryableError{Err: errors.New(errors.ErrCodeEngineUnavailable, "engine at %s answered %s: %s", t.url, resp.Status, bodySnippet(body))}
	case resp.StatusCode >= 400:
		return nil, errors.New(errors.ErrCodeLayoutRejected, "engine rejected the graph (%s): %s", resp.Status, bodySnippet(body))
	}
	return body, nil
}

// Close drops idle connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// isTimeout reports whether err is a deadline failure, from either the
// request context or the client's own timeout.
func isTimeout(err error) bool {
	if ue, ok := err.(*url.Error); ok {
		return ue.Timeout()
	}
	return false
}

func bodySnippet(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > bodySnippetLimit {
		body = body[:bodySnippetLimit]
	}
	if len(body) == 0 {
		return "empty body"
	}
	return string(body)
}
