package engine

import "context"

// Transport carries layout requests to an engine.
type Transport interface {
	// Exchange submits one serialized graph document and returns the
	// engine's raw response body. Implementations must be safe for
	// concurrent use.
	Exchange(ctx context.Context, doc []byte) ([]byte, error)

	// Close releases any resources held by the transport. Transports
	// that hold none return nil.
	Close() error
}
