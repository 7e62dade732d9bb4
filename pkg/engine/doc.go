// Package engine talks to graph layout engines.
//
// A layout engine accepts an abstract graph document and answers with the
// same document enriched with positions, sizes, and edge routing. This
// package hides where that engine lives behind a single capability:
//
//	type Transport interface {
//	    Exchange(ctx context.Context, doc []byte) ([]byte, error)
//	    Close() error
//	}
//
// # Transports
//
// Four implementations cover the deployment spectrum:
//
//   - [ExecTransport]: spawns a command per request, document on stdin,
//     response on stdout. Simplest to operate; pays process startup on
//     every call.
//   - [PipeTransport]: keeps one engine process alive and exchanges one
//     JSON document per line over its stdin/stdout. Amortizes startup
//     across calls; requests are serialized on the shared pipe.
//   - [HTTPTransport]: POSTs the document to a layout service. The service
//     may answer with a positioned graph or, when configured, with an
//     already-transformed scene document.
//   - [GraphvizTransport]: an embedded fallback engine. Lays the graph out
//     in-process via the bundled Graphviz library, so it works with no
//     external engine installed at all.
//
// Transports are chosen through [Config] and constructed by [New]; no call
// site branches on the transport kind anywhere else.
//
// # Client
//
// [Client] wraps a transport with the wire codec. [Client.Layout] sends a
// graph and decodes the positioned graph; [Client.LayoutScene] additionally
// runs (or, for scene-mode HTTP engines, skips) the scene transform.
//
//	client, err := engine.NewClient(engine.Config{Kind: engine.KindGraphviz})
//	if err != nil { ... }
//	defer client.Close()
//
//	laid, err := client.Layout(ctx, graph)
//
// # Error taxonomy
//
// A defective input graph surfaces as a structural error; an unreachable or
// misbehaving engine surfaces as a transport error; an engine that refuses
// a well-formed request surfaces as a layout rejection. See
// [github.com/elkscene/elkscene/pkg/errors]. Transports never retry on
// their own: transient failures are wrapped retryable so callers can opt
// into [github.com/elkscene/elkscene/pkg/httputil.Retry].
package engine
