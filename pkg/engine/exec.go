package engine

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/elkscene/elkscene/pkg/errors"
)

// stderrTailLimit bounds how much engine stderr is kept for error messages.
const stderrTailLimit = 2048

// ExecTransport runs the engine command once per exchange: document on
// stdin, response on stdout. Stateless, so every call pays process startup.
type ExecTransport struct {
	command string
	args    []string
}

// NewExecTransport returns a one-shot subprocess transport.
func NewExecTransport(command string, args ...string) *ExecTransport {
	return &ExecTransport{command: command, args: args}
}

// Exchange spawns the engine, feeds it the document, and collects stdout.
// Context cancellation kills the process.
func (t *ExecTransport) Exchange(ctx context.Context, doc []byte) ([]byte, error) {
	if _, err := exec.LookPath(t.command); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngineUnavailable, err, "engine command %q not found", t.command)
	}

	cmd := exec.CommandContext(ctx, t.command, t.args...)
	cmd.Stdin = bytes.NewReader(doc)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "engine %s did not answer in time", t.command)
		}
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "engine %s: %s", t.command, stderrTail(errBuf.Bytes()))
	}
	return out.Bytes(), nil
}

// Close is a no-op: nothing outlives an exchange.
func (t *ExecTransport) Close() error { return nil }

// stderrTail returns the trailing portion of captured stderr for error
// messages.
func stderrTail(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) > stderrTailLimit {
		b = b[len(b)-stderrTailLimit:]
	}
	if len(b) == 0 {
		return "no stderr output"
	}
	return string(b)
}
