package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/elkscene/elkscene/pkg/errors"
)

// closeGrace is how long Close waits for the engine to exit on its own
// after stdin is shut before killing it.
const closeGrace = 2 * time.Second

// PipeTransport keeps one engine process alive and speaks one JSON document
// per line over its stdin/stdout. The process starts lazily on the first
// Exchange and is respawned by the next call if it dies.
//
// A single mutex serializes exchanges: the line protocol has no request
// ids, so request/response pairs must not interleave on the shared pipe.
type PipeTransport struct {
	command string
	args    []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	errMu   sync.Mutex
	errTail []byte
}

// NewPipeTransport returns a persistent subprocess transport. The process
// is not started until the first Exchange.
func NewPipeTransport(command string, args ...string) *PipeTransport {
	return &PipeTransport{command: command, args: args}
}

// Exchange writes the document as a single line and reads one response
// line. If the context expires mid-call the process is killed, because a
// late response could no longer be paired with its request.
func (t *PipeTransport) Exchange(ctx context.Context, doc []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureStarted(); err != nil {
		return nil, err
	}

	var line bytes.Buffer
	if err := json.Compact(&line, doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "document is not valid JSON")
	}
	line.WriteByte('\n')

	if _, err := t.stdin.Write(line.Bytes()); err != nil {
		t.reset()
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "write to engine %s: %s", t.command, t.tail())
	}

	type readResult struct {
		line []byte
		err  error
	}
	ch := make(chan readResult, 1)
	stdout := t.stdout
	go func() {
		resp, err := stdout.ReadBytes('\n')
		ch <- readResult{resp, err}
	}()

	select {
	case <-ctx.Done():
		t.reset()
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "engine %s did not answer in time", t.command)
		}
		return nil, errors.Wrap(errors.ErrCodeTransport, ctx.Err(), "exchange with engine %s canceled", t.command)
	case r := <-ch:
		if r.err != nil {
			t.reset()
			return nil, errors.Wrap(errors.ErrCodeTransport, r.err, "engine %s closed its pipe: %s", t.command, t.tail())
		}
		return bytes.TrimRight(r.line, "\n"), nil
	}
}

// Close shuts the engine's stdin, waits briefly for a clean exit, then
// kills it.
func (t *PipeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cmd == nil {
		return nil
	}

	t.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- t.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(closeGrace):
		t.cmd.Process.Kill()
		<-done
	}

	t.cmd, t.stdin, t.stdout = nil, nil, nil
	return nil
}

// ensureStarted spawns the engine process if none is running.
// Caller holds mu.
func (t *PipeTransport) ensureStarted() error {
	if t.cmd != nil {
		return nil
	}

	if _, err := exec.LookPath(t.command); err != nil {
		return errors.Wrap(errors.ErrCodeEngineUnavailable, err, "engine command %q not found", t.command)
	}

	cmd := exec.Command(t.command, t.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransport, err, "create stdin pipe for %s", t.command)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransport, err, "create stdout pipe for %s", t.command)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransport, err, "create stderr pipe for %s", t.command)
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeEngineUnavailable, err, "start engine %s", t.command)
	}

	t.cmd = cmd
	t.stdin = stdin
	t.stdout = bufio.NewReader(stdout)

	t.errMu.Lock()
	t.errTail = nil
	t.errMu.Unlock()

	// Drain stderr so the engine never blocks on a full pipe; keep the
	// tail for error messages.
	go t.drainStderr(stderr)

	return nil
}

// reset kills the current process so the next Exchange respawns.
// Caller holds mu.
func (t *PipeTransport) reset() {
	if t.cmd == nil {
		return
	}
	t.stdin.Close()
	t.cmd.Process.Kill()
	t.cmd.Wait()
	t.cmd, t.stdin, t.stdout = nil, nil, nil
}

func (t *PipeTransport) drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		t.errMu.Lock()
		t.errTail = append(t.errTail, scanner.Bytes()...)
		t.errTail = append(t.errTail, '\n')
		if len(t.errTail) > stderrTailLimit {
			t.errTail = t.errTail[len(t.errTail)-stderrTailLimit:]
		}
		t.errMu.Unlock()
	}
}

func (t *PipeTransport) tail() string {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	return stderrTail(t.errTail)
}
