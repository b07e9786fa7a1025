package runner_test

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/datagen-agent/internal/datagen"
	"github.com/petasbytes/datagen-agent/internal/fsops"
	"github.com/petasbytes/datagen-agent/internal/jsonstore"
	"github.com/petasbytes/datagen-agent/internal/runner"
	"github.com/petasbytes/datagen-agent/internal/telemetry"
	"github.com/petasbytes/datagen-agent/tools"
)

// fakeTransport replays scripted responses in order; the last one repeats.
type fakeTransport struct {
	mu        sync.Mutex
	status    int
	responses []string
	bodies    [][]byte
}

func newFake(responses ...string) *fakeTransport {
	return &fakeTransport{status: http.StatusOK, responses: responses}
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, b)
	idx := len(f.bodies) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	resp := &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(f.responses[idx]))),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bodies)
}

func (f *fakeTransport) body(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.bodies[i])
}

func newClientWithTransport(rt http.RoundTripper) *anthropic.Client {
	c := anthropic.NewClient(
		option.WithHTTPClient(&http.Client{Transport: rt}),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	return &c
}

func newRunner(rt http.RoundTripper, tokenBudget int) *runner.Runner {
	return &runner.Runner{
		Client:      newClientWithTransport(rt),
		Model:       "claude-test",
		MaxTokens:   256,
		TokenBudget: tokenBudget,
	}
}

// newRegistry wires the real tools over a temp sandbox.
func newRegistry(t *testing.T) ([]tools.ToolDefinition, string) {
	t.Helper()
	sb, err := fsops.NewSandbox(t.TempDir(), "")
	if err != nil {
		t.Fatalf("sandbox: %v", err)
	}
	root, _ := sb.Roots()
	now := func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return tools.NewRegistry(datagen.NewSeeded(1, now), jsonstore.New(sb)), root
}

// observe enables the event log in a temp dir and returns the events path.
func observe(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	telemetry.Configure(dir, true)
	t.Cleanup(func() { telemetry.Configure("", false) })
	return dir + string(os.PathSeparator) + "events.jsonl"
}

func textResponse(text string) string {
	return `{"id":"msg_text","type":"message","role":"assistant","model":"claude-test","stop_reason":"end_turn",` +
		`"content":[{"type":"text","text":` + quote(text) + `}],"usage":{"input_tokens":1,"output_tokens":1}}`
}

func toolUseResponse(id, name, input string) string {
	return `{"id":"msg_` + id + `","type":"message","role":"assistant","model":"claude-test","stop_reason":"tool_use",` +
		`"content":[{"type":"tool_use","id":"` + id + `","name":"` + name + `","input":` + input + `}],"usage":{"input_tokens":1,"output_tokens":1}}`
}

func quote(s string) string {
	var buf bytes.Buffer
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteRune(r)
		case '\n':
			buf.WriteString(`\n`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
