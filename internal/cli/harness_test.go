package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// fakeSlackAPI serves emoji.list, emoji.add and the images the listing
// points at. Listing values starting with "/" are rewritten to server URLs.
type fakeSlackAPI struct {
	t      *testing.T
	srv    *httptest.Server
	source map[string]string
	// rejects maps emoji name to the error code emoji.add answers with.
	rejects map[string]string

	mu          sync.Mutex
	created     []string
	createAuth  []string
	listTokens  []string
	imageServed int
}

func newFakeSlackAPI(t *testing.T, source map[string]string) *fakeSlackAPI {
	t.Helper()
	f := &fakeSlackAPI{t: t, source: source, rejects: map[string]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/emoji.list", f.handleList)
	mux.HandleFunc("/emoji.add", f.handleAdd)
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.imageServed++
		f.mu.Unlock()
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngPixel)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSlackAPI) handleList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.listTokens = append(f.listTokens, r.URL.Query().Get("token"))
	f.mu.Unlock()

	emoji := make(map[string]string, len(f.source))
	for name, value := range f.source {
		if strings.HasPrefix(value, "/") {
			value = f.srv.URL + value
		}
		emoji[name] = value
	}
	f.writeJSON(w, map[string]any{"ok": true, "emoji": emoji})
}

func (f *fakeSlackAPI) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		f.writeJSON(w, map[string]any{"ok": false, "error": "invalid_form_data"})
		return
	}
	name := r.FormValue("name")
	f.mu.Lock()
	f.createAuth = append(f.createAuth, r.Header.Get("Authorization"))
	code, rejected := f.rejects[name]
	if !rejected {
		f.created = append(f.created, name)
	}
	f.mu.Unlock()

	if rejected {
		f.writeJSON(w, map[string]any{"ok": false, "error": code})
		return
	}
	f.writeJSON(w, map[string]any{"ok": true})
}

func (f *fakeSlackAPI) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		f.t.Errorf("encode response: %v", err)
	}
}

func (f *fakeSlackAPI) createdNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.created...)
}

func (f *fakeSlackAPI) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.createAuth)
}

func testIO(input string) (commandIO, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return commandIO{In: strings.NewReader(input), Out: out}, out
}

func TestHarnessTransferThenListAgainstFakeAPI(t *testing.T) {
	api := newFakeSlackAPI(t, map[string]string{
		"party":  "/img/party.png",
		"shipit": "/img/shipit.png",
		"yay":    "alias:party",
	})

	cio, out := testIO("")
	err := transferCommand([]string{
		"--source-token", "xoxp-source",
		"--dest-token", "xoxs-dest",
		"--api-base", api.srv.URL,
		"--seconds-per-batch", "0",
		"--preview", "no",
	}, cio)
	require.NoError(t, err, out.String())
	assert.Len(t, api.createdNames(), 2)
	assert.Contains(t, out.String(), "succeeded: 2")

	cio, out = testIO("")
	require.NoError(t, listCommand([]string{"--source-token", "xoxp-source", "--api-base", api.srv.URL}, cio))
	assert.Contains(t, out.String(), ":yay:  alias of party")
}
