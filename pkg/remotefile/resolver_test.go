package remotefile

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTestServer serves "<key>\n" for /key1 and /key2 and a 404 for
// everything else. Requests are recorded in order.
func makeTestServer(t *testing.T) (*httptest.Server, func() []string) {
	var mu sync.Mutex
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/key1", "/key2":
			fmt.Fprintf(w, "%s\n", strings.TrimPrefix(r.URL.Path, "/"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), requests...)
	}
}

func TestSingleInputResolver(t *testing.T) {
	server, _ := makeTestServer(t)
	url := server.URL + "/key1"

	resolver := NewResolver(context.Background())

	expectedOutput := Spec{
		URL:     url,
		Content: []byte("key1\n"),
	}

	resolver.Add(url)

	resultItems, err := resolver.Finish()
	assert.NoError(t, err)
	assert.Equal(t, []Spec{expectedOutput}, resultItems)
}

func TestMultiInputResolverKeepsOrder(t *testing.T) {
	server, requests := makeTestServer(t)

	urlOne := server.URL + "/key1"
	urlTwo := server.URL + "/key2"

	resolver := NewResolver(context.Background())

	resolver.Add(urlTwo)
	resolver.Add(urlOne, urlTwo)

	resultItems, err := resolver.Finish()
	require.NoError(t, err)

	assert.Equal(t, []Spec{
		{URL: urlTwo, Content: []byte("key2\n")},
		{URL: urlOne, Content: []byte("key1\n")},
		{URL: urlTwo, Content: []byte("key2\n")},
	}, resultItems)
	assert.Equal(t, []string{"/key2", "/key1", "/key2"}, requests())
}

func TestEmptyResolver(t *testing.T) {
	resolver := NewResolver(context.Background())
	resultItems, err := resolver.Finish()
	assert.NoError(t, err)
	assert.Empty(t, resultItems)
}

func TestInvalidInputResolver(t *testing.T) {
	resolver := NewResolver(context.Background())

	resolver.Add("")

	resultItems, err := resolver.Finish()
	assert.EqualError(t, err, "File resolver: url is required")
	assert.Len(t, resultItems, 0)
}

func TestResolverStopsAtFirstError(t *testing.T) {
	server, requests := makeTestServer(t)

	resolver := NewResolver(context.Background())
	resolver.Add(server.URL+"/key1", server.URL+"/missing", server.URL+"/key2")

	resultItems, err := resolver.Finish()
	assert.EqualError(t, err, fmt.Sprintf("unexpected status 404: %s/missing", server.URL))
	assert.Nil(t, resultItems)
	assert.Equal(t, []string{"/key1", "/missing"}, requests())
}

func TestResolverLogsDownloads(t *testing.T) {
	server, _ := makeTestServer(t)

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	resolver := NewResolver(context.Background(), WithLogger(logger))
	resolver.Add(server.URL + "/key1")
	_, err := resolver.Finish()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Downloading: "+server.URL+"/key1")
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, fmt.Errorf("connection refused")
}

func TestResolverTransportErrorNamesURL(t *testing.T) {
	resolver := NewResolver(context.Background(), WithDoer(failingDoer{}))
	resolver.Add("https://example.com/ubuntu16.04/9.0/base/Dockerfile")

	_, err := resolver.Finish()
	assert.EqualError(t, err, "cannot fetch https://example.com/ubuntu16.04/9.0/base/Dockerfile: connection refused")
}

func TestClientInvalidURL(t *testing.T) {
	_, err := NewClient(nil).Resolve(context.Background(), "hello")
	assert.EqualError(t, err, "File resolver: invalid url hello")
}
