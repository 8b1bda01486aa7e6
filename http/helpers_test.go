package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"loan-desk/repository"
	"loan-desk/service"
	"loan-desk/web"
)

type testApp struct {
	server  *httptest.Server
	client  *http.Client
	records *repository.RecordRepositoryMemory
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	log, _ := test.NewNullLogger()

	samples, err := repository.SampleRecords()
	require.NoError(t, err)
	records, err := repository.NewRecordRepositoryMemory(samples...)
	require.NoError(t, err)
	store, err := repository.NewDocumentStoreAFS(ctx, t.TempDir())
	require.NoError(t, err)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	cache := repository.NewMemoryCache()

	sessions := service.NewSessionService(repository.NewCacheSessionRepository(cache, time.Hour))
	documents := service.NewDocumentService(store, 1<<20, []string{".pdf", ".png"}, log)
	tables := service.NewTableService(records, documents, log)
	forms := service.NewFormService(records, documents, log)
	loans := service.NewLoanService(cache, log)

	limiter := NewRateLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	router := NewRouter(RouterConfig{
		Tables:      NewTableHandler(sessions, tables, renderer, log),
		Forms:       NewFormHandler(sessions, tables, forms, renderer, log, 1<<20),
		Loans:       NewLoanHandler(loans, 10, log),
		Sessions:    sessions,
		RateLimiter: limiter,
		SessionTTL:  time.Hour,
		Log:         log,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		server: server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		records: records,
	}
}

func (a *testApp) do(t *testing.T, method, path string, body io.Reader, contentType string, asJSON bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// postForm sends a url-encoded form and asks for JSON.
func (a *testApp) postForm(t *testing.T, path string, values url.Values) *http.Response {
	return a.do(t, http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", true)
}

// postBrowser sends a url-encoded form the way a browser does.
func (a *testApp) postBrowser(t *testing.T, path string, values url.Values) *http.Response {
	return a.do(t, http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", false)
}

func (a *testApp) get(t *testing.T, path string, asJSON bool) *http.Response {
	return a.do(t, http.MethodGet, path, nil, "", asJSON)
}

func (a *testApp) upload(t *testing.T, path string, files map[string][]byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return a.do(t, http.MethodPost, path, &buf, mw.FormDataContentType(), true)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
