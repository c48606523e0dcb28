package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdme/floodwatch/internal/model"
)

type stubSource struct {
	snap *model.Snapshot
}

func (s *stubSource) Get(context.Context) *model.Snapshot {
	return s.snap
}

type stubAnswerer struct {
	lastQuery    string
	lastLocation string
}

func (s *stubAnswerer) Ask(query string) string {
	s.lastQuery = query
	return "answer for " + query
}

func (s *stubAnswerer) LocationSummary(location string) string {
	s.lastLocation = location
	return "risk summary for " + location
}

func newTestServer(t *testing.T) (*httptest.Server, *stubAnswerer) {
	t.Helper()
	snap := model.Fallback("Official IRSA Report (05-12-2025)", time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC))
	answerer := &stubAnswerer{}
	srv := httptest.NewServer(New(&stubSource{snap: snap}, answerer))
	t.Cleanup(srv.Close)
	return srv, answerer
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestServer_Root(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "FloodWatch API", body["service"])
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_FloodData(t *testing.T) {
	srv, _ := newTestServer(t)

	var body model.Snapshot
	resp := getJSON(t, srv.URL+"/api/flood-data", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, model.FallbackDate, body.Date)
	assert.Equal(t, "Official IRSA Report (05-12-2025)", body.Source)
	assert.Equal(t, 21600, body.Reservoirs["tarbela"].Inflow)
	assert.Equal(t, 39865, body.RIMStations.TotalInflow)
}

func TestServer_Chat(t *testing.T) {
	srv, answerer := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/api/chat?query=2010+floods", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "answer for 2010 floods", body["response"])
	assert.Equal(t, "2010 floods", answerer.lastQuery)
}

func TestServer_ChatMissingQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/chat")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_HistoryRisk(t *testing.T) {
	srv, answerer := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/api/history-risk?location=lahore", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "risk summary for lahore", body["risk_analysis"])
	assert.Equal(t, "lahore", answerer.lastLocation)
}

func TestServer_HistoryRiskMissingLocation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/history-risk")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_CORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/flood-data", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_UnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
