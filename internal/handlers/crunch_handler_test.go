package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"number-cruncher/internal/facts"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCrunch_Stored(t *testing.T) {
	h := &Handler{Cruncher: &stubService{status: facts.Status{Verdict: facts.VerdictStored, Number: 42}}}
	r := gin.New()
	r.POST("/api/crunch", h.Crunch)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/crunch", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp CrunchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, CrunchResponse{Verdict: facts.VerdictStored, Number: 42, Message: "Yum! 42"}, resp)
}

func TestCrunch_FailureIsBadGateway(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("%w: %v", facts.ErrCrunchFailed, errBoom)}
	h := &Handler{Cruncher: svc}
	r := gin.New()
	r.POST("/api/crunch", h.Crunch)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/crunch", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.NotContains(t, w.Body.String(), "boom")
	require.Equal(t, 1, svc.calls)
}

func TestGetTummy(t *testing.T) {
	h := &Handler{Cruncher: &stubService{tummy: []facts.RetainedFact{{Number: 42, Fact: "cool"}}}}
	r := gin.New()
	r.GET("/api/tummy", h.GetTummy)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tummy", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Facts    []facts.RetainedFact `json:"facts"`
		Count    int                  `json:"count"`
		Capacity int                  `json:"capacity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, []facts.RetainedFact{{Number: 42, Fact: "cool"}}, resp.Facts)
	require.Equal(t, 1, resp.Count)
	require.Equal(t, 2, resp.Capacity)
}

func TestGetLog_EmptyIsArray(t *testing.T) {
	h := &Handler{Cruncher: &stubService{}}
	r := gin.New()
	r.GET("/api/log", h.GetLog)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/log", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"entries":[],"count":0}`, w.Body.String())
}

func TestGetLog_OmitsAbsentFields(t *testing.T) {
	number := 49
	h := &Handler{Cruncher: &stubService{log: []facts.LogEntry{{
		RequestNumber: 1,
		EndPoint:      facts.DefaultEndpoint,
		Result:        facts.ResultSuccess,
		Number:        &number,
	}}}}
	r := gin.New()
	r.GET("/api/log", h.GetLog)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/log", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"number":49`)
	require.NotContains(t, w.Body.String(), `error_code`)
}
