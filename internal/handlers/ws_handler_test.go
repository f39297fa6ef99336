package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"number-cruncher/internal/auth"
	"number-cruncher/internal/facts"
	"number-cruncher/internal/middleware"
	"number-cruncher/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_ReceivesCrunchEvents(t *testing.T) {
	hub := realtime.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)
	h := &Handler{Hub: hub}

	r := gin.New()
	r.GET("/api/ws", middleware.JWTAuthMiddleware(), h.Subscribe)
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := auth.GenerateToken("operator-1", "alice")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.Observe(facts.Event{Status: facts.Status{Verdict: facts.VerdictStored, Number: 8}, TummySize: 1, Capacity: 2})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt realtime.CrunchEvent
	require.NoError(t, json.Unmarshal(msg, &evt))
	require.Equal(t, "crunch", evt.Type)
	require.Equal(t, 8, evt.Number)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestSubscribe_RequiresToken(t *testing.T) {
	h := &Handler{Hub: realtime.NewHub()}
	r := gin.New()
	r.GET("/api/ws", middleware.JWTAuthMiddleware(), h.Subscribe)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, 401, resp.StatusCode)
}
