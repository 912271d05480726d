package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
	wstransport "github.com/rocketscienceinc/tictactoe-engine/transport/websocket"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	gameUseCase, _ := suite.NewGameUseCase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(New(logger, gameUseCase, wstransport.New(logger, gameUseCase)).Handler())
	t.Cleanup(srv.Close)

	return srv
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/ping", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
}

func TestGameFlow(t *testing.T) {
	srv := newTestServer(t)

	// Given: a bot game where the human plays X
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/games", `{"type":"bot","mark":"X"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	game := decode[entity.Game](t, resp)
	require.NotEmpty(t, game.ID)
	assert.Equal(t, tictactoe.MarkO, game.BotMark)

	gameURL := srv.URL + "/api/games/" + game.ID

	// When: the human takes the centre
	resp = doRequest(t, http.MethodPost, gameURL+"/turns", `{"row":1,"col":1}`)

	// Then: the bot has answered
	require.Equal(t, http.StatusOK, resp.StatusCode)
	game = decode[entity.Game](t, resp)
	assert.Len(t, tictactoe.Actions(game.Board), 7)
	assert.Equal(t, tictactoe.MarkX, game.Turn)

	// Then: the stored game matches
	resp = doRequest(t, http.MethodGet, gameURL, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, game, decode[entity.Game](t, resp))

	// When: the human plays an occupied cell
	resp = doRequest(t, http.MethodPost, gameURL+"/turns", `{"row":1,"col":1}`)

	// Then: the request is rejected
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// When: asking for a hint
	resp = doRequest(t, http.MethodGet, gameURL+"/hint", "")

	// Then: the hint is a legal move
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hint := decode[hintResponse](t, resp)
	assert.Contains(t, tictactoe.Actions(game.Board), hint.Action)

	// When: the game is deleted
	resp = doRequest(t, http.MethodDelete, gameURL, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Then: it can't be found anymore
	resp = doRequest(t, http.MethodGet, gameURL, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLocalGameTurnOrder(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/games", `{"type":"local"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	game := decode[entity.Game](t, resp)

	gameURL := srv.URL + "/api/games/" + game.ID
	for _, move := range []string{`{"row":0,"col":0}`, `{"row":1,"col":0}`, `{"row":0,"col":1}`, `{"row":1,"col":1}`, `{"row":0,"col":2}`} {
		resp = doRequest(t, http.MethodPost, gameURL+"/turns", move)
		require.Equal(t, http.StatusOK, resp.StatusCode, move)
		game = decode[entity.Game](t, resp)
	}

	assert.True(t, game.IsFinished())
	assert.Equal(t, "X", game.Winner)

	// a finished game accepts no more turns
	resp = doRequest(t, http.MethodPost, gameURL+"/turns", `{"row":2,"col":2}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, gameURL+"/hint", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateGame_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "Unknown type", body: `{"type":"public","mark":"X"}`},
		{name: "Bot game without mark", body: `{"type":"bot"}`},
		{name: "Unknown mark", body: `{"type":"bot","mark":"Z"}`},
		{name: "Malformed JSON", body: `{"type":`},
		{name: "Unknown field", body: `{"type":"bot","mark":"X","depth":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, srv.URL+"/api/games", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestMakeTurn_UnknownGame(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/games/missing/turns", `{"row":0,"col":0}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Finds the winning move", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/analyze",
			`{"board":[["X","X",""],["O","O",""],["","",""]]}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		analysis := decode[usecase.Analysis](t, resp)
		assert.Equal(t, tictactoe.MarkX, analysis.Player)
		assert.False(t, analysis.Terminal)
		require.NotNil(t, analysis.BestMove)
		assert.Equal(t, tictactoe.Action{Row: 0, Col: 2}, *analysis.BestMove)
	})

	t.Run("Drawn board", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/analyze",
			`{"board":[["X","O","X"],["X","O","O"],["O","X","X"]]}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		analysis := decode[usecase.Analysis](t, resp)
		assert.True(t, analysis.Terminal)
		assert.Equal(t, tictactoe.Empty, analysis.Winner)
		assert.Equal(t, 0, analysis.Utility)
		assert.Nil(t, analysis.BestMove)
		assert.Empty(t, analysis.Actions)
	})

	t.Run("Impossible board", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/analyze",
			`{"board":[["O","O",""],["","",""],["","",""]]}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unknown mark", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/analyze",
			`{"board":[["Q","",""],["","",""],["","",""]]}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAnalyze_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t)

	// Given: a body padded past the limit
	body := `{"board":[["X","",""],["","",""],["","",""]]` + strings.Repeat(" ", maxBodySize) + `}`

	// When: it is posted
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/analyze", body)

	// Then: it is rejected before being decoded
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestWebSocketThroughRouter(t *testing.T) {
	srv := newTestServer(t)

	// Given: a websocket dialed through the router middleware
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	// When: a local game is requested
	require.NoError(t, conn.WriteJSON(wstransport.Message{
		Action:  "game:new",
		Payload: json.RawMessage(`{"type":"local"}`),
	}))

	// Then: the game comes back over the same connection
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var message wstransport.Message
	require.NoError(t, conn.ReadJSON(&message))
	assert.Equal(t, "game:new", message.Action)

	var payload wstransport.Payload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))
	assert.Empty(t, payload.Error)
	require.NotNil(t, payload.Game)
	assert.Equal(t, entity.LocalType, payload.Game.Type)
}
