package public_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aojudge/ranklist/internal/api/public"
	"github.com/aojudge/ranklist/internal/config"
	"github.com/aojudge/ranklist/internal/database"
	"github.com/aojudge/ranklist/internal/pubsub"
	"github.com/aojudge/ranklist/internal/rank"
	"github.com/aojudge/ranklist/internal/roster"
	"github.com/aojudge/ranklist/internal/scoreboard"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func testContest() *roster.Contest {
	return &roster.Contest{
		ID:         "demo",
		Name:       "Demo Contest",
		FreezeTime: 100,
		Problems: []rank.Problem{
			{ID: "A", Label: "A", Title: "Apples", Type: rank.TypeICPC},
			{ID: "B", Label: "B", Title: "Bears", Type: rank.TypeICPC},
		},
		Teams: []rank.Team{
			{ID: "t1", Name: "Alpha"},
			{ID: "t2", Name: "Bravo"},
		},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *scoreboard.Service) {
	t.Helper()

	db, err := database.Init(filepath.Join(t.TempDir(), "ranklist.db"))
	require.NoError(t, err)

	broker := pubsub.New()
	svc, err := scoreboard.New(db, broker, testContest())
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	return public.NewRouter(&config.Config{}, svc, broker), svc
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func TestGetContest(t *testing.T) {
	router, svc := newTestRouter(t)
	require.NoError(t, svc.Ingest(rank.Run{ID: 1, TeamID: "t1", ProblemID: "A", Time: 10, Result: rank.VerdictWrongAnswer}))

	w := get(t, router, "/api/v1/contest")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Contest  roster.Contest `json:"contest"`
		RunCount int64          `json:"run_count"`
	}
	decodeData(t, w, &data)
	assert.Equal(t, "demo", data.Contest.ID)
	assert.Len(t, data.Contest.Problems, 2)
	assert.Empty(t, data.Contest.Teams)
	assert.EqualValues(t, 1, data.RunCount)
}

func TestGetRoster(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/api/v1/teams")
	require.Equal(t, http.StatusOK, w.Code)
	var teams []rank.Team
	decodeData(t, w, &teams)
	assert.Len(t, teams, 2)

	w = get(t, router, "/api/v1/problems")
	require.Equal(t, http.StatusOK, w.Code)
	var problems []rank.Problem
	decodeData(t, w, &problems)
	assert.Len(t, problems, 2)
}

func TestGetScoreboard(t *testing.T) {
	router, svc := newTestRouter(t)

	require.NoError(t, svc.Ingest(rank.Run{ID: 1, TeamID: "t2", ProblemID: "A", Time: 30, Result: rank.VerdictAccepted}))

	w := get(t, router, "/api/v1/scoreboard")
	require.Equal(t, http.StatusOK, w.Code)

	var view scoreboard.View
	decodeData(t, w, &view)
	require.Len(t, view.Teams, 2)
	assert.Equal(t, "t2", view.Teams[0].TeamID)
	assert.Equal(t, 1, view.Teams[0].TotalSolved)
	assert.False(t, view.Frozen)
	assert.Nil(t, view.Ceremony)
}

func TestGetCeremonyWhenIdle(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/api/v1/ceremony")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScoreboardWsDeliversSnapshots(t *testing.T) {
	router, svc := newTestRouter(t)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/scoreboard"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// The retained boot snapshot arrives first.
	view := readViewMessage(t, conn)
	require.Len(t, view.Teams, 2)
	assert.Equal(t, 0, view.Teams[0].TotalSolved)

	require.NoError(t, svc.Ingest(rank.Run{ID: 1, TeamID: "t1", ProblemID: "B", Time: 40, Result: rank.VerdictAccepted}))

	view = readViewMessage(t, conn)
	assert.Equal(t, "t1", view.Teams[0].TeamID)
	assert.Equal(t, 1, view.Teams[0].TotalSolved)
}

func readViewMessage(t *testing.T, conn *websocket.Conn) *scoreboard.View {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var wsMsg struct {
		Stream string          `json:"stream"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &wsMsg))
	require.Equal(t, scoreboard.Topic, wsMsg.Stream)

	var view scoreboard.View
	require.NoError(t, json.Unmarshal(wsMsg.Data, &view))
	return &view
}
