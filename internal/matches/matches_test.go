package matches

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/kickelo/kickelo/internal/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := dbpkg.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbpkg.Close(d) })
	require.NoError(t, dbpkg.AutoMigrate(d, &Record{}))
	return d
}

// newTestRepo returns a repository whose clock advances one second per call.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	clock := time.UnixMilli(1700000000000)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return repo
}

func newRouter(t *testing.T, repo *Repository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, repo)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listMatches(t *testing.T, r http.Handler) []map[string]any {
	t.Helper()
	w := doJSON(r, http.MethodGet, "/api/matches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRepository_CreateAndListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, sub([]string{"a"}, []string{"b"}, "A", 5, 1))
	require.NoError(t, err)
	second, err := repo.Create(ctx, sub([]string{"c"}, []string{"d"}, "B", 2, 5))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.Timestamp, first.Timestamp)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestRepository_UnrankedIsStored(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := sub([]string{"a"}, []string{"b"}, "A", 5, 1)
	s.Ranked = false
	_, err := repo.Create(ctx, s)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Ranked)
}

func TestRepository_PurgeVibrationLogs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	with := sub([]string{"a"}, []string{"b"}, "A", 5, 1)
	with.VibrationLog = json.RawMessage(`[{"ms":5}]`)
	_, err := repo.Create(ctx, with)
	require.NoError(t, err)
	_, err = repo.Create(ctx, sub([]string{"a"}, []string{"b"}, "B", 1, 5))
	require.NoError(t, err)

	checked, updated, err := repo.PurgeVibrationLogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), checked)
	assert.Equal(t, int64(1), updated)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	for _, m := range list {
		assert.Nil(t, m.VibrationLog)
	}
}

func TestHTTP_CreateExample(t *testing.T) {
	r := newRouter(t, newTestRepo(t))
	w := doJSON(r, http.MethodPost, "/api/matches", map[string]any{
		"teamA": []string{"A1", "A2"}, "teamB": []string{"B1"},
		"winner": "A", "goalsA": 5, "goalsB": 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, true, m["ranked"])
	assert.Equal(t, float64(1700000001000), m["timestamp"])
	assert.Equal(t, []any{"A1", "A2"}, m["teamA"])
	assert.NotEmpty(t, m["id"])
	assert.Nil(t, m["pairingMetadata"])
	assert.Nil(t, m["positionsConfirmed"])

	assert.Len(t, listMatches(t, r), 1)
}

func TestHTTP_RejectionsPersistNothing(t *testing.T) {
	r := newRouter(t, newTestRepo(t))
	tests := []struct {
		body map[string]any
		want string
	}{
		{map[string]any{"teamA": []string{"A1", "A2", "A3"}, "teamB": []string{"B1"}, "winner": "A", "goalsA": 5, "goalsB": 3}, "team too large"},
		{map[string]any{"teamA": []string{"a"}, "teamB": []string{"b"}, "winner": "A", "goalsA": 3, "goalsB": 3}, "tie not allowed"},
		{map[string]any{"teamA": []string{"a"}, "teamB": []string{"b"}, "winner": "B", "goalsA": 5, "goalsB": 3}, "winner/score mismatch"},
		{map[string]any{"teamA": []string{" a "}, "teamB": []string{"a"}, "winner": "A", "goalsA": 5, "goalsB": 3}, "duplicate player across teams"},
		{map[string]any{"teamA": []string{" "}, "teamB": []string{"a"}, "winner": "A", "goalsA": 5, "goalsB": 3}, "empty player name"},
		{map[string]any{"teamA": []string{"a"}, "teamB": []string{"b"}, "winner": "B", "goalsA": -1, "goalsB": 3}, "negative score"},
		{map[string]any{"teamA": []string{"a"}, "teamB": []string{"b"}, "winner": "A", "goalsA": 5, "goalsB": 3, "positionsConfirmed": "yes"}, "invalid payload: positionsConfirmed must be a boolean or an object"},
	}
	for _, tt := range tests {
		w := doJSON(r, http.MethodPost, "/api/matches", tt.body)
		require.Equal(t, http.StatusBadRequest, w.Code, tt.want)
		var out map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, tt.want, out["error"])
	}
	assert.Empty(t, listMatches(t, r))
}

func TestHTTP_MissingRequiredFields(t *testing.T) {
	r := newRouter(t, newTestRepo(t))
	w := doJSON(r, http.MethodPost, "/api/matches", map[string]any{"teamA": []string{"a"}, "teamB": []string{"b"}, "winner": "A"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/matches", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTP_PayloadRoundTrip(t *testing.T) {
	r := newRouter(t, newTestRepo(t))
	w := doJSON(r, http.MethodPost, "/api/matches", map[string]any{
		"teamA": []string{"a"}, "teamB": []string{"b", "c"},
		"winner": "B", "goalsA": 2, "goalsB": 5,
		"pairingMetadata":    map[string]any{"mode": "auto"},
		"positionsConfirmed": true,
		"ranked":             false,
		"goalLog":            []map[string]any{{"team": "B", "t": 31}},
		"matchDuration":      240,
		"vibrationLog":       []map[string]any{{"ms": 12, "strength": 3}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "vibrationLog")

	list := listMatches(t, r)
	require.Len(t, list, 1)
	m := list[0]
	assert.Equal(t, map[string]any{"mode": "auto"}, m["pairingMetadata"])
	assert.Equal(t, map[string]any{"confirmed": true}, m["positionsConfirmed"])
	assert.Equal(t, false, m["ranked"])
	assert.Equal(t, []any{map[string]any{"team": "B", "t": float64(31)}}, m["goalLog"])
	assert.Equal(t, float64(240), m["matchDuration"])
	_, present := m["vibrationLog"]
	assert.False(t, present)
}

func TestHTTP_PositionsConfirmedObjectKept(t *testing.T) {
	r := newRouter(t, newTestRepo(t))
	w := doJSON(r, http.MethodPost, "/api/matches", map[string]any{
		"teamA": []string{"a"}, "teamB": []string{"b"},
		"winner": "A", "goalsA": 5, "goalsB": 0,
		"positionsConfirmed": map[string]any{"confirmed": false, "swapped": true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := listMatches(t, r)
	require.Len(t, list, 1)
	assert.Equal(t, map[string]any{"confirmed": false, "swapped": true}, list[0]["positionsConfirmed"])
}

func TestHTTP_CSVExport(t *testing.T) {
	repo := newTestRepo(t)
	r := newRouter(t, repo)
	ctx := context.Background()
	_, err := repo.Create(ctx, sub([]string{"a", "b"}, []string{"c"}, "A", 5, 2))
	require.NoError(t, err)
	dur := 90
	s := sub([]string{"c"}, []string{"d"}, "B", 1, 5)
	s.MatchDuration = &dur
	s.VibrationLog = json.RawMessage(`[{"ms":1}]`)
	_, err = repo.Create(ctx, s)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/api/matches.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "timestamp", "team_a", "team_b", "winner", "goals_a", "goals_b", "ranked", "match_duration"}, rows[0])
	assert.Equal(t, []string{"c", "d", "B", "1", "5", "true", "90"}, rows[1][2:])
	assert.Equal(t, []string{"a;b", "c", "A", "5", "2", "true", ""}, rows[2][2:])
}
