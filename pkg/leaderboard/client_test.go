package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/jugglemail/pkg/config"
)

type memStore struct {
	player Player
	ok     bool
	saves  int
}

func (m *memStore) LoadPlayer() (Player, bool) { return m.player, m.ok }

func (m *memStore) SavePlayer(p Player) error {
	m.player, m.ok = p, true
	m.saves++
	return nil
}

// fakeServer 一个最小的排行榜服务
type fakeServer struct {
	mu          sync.Mutex
	lbID        uuid.UUID
	scores      []Score
	players     map[uuid.UUID]Player
	registered  int
	lastAuth    string
	submissions []scoreRequest
}

func newFakeServer(t *testing.T, seed []Score) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{
		lbID:    uuid.New(),
		scores:  seed,
		players: make(map[uuid.UUID]Player),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/players", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fs.mu.Lock()
		defer fs.mu.Unlock()
		p := Player{ID: uuid.New(), Name: body.Name, Token: "tok-" + body.Name}
		fs.players[p.ID] = p
		fs.registered++
		_ = json.NewEncoder(w).Encode(p)
	})
	mux.HandleFunc("POST /api/v1/scores/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != fs.lbID.String() {
			http.NotFound(w, r)
			return
		}
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fs.mu.Lock()
		defer fs.mu.Unlock()
		fs.lastAuth = r.Header.Get("Authorization")
		p, ok := fs.players[req.Player]
		if !ok || fs.lastAuth != "Bearer "+p.Token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fs.submissions = append(fs.submissions, req)
		fs.scores = append(fs.scores, Score{Player: p.Name, Score: req.Score, Meta: req.Meta})
	})
	mux.HandleFunc("GET /api/v1/scores/{id}", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		_ = json.NewEncoder(w).Encode(fs.scores)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fs, srv
}

func testDifficulty() config.Difficulty {
	return config.Difficulty{TimeScale: 1, GameTime: 60, Lives: 3}
}

func metaOf(t *testing.T, d config.Difficulty) string {
	t.Helper()
	data, err := json.Marshal(d)
	require.NoError(t, err)
	return string(data)
}

func TestSubmit_Disabled(t *testing.T) {
	c := NewClient("", uuid.New(), nil)
	assert.False(t, c.Enabled())

	_, err := c.Submit(context.Background(), testDifficulty(), "Postie", 10)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSubmit_RegistersAndRanks(t *testing.T) {
	diff := testDifficulty()
	meta := metaOf(t, diff)
	fs, srv := newFakeServer(t, []Score{
		{Player: "alice", Score: 500, Meta: meta},
		{Player: "bob", Score: 300, Meta: meta},
		{Player: "carol", Score: 900, Meta: `{"other":true}`},
	})

	store := &memStore{}
	c := NewClient(srv.URL+"/", fs.lbID, store)

	res, err := c.Submit(context.Background(), diff, "Postie", 400)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Rank)
	require.Len(t, res.Top, 3)
	assert.Equal(t, "alice", res.Top[0].Player)
	assert.Equal(t, "Postie", res.Top[1].Player)
	assert.Equal(t, "bob", res.Top[2].Player)

	assert.Equal(t, 1, fs.registered)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "Postie", store.player.Name)
	assert.Equal(t, "Bearer tok-Postie", fs.lastAuth)
	require.Len(t, fs.submissions, 1)
	assert.Equal(t, meta, fs.submissions[0].Meta)
	assert.NotEqual(t, uuid.Nil, fs.submissions[0].ID)
}

func TestSubmit_ReusesStoredPlayer(t *testing.T) {
	fs, srv := newFakeServer(t, nil)
	store := &memStore{}
	c := NewClient(srv.URL, fs.lbID, store)

	_, err := c.Submit(context.Background(), testDifficulty(), "Postie", 10)
	require.NoError(t, err)
	_, err = c.Submit(context.Background(), testDifficulty(), "Postie", 20)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.registered)

	// 改名后重新注册
	_, err = c.Submit(context.Background(), testDifficulty(), "Courier", 30)
	require.NoError(t, err)
	assert.Equal(t, 2, fs.registered)
	assert.Equal(t, "Courier", store.player.Name)
	assert.Len(t, fs.submissions, 3)
}

func TestSubmit_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, uuid.New(), nil)
	_, err := c.Submit(context.Background(), testDifficulty(), "Postie", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestSubmit_IncompletePlayer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Postie"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, uuid.New(), nil)
	_, err := c.Submit(context.Background(), testDifficulty(), "Postie", 10)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "incomplete player"))
}

func TestSubmit_Cancelled(t *testing.T) {
	fs, srv := newFakeServer(t, nil)
	c := NewClient(srv.URL, fs.lbID, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Submit(ctx, testDifficulty(), "Postie", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWithTopN(t *testing.T) {
	c := NewClient("http://example.invalid", uuid.New(), nil, WithTopN(3), WithTopN(0))
	assert.Equal(t, 3, c.topN)

	hc := &http.Client{}
	c = NewClient("http://example.invalid", uuid.New(), nil, WithHTTPClient(hc))
	assert.Same(t, hc, c.httpClient)
}
