package game

import (
	"testing"
	"time"

	"github.com/decker502/jugglemail/pkg/config"
)

func TestScoreBookRecord(t *testing.T) {
	sb := NewScoreBook(nil)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sb.now = func() time.Time { return fixed }

	easy := config.Difficulty{TimeScale: 1, GameTime: 60, Lives: 3}
	hard := config.Difficulty{TimeScale: 2, GameTime: 30, Lives: 1}

	tests := []struct {
		name     string
		diff     config.Difficulty
		score    float64
		improved bool
		best     int64
	}{
		{"first score", easy, 120.7, true, 120},
		{"lower score", easy, 90, false, 120},
		{"equal score", easy, 120.2, false, 120},
		{"higher score", easy, 300, true, 300},
		{"other difficulty", hard, 10, true, 10},
	}

	for _, tt := range tests {
		improved, err := sb.Record(tt.diff, "Ada", tt.score)
		if err != nil {
			t.Fatalf("%s: Record() error: %v", tt.name, err)
		}
		if improved != tt.improved {
			t.Errorf("%s: improved got %v, want %v", tt.name, improved, tt.improved)
		}
		best, ok := sb.Best(tt.diff)
		if !ok || best.Score != tt.best {
			t.Errorf("%s: best got (%d, %v), want %d", tt.name, best.Score, ok, tt.best)
		}
	}

	if sb.RoundsPlayed() != len(tests) {
		t.Errorf("RoundsPlayed: got %d, want %d", sb.RoundsPlayed(), len(tests))
	}

	all := sb.All()
	if len(all) != 2 || all[0].Score != 300 || all[1].Score != 10 {
		t.Errorf("All() not sorted by score: %+v", all)
	}
	if !all[0].At.Equal(fixed) || all[0].PlayerName != "Ada" {
		t.Errorf("record metadata: %+v", all[0])
	}
}

func TestScoreBookUnknownDifficulty(t *testing.T) {
	sb := NewScoreBook(nil)
	if _, ok := sb.Best(config.Difficulty{TimeScale: 1}); ok {
		t.Error("empty book should have no best score")
	}
}

func TestScoreBookPersists(t *testing.T) {
	gdataManager := newTestGdata(t, "test_score_book")
	d := config.Difficulty{TimeScale: 1.5, GameTime: 120, Lives: 5}

	sb1 := NewScoreBook(gdataManager)
	if _, err := sb1.Record(d, "Ada", 77); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	sb2 := NewScoreBook(gdataManager)
	best, ok := sb2.Best(d)
	if !ok || best.Score != 77 {
		t.Errorf("reloaded best: got (%d, %v), want 77", best.Score, ok)
	}
	if sb2.RoundsPlayed() != 1 {
		t.Errorf("reloaded RoundsPlayed: got %d, want 1", sb2.RoundsPlayed())
	}
}
