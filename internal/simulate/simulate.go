// Package simulate generates fake players for demo and load data.
// It is not used by the game at runtime.
package simulate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	goaway "github.com/TwiN/go-away"
)

// MaxScore bounds simulated scores.
const MaxScore = 10

// Player is one simulated result.
type Player struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// Options controls generation. Zero values get defaults: 100 players over
// 2023-01-01..2024-01-01.
type Options struct {
	Count int
	From  time.Time
	To    time.Time
	Seed  int64 // 0 picks a random seed
}

// ErrRange is returned when From is after To.
var ErrRange = errors.New("simulate: from date is after to date")

func (o Options) withDefaults() Options {
	if o.Count <= 0 {
		o.Count = 100
	}
	if o.From.IsZero() {
		o.From = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if o.To.IsZero() {
		o.To = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return o
}

// Players returns o.Count players with profanity-censored names, scores in
// 0..MaxScore and dates uniformly spread over [From, To].
func Players(o Options) ([]Player, error) {
	o = o.withDefaults()
	if o.From.After(o.To) {
		return nil, fmt.Errorf("%w: %s > %s", ErrRange, o.From.Format(time.DateOnly), o.To.Format(time.DateOnly))
	}
	f := gofakeit.New(o.Seed)
	out := make([]Player, 0, o.Count)
	for i := 0; i < o.Count; i++ {
		out = append(out, Player{
			Name:  goaway.Censor(f.Name()),
			Score: f.Number(0, MaxScore),
			Date:  f.DateRange(o.From, o.To).UTC(),
		})
	}
	return out, nil
}

// WriteJSON writes players as an indented JSON array.
func WriteJSON(w io.Writer, players []Player) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(players)
}
