// internal/store/feed.go
//
// Display fan-out for websocket clients.

package store

import (
	"sync"

	"github.com/robalobadob/twistle/internal/game"
)

// Event is one display update, as pushed to websocket clients.
type Event struct {
	Type   string       `json:"type"` // "slot" | "completed" | "failed"
	Slot   game.Slot    `json:"slot,omitempty"`
	Text   string       `json:"text,omitempty"`
	Result *game.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Feed is a game.Display that remembers the latest text of every slot and
// fans events out to subscribers. Sends never block: the machine calls Show
// while holding its lock, so a slow subscriber loses events instead of
// stalling the timer. Subscribers resync from Slots().
type Feed struct {
	mu     sync.Mutex
	slots  map[game.Slot]string
	subs   map[chan Event]struct{}
	closed bool
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{slots: make(map[game.Slot]string), subs: make(map[chan Event]struct{})}
}

func (f *Feed) Show(slot game.Slot, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[slot] = text
	f.publish(Event{Type: "slot", Slot: slot, Text: text})
}

func (f *Feed) Completed(r game.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publish(Event{Type: "completed", Result: &r})
}

func (f *Feed) Failed(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publish(Event{Type: "failed", Error: err.Error()})
}

func (f *Feed) publish(e Event) {
	for ch := range f.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Slots returns a copy of the current slot texts.
func (f *Feed) Slots() map[game.Slot]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[game.Slot]string, len(f.slots))
	for k, v := range f.slots {
		out[k] = v
	}
	return out
}

// Subscribe registers a listener. cancel must be called when done.
// On a closed feed the returned channel is already closed.
func (f *Feed) Subscribe(buffer int) (events <-chan Event, cancel func()) {
	ch := make(chan Event, buffer)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	f.subs[ch] = struct{}{}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.subs[ch]; ok {
				delete(f.subs, ch)
				close(ch)
			}
		})
	}
}

// Close ends every subscription.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for ch := range f.subs {
		delete(f.subs, ch)
		close(ch)
	}
}
