package events

import (
	"strconv"
	"sync"
	"time"
)

// Event kinds appended by the protocol core and consumed by external
// observers (UI, bots). The core's contract is "appends a record".
const (
	TournamentCreated     = "tournament_created"
	ParticipantRegistered = "participant_registered"
	TournamentStarted     = "tournament_started"
	TournamentCompleted   = "tournament_completed"
	TournamentCancelled   = "tournament_cancelled"
	MatchCreated          = "match_created"
	ParticipantJoined     = "participant_joined"
	DisputeOpened         = "dispute_opened"
	JuryVote              = "jury_vote"
	MatchCompleted        = "match_completed"
)

type StreamEvent struct {
	EventID  string `json:"event_id"`
	Event    string `json:"event"`
	RefID    string `json:"ref_id"`
	ServerTS int64  `json:"server_ts"`
	Data     any    `json:"data"`
}

type Buffer struct {
	mu       sync.Mutex
	nextID   int64
	max      int
	events   []StreamEvent
	watchers map[chan StreamEvent]struct{}
	closed   bool
}

func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = 500
	}
	return &Buffer{
		max:      max,
		watchers: map[chan StreamEvent]struct{}{},
	}
}

func (b *Buffer) Append(event, refID string, data any) StreamEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return StreamEvent{}
	}
	b.nextID++
	ev := StreamEvent{
		EventID:  strconv.FormatInt(b.nextID, 10),
		Event:    event,
		RefID:    refID,
		ServerTS: time.Now().UnixMilli(),
		Data:     data,
	}
	b.events = append(b.events, ev)
	if len(b.events) > b.max {
		b.events = b.events[len(b.events)-b.max:]
	}
	for ch := range b.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// ReplayAfter returns buffered events strictly after lastEventID, or the
// whole buffer when the id is empty or unparsable.
func (b *Buffer) ReplayAfter(lastEventID string) []StreamEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return nil
	}
	last, err := strconv.ParseInt(lastEventID, 10, 64)
	if lastEventID == "" || err != nil {
		out := make([]StreamEvent, len(b.events))
		copy(out, b.events)
		return out
	}
	out := make([]StreamEvent, 0, len(b.events))
	for _, ev := range b.events {
		id, err := strconv.ParseInt(ev.EventID, 10, 64)
		if err != nil {
			continue
		}
		if id > last {
			out = append(out, ev)
		}
	}
	return out
}

func (b *Buffer) Watch() (<-chan StreamEvent, func()) {
	ch := make(chan StreamEvent, 64)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.watchers[ch] = struct{}{}
	b.mu.Unlock()
	cancel := func() {
		b.mu.Lock()
		if _, ok := b.watchers[ch]; ok {
			delete(b.watchers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.watchers {
		delete(b.watchers, ch)
		close(ch)
	}
}
