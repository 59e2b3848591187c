package events

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType is the Pub/Sub topic an event is published to.
type EventType string

const (
	EventMatchCreated     EventType = "match-created"
	EventMatchJoined      EventType = "match-joined"
	EventMatchLeft        EventType = "match-left"
	EventMatchCompleted   EventType = "match-completed"
	EventMatchCanceled    EventType = "match-canceled"
	EventNoShowMarked     EventType = "no-show-marked"
	EventRequestCreated   EventType = "request-created"
	EventRequestConverted EventType = "request-converted"
)

// MatchCompleted is published once when a match transitions to completed.
// The updater consumes it to apply progression to each participant.
type MatchCompleted struct {
	MatchID     string   `msgpack:"match_id"`
	HostID      string   `msgpack:"host_id"`
	Players     []string `msgpack:"players"`
	CheckedIn   []string `msgpack:"checked_in"`
	NoShows     []string `msgpack:"no_shows"`
	CompletedAt int64    `msgpack:"completed_at"`
}

// RosterChanged is published on joins, leaves and cancellations.
type RosterChanged struct {
	MatchID   string `msgpack:"match_id"`
	PlayerID  string `msgpack:"player_id"`
	SpotsLeft int    `msgpack:"spots_left"`
	Waitlist  int    `msgpack:"waitlist"`
}

// RequestEvent is published when a match request is created or converted.
type RequestEvent struct {
	RequestID  string `msgpack:"request_id"`
	CreatorID  string `msgpack:"creator_id"`
	MatchID    string `msgpack:"match_id,omitempty"`
	Interested int    `msgpack:"interested"`
}
