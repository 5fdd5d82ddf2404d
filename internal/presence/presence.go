// Package presence keeps a live, best-effort view of connected members for
// operator monitoring. Nothing here is authoritative: a missed notification
// leaves the view stale until the next full synchronization.
package presence

import "time"

// Record is one announced session.
type Record struct {
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	OnlineAt  time.Time `json:"online_at"`
}

// Message kinds carried on the broadcast channel.
const (
	KindSync  = "sync"
	KindJoin  = "join"
	KindLeave = "leave"
)

// Message is the wire shape on the presence channel. Sync carries the full
// state; join and leave carry the affected records.
type Message struct {
	Kind    string   `json:"kind"`
	Records []Record `json:"records"`
}
