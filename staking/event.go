package staking

import (
	"time"

	"github.com/google/uuid"

	"github.com/bidolabs/bidopool-go/identity"
)

// EventType identifies a pool state change.
type EventType string

const (
	EventInitialized EventType = "initialized"
	EventStaked      EventType = "staked"
	EventUnstaked    EventType = "unstaked"
	EventReward      EventType = "reward"
	EventTransferred EventType = "transferred"
)

// Event records one successful mutating operation against the pool.
// Referral is the opaque attribution identity passed to Stake; it never
// affects share math. Counterparty is the recipient of a transfer.
type Event struct {
	ID           uuid.UUID
	Seq          uint64
	Type         EventType
	Holder       identity.Holder
	Counterparty identity.Holder
	Referral     identity.Holder
	Value        uint64
	Shares       uint64
	Time         time.Time
}

// emit appends an event to the journal and notifies any subscriber.
// Called with the controller lock held.
func (c *Controller) emit(ev Event) {
	ev.ID = uuid.New()
	ev.Seq = c.nextSeq
	ev.Time = c.now()
	c.nextSeq++
	c.journal = append(c.journal, ev)
	if c.sink != nil {
		c.sink(ev)
	}
}

// Events returns a copy of the in-memory event journal.
func (c *Controller) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.journal))
	copy(out, c.journal)
	return out
}

// Subscribe registers fn to receive every event as it is emitted. fn runs
// with the controller lock held and must not call back into the controller.
func (c *Controller) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = fn
}
