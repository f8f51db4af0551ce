package matchmaking

// FailCode tells a ticket owner why the ticket left its queue without a match.
type FailCode string

const (
	FailTimeout       FailCode = "Timeout"
	FailQueueNotFound FailCode = "QueueNotFound"
	FailInvalidTicket FailCode = "InvalidTicket"

	// reserved, never raised by the engine
	FailQueueIsFull  FailCode = "QueueIsFull"
	FailQueueDropped FailCode = "QueueDropped"
	FailServerFull   FailCode = "ServerFull"
)

func (c FailCode) String() string {
	return string(c)
}

func (c FailCode) Error() string {
	return "ticket failed: " + string(c)
}
