package channel

type Channel string

const (
	// TrapEventsChannel carries recorded trap events from the trap role to
	// the admin replicas.
	TrapEventsChannel Channel = "honeygate:events"
)
