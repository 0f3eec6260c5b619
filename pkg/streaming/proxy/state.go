package proxy

// State is the attachment state of a ProxyStream.
type State int

const (
	// Unattached means no source is attached.
	Unattached State = iota

	// AttachedIdle means a source is attached but not running because nothing
	// is subscribed.
	AttachedIdle

	// AttachedRunning means the attached source is running into the proxy.
	AttachedRunning
)

func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case AttachedIdle:
		return "attached-idle"
	case AttachedRunning:
		return "attached-running"
	default:
		return "unknown"
	}
}
