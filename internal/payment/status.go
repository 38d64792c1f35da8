package payment

// Status is the payment status model of the host system. The gateway only
// computes transitions into these states; it never invents new ones.
type Status string

const (
	StatusOpen      Status = "open"
	StatusSuccess   Status = "success"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)
