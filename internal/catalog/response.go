package catalog

// Look statuses. Queued, running, and partial are transient; complete and
// failed are terminal.
const (
	StatusQueued   = "queued"
	StatusRunning  = "running"
	StatusPartial  = "partial"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// LookResponse is the engine's output contract: the resolved products, one
// per filled slot, plus the slots that could not be filled.
type LookResponse struct {
	LookID       string    `json:"look_id"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	Slots        []Product `json:"slots"`
	TotalPrice   *float64  `json:"total_price"`
	Currency     string    `json:"currency"`
	MissingSlots []string  `json:"missing_slots"`
	Note         string    `json:"note,omitempty"`
}

// TerminalStatus reports whether a status is final.
func TerminalStatus(status string) bool {
	return status == StatusComplete || status == StatusFailed
}
