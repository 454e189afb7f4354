package models

// TurnRequest is the payload coming from the frontend into POST /receptionist.
type TurnRequest struct {
	SessionID   string `json:"sessionId" binding:"required"`   // opaque conversation identifier
	UserMessage string `json:"userMessage" binding:"required"` // caller's message (voice→text or typed)
}

// TurnResponse is what the JSON adapter returns to the frontend.
type TurnResponse struct {
	SessionID  string         `json:"sessionId"`
	Response   string         `json:"response"` // natural-language reply to speak/show
	Booking    *BookingRecord `json:"booking"`
	Escalation Escalation     `json:"escalation"`
	Complete   bool           `json:"complete"`
}

// NewSessionResponse carries a freshly minted session id for web clients
// that do not manage their own.
type NewSessionResponse struct {
	SessionID string `json:"sessionId"`
}
