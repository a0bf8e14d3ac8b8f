package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ResultResponse is the envelope for policy-gated operations that
// report rejection as data rather than as an HTTP error.
type ResultResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	RefundAmount int    `json:"refund_amount,omitempty"`
}
