package cancellation

// Result is what the cancellation endpoints return. Policy rejections
// are not errors; they travel here with Success false.
type Result struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	RefundAmount int    `json:"refund_amount"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}
