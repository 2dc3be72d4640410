package schema

import (
	"errors"
	"fmt"
)

var (
	ErrNotExist = errors.New("not_exist_record")
	ErrNotFound = errors.New("not_found")

	ErrExistHolder = errors.New("holder_exist")
	ErrNullOwnerId = errors.New("null_owner_id")

	ErrNetworkUnavailable  = errors.New("network_unavailable")
	ErrConfirmationTimeout = errors.New("confirmation_timeout")

	ErrExistTask   = errors.New("task_exist")
	ErrTaskClosed  = errors.New("task_closed")
	ErrNullTaskId  = errors.New("null_task_id")
	ErrFullyLoaded = errors.New("fully_loaded")
)

// InvalidIntentError reports an intent that failed validation. Nothing was
// sent to the network when this is returned.
type InvalidIntentError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *InvalidIntentError) Error() string {
	return fmt.Sprintf("invalid_intent: %s %s", e.Field, e.Reason)
}

// RejectedByNetworkError reports a broadcast-time rejection; the transaction
// had no on-chain effect. Reason is a user-facing string.
type RejectedByNetworkError struct {
	Reason string `json:"reason"`
}

func (e *RejectedByNetworkError) Error() string {
	return "rejected_by_network: " + e.Reason
}
