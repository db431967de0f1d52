package deepseek

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
)

// ErrorKind classifies remote failures for the engine's recovery policy.
// All kinds roll the submission back and let the player resubmit; the kind
// only shapes the message shown.
type ErrorKind string

const (
	// KindNetwork covers timeouts, connection failures and server errors
	KindNetwork ErrorKind = "network"
	// KindQuotaOrAuth covers rate limits, exhausted balance and bad keys
	KindQuotaOrAuth ErrorKind = "quota_or_auth"
	// KindMalformed covers replies the client could not interpret
	KindMalformed ErrorKind = "malformed"
)

// RemoteError is a classified failure of the text-generation call
type RemoteError struct {
	Kind ErrorKind
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("deepseek %s: %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// classify maps an API error onto the engine's taxonomy by status code;
// anything without a status is a transport problem.
func classify(err error) *RemoteError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden,
			http.StatusPaymentRequired, http.StatusTooManyRequests:
			return &RemoteError{Kind: KindQuotaOrAuth, Err: err}
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return &RemoteError{Kind: KindMalformed, Err: err}
		}
	}
	return &RemoteError{Kind: KindNetwork, Err: err}
}
