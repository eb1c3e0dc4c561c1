// README: Error taxonomy for the Amadeus client.
package amadeus

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth means the OAuth token request was rejected.
	ErrAuth = errors.New("amadeus: authentication failed")
	// ErrNoFlights is the distinguished "no matching flights" condition
	// (upstream error code 6003), distinct from generic failure.
	ErrNoFlights = errors.New("amadeus: no flights found for the specified criteria")
	// ErrTimeout means the upstream did not answer within the client timeout.
	ErrTimeout = errors.New("amadeus: request timed out")
	// ErrUpstream covers transport failures and unexpected upstream statuses.
	ErrUpstream = errors.New("amadeus: upstream request failed")
)

// ValidationError reports a query field that violates the search contract.
// Field names match the conversation slot names so callers can tell the user
// exactly which value to correct.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("amadeus: invalid %s: %s", e.Field, e.Reason)
}
