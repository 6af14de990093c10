package delivery

import (
	"errors"
	"fmt"
)

// ErrDeliveryFailed is returned, wrapped, for a batch that could not be delivered after every
// attempt. The batch stays in the queue and is sent again by a later run.
var ErrDeliveryFailed = errors.New("events could not be delivered")

type httpStatusError struct {
	Message string
	Code    int
}

func (e httpStatusError) Error() string {
	return e.Message
}

func checkForHTTPError(statusCode int, url string) error {
	if statusCode/100 != 2 {
		return httpStatusError{
			Message: fmt.Sprintf("unexpected response code: %d when accessing URL: %s", statusCode, url),
			Code:    statusCode,
		}
	}
	return nil
}
