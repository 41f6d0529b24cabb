package lastfm

import (
	"errors"
	"fmt"
	"strings"
)

// StatusTransportFailure marks responses that never reached the service:
// connection failures, DNS errors, timeouts.
const StatusTransportFailure = -1

// Response is the outcome of one web-service invocation. A response is
// exactly one of: denied (the history gate refused it), successful (OK with
// the raw body), or failed (status code and message, with Recoverable
// telling retry-worthy conditions apart from permanent ones).
type Response struct {
	OK          bool
	Denied      bool
	Recoverable bool
	StatusCode  int
	Message     string
	Body        []byte
}

// ErrDenied reports that the history gate refused an invocation.
var ErrDenied = errors.New("invocation denied by history")

// CallError carries a failed Response across error-returning call sites.
type CallError struct {
	Resp Response
}

func (e *CallError) Error() string {
	if e.Resp.StatusCode == StatusTransportFailure {
		return fmt.Sprintf("web service unreachable: %s", e.Resp.Message)
	}
	return fmt.Sprintf("web service error %d: %s", e.Resp.StatusCode, e.Resp.Message)
}

// Service error codes that describe temporary conditions. Everything else
// the service reports (invalid parameters, bad API key, suspended key,
// deprecated method) will not improve on retry.
var recoverableServiceCodes = map[int]bool{
	8:  true, // operation failed, try again
	11: true, // service offline
	16: true, // temporarily unavailable
	29: true, // rate limit exceeded
}

var recoverableHTTPStatuses = map[int]bool{
	408: true,
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// snippet compresses a payload into a single short line for messages.
func snippet(s string) string {
	clean := strings.Join(strings.Fields(s), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
