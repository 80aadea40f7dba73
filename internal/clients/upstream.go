package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// UpstreamRecorder receives one observation per outbound request.
type UpstreamRecorder interface {
	RecordUpstream(service string, d time.Duration, err error)
}

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
}

// IsStatus reports whether err carries an upstream StatusError with code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// send executes agent bounded by both timeout and ctx's deadline and
// returns the body of a 2xx response. The agent is released.
func send(ctx context.Context, service string, agent *fiber.Agent, timeout time.Duration, rec UpstreamRecorder) ([]byte, error) {
	start := time.Now()
	body, err := doSend(ctx, service, agent, timeout)
	if rec != nil {
		rec.RecordUpstream(service, time.Since(start), err)
	}
	return body, err
}

func doSend(ctx context.Context, service string, agent *fiber.Agent, timeout time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, errors.Wrapf(err, "%s request not sent", service)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	code, body, errs := agent.Timeout(timeout).Bytes()
	if len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "%s request failed", service)
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, &StatusError{Service: service, StatusCode: code, Body: truncate(string(body), 512)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
