package security

import (
	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "requestId"
)

// RequestID keeps a caller-supplied X-Request-Id or assigns a new one, and
// echoes it on the response.
func RequestID(e *core.RequestEvent) error {
	id := e.Request.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	e.Set(requestIDKey, id)
	e.Response.Header().Set(RequestIDHeader, id)
	return e.Next()
}

func GetRequestID(e *core.RequestEvent) string {
	id, _ := e.Get(requestIDKey).(string)
	return id
}
