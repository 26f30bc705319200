package appsync

import (
	"encoding/json"
)

// Invocation is the payload a direct Lambda resolver receives. The request
// mapping forwards the GraphQL field name, its arguments and the caller's
// identity.
type Invocation struct {
	Field     string          `json:"field"`
	Arguments json.RawMessage `json:"arguments"`
	Identity  *Identity       `json:"identity,omitempty"`
}

// Identity carries the authenticated caller forwarded by AppSync. Either
// Sub (Cognito) or Username may be populated depending on the auth mode.
type Identity struct {
	Sub      string                 `json:"sub,omitempty"`
	Username string                 `json:"username,omitempty"`
	Groups   []string               `json:"groups,omitempty"`
	Claims   map[string]interface{} `json:"claims,omitempty"`
}

// UserID returns the caller's id, preferring the Cognito subject.
func (i *Identity) UserID() string {
	if i == nil {
		return ""
	}
	if i.Sub != "" {
		return i.Sub
	}
	return i.Username
}

// GraphQLError is the shape surfaced on a failed field.
type GraphQLError struct {
	Message   string `json:"message"`
	ErrorType string `json:"errorType"`
}

// Response is the resolver's envelope. Exactly one of Data and Error is
// populated; the response mapping raises Error as a field error.
type Response struct {
	Data  interface{}   `json:"data,omitempty"`
	Error *GraphQLError `json:"error,omitempty"`
}
