package domain

// ResponseStatus is the top-level verdict of a response envelope.
type ResponseStatus string

const (
	StatusSuccess ResponseStatus = "success"
	StatusError   ResponseStatus = "error"
)

// ResponseEnvelope is the uniform JSON body every endpoint returns.
// Success responses carry Data, error responses carry Error; the two are
// mutually exclusive.
type ResponseEnvelope struct {
	Status  ResponseStatus `json:"status"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}
