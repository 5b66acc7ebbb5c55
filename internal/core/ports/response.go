package ports

// Status is the outcome marker of a Response.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// Response is the uniform envelope returned by every credential operation.
type Response[T any] struct {
	Message string `json:"message"`
	Status  Status `json:"status"`
	Data    T      `json:"data"`
}

// Empty is the payload of operations that return no data.
type Empty struct{}

// Success wraps data in a SUCCESS envelope.
func Success[T any](message string, data T) *Response[T] {
	return &Response[T]{Message: message, Status: StatusSuccess, Data: data}
}

// Failure builds the ERROR envelope rendered for failed requests.
func Failure(message string) *Response[any] {
	return &Response[any]{Message: message, Status: StatusError}
}
