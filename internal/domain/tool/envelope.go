package tool

// Envelope is the uniform wrapper returned for every tool invocation.
// Exactly one of Data (on success) or Error (on failure) is populated.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessEnvelope wraps handler data in a success envelope.
func SuccessEnvelope(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// FailureEnvelope wraps an error message in a failure envelope.
func FailureEnvelope(message string) Envelope {
	return Envelope{Success: false, Error: message}
}
