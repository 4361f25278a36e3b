// Package result defines the uniform response body returned by every
// operation. Callers branch on Success first; Errors marks a payload that
// failed validation (details in Fields) and Error marks any other failure.
package result

type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Error   bool              `json:"error"`
	Errors  bool              `json:"errors"`
	Fields  map[string]string `json:"fields,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
}

func OK(message string, data interface{}) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func Invalid(message string, fields map[string]string) Envelope {
	return Envelope{Message: message, Errors: true, Fields: fields}
}

func Failure(message string) Envelope {
	return Envelope{Message: message, Error: true}
}
