package types

import "fmt"

// CustomError carries an http status code alongside the message so middleware
// failures (auth, config) surface with the right status instead of a blanket 500.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
