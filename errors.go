package prism

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an analysis cycle failed.
type ErrorKind int

const (
	// Unreachable means the request never produced an HTTP response.
	Unreachable ErrorKind = iota + 1
	// ServerRejected means the service answered with a non-2xx status.
	ServerRejected
	// MalformedResponse means the response body was not JSON.
	MalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case ServerRejected:
		return "server_rejected"
	case MalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// AnalysisError is the failure outcome of Client.Submit.
type AnalysisError struct {
	Kind       ErrorKind
	Status     int    // set for ServerRejected
	StatusText string // set for ServerRejected
	Err        error
}

func (e *AnalysisError) Error() string {
	switch e.Kind {
	case ServerRejected:
		return fmt.Sprintf("prism: analyzer rejected request: %d %s", e.Status, e.StatusText)
	case MalformedResponse:
		return fmt.Sprintf("prism: malformed analyzer response: %v", e.Err)
	case Unreachable:
		return fmt.Sprintf("prism: analyzer unreachable: %v", e.Err)
	}
	return fmt.Sprintf("prism: analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or 0 if err is not an AnalysisError.
func KindOf(err error) ErrorKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// UserMessage returns the single line shown to the user for a failed cycle.
func UserMessage(err error, labels Labels) string {
	if err == nil {
		return ""
	}
	var ae *AnalysisError
	if !errors.As(err, &ae) {
		return labels.AnalysisFailed
	}
	switch ae.Kind {
	case Unreachable:
		return fmt.Sprintf("%s: %s", labels.AnalysisFailed, labels.Unreachable)
	case ServerRejected:
		text := ae.StatusText
		if text == "" {
			text = fmt.Sprintf("HTTP %d", ae.Status)
		}
		return fmt.Sprintf("%s: %s (%s)", labels.AnalysisFailed, labels.ServerRejected, text)
	case MalformedResponse:
		return fmt.Sprintf("%s: %s", labels.AnalysisFailed, labels.MalformedResponse)
	}
	return labels.AnalysisFailed
}
