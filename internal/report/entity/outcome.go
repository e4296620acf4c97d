package entity

import "fmt"

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeRejected
	OutcomeTransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeRejected:
		return "REJECTED"
	case OutcomeTransportFailure:
		return "TRANSPORT_FAILURE"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of a single report submission.
// StatusCode is set for Success and Rejected, Err only for TransportFailure.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Err        error
}

func Success(statusCode int) Outcome {
	return Outcome{Kind: OutcomeSuccess, StatusCode: statusCode}
}

func Rejected(statusCode int) Outcome {
	return Outcome{Kind: OutcomeRejected, StatusCode: statusCode}
}

func TransportFailure(err error) Outcome {
	return Outcome{Kind: OutcomeTransportFailure, Err: err}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeTransportFailure:
		return fmt.Sprintf("%s: %v", o.Kind, o.Err)
	default:
		return fmt.Sprintf("%s (status %d)", o.Kind, o.StatusCode)
	}
}
