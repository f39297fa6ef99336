package facts

import (
	"fmt"
	"time"
)

// Result tags a LogEntry as a successful or failed fetch.
type Result string

const (
	ResultSuccess Result = "SUCCESS"
	ResultFailure Result = "FAILURE"
)

// FetchOutcome is either Success or Failure.
type FetchOutcome interface {
	isFetchOutcome()
}

// Success carries the leading integer of the fact and the full fact text.
type Success struct {
	Number int    `json:"number"`
	Fact   string `json:"fact"`
}

// Failure carries the non-200 status code returned by the endpoint.
type Failure struct {
	ErrorCode int `json:"error_code"`
}

func (Success) isFetchOutcome() {}
func (Failure) isFetchOutcome() {}

// LogEntry records one fetch attempt. Entries are never modified after append.
type LogEntry struct {
	RequestNumber int       `json:"request_number"`
	CallTime      time.Time `json:"call_time"`
	EndPoint      string    `json:"end_point"`
	Result        Result    `json:"result"`
	Number        *int      `json:"number,omitempty"`
	ErrorCode     *int      `json:"error_code,omitempty"`
}

// RetainedFact is an even-numbered fact kept in the tummy.
type RetainedFact struct {
	Number int    `json:"number"`
	Fact   string `json:"fact"`
}

// Verdict is the outcome of one crunch cycle.
type Verdict string

const (
	VerdictStored   Verdict = "STORED"
	VerdictEvicted  Verdict = "EVICTED"
	VerdictRejected Verdict = "REJECTED"
)

// Status is returned by Crunch. For VerdictEvicted, Number is the evicted
// fact's number; otherwise it is the number just fetched.
type Status struct {
	Verdict Verdict `json:"verdict"`
	Number  int     `json:"number"`
}

func (s Status) String() string {
	return fmt.Sprintf("%s %d", s.Verdict, s.Number)
}

// Exclaim renders the status the way the cruncher says it out loud.
func (s Status) Exclaim() string {
	switch s.Verdict {
	case VerdictStored:
		return fmt.Sprintf("Yum! %d", s.Number)
	case VerdictEvicted:
		return fmt.Sprintf("Burp! %d", s.Number)
	case VerdictRejected:
		return fmt.Sprintf("Yuk! %d", s.Number)
	}
	return s.String()
}
