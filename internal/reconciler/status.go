package reconciler

import (
	"strings"
	"sync"
	"time"
)

// ErrorKind is the coarse failure category shown to the admin. It is
// advisory only and never changes retry behavior.
type ErrorKind string

const (
	KindConnection     ErrorKind = "connection"
	KindRLSPolicy      ErrorKind = "rls_policy"
	KindAuthentication ErrorKind = "authentication"
	KindDataStructure  ErrorKind = "data_structure"
	KindUnknown        ErrorKind = "unknown"
)

// ClassifiedError is one entry of the admin-facing sync error log.
type ClassifiedError struct {
	Kind            ErrorKind `json:"kind"`
	UserMessage     string    `json:"userMessage"`
	Suggestions     []string  `json:"suggestions"`
	TechnicalDetail string    `json:"technicalDetail"`
	Timestamp       time.Time `json:"timestamp"`
}

// classifyRules are matched in order against the lowercased error text;
// the first rule with a matching substring wins.
var classifyRules = []struct {
	kind    ErrorKind
	needles []string
}{
	{KindConnection, []string{
		"offline", "connection", "network", "timeout", "deadline exceeded",
		"no such host", "refused", "unreachable", "broken pipe",
	}},
	{KindRLSPolicy, []string{
		"row-level security", "row level security", "permission denied",
		"policy", "sqlstate 42501",
	}},
	{KindAuthentication, []string{
		"jwt", "token", "unauthorized", "session expired", "invalid login",
		"authentication",
	}},
	{KindDataStructure, []string{
		"constraint", "column", "schema", "invalid input syntax",
		"null value", "duplicate key", "relation",
	}},
}

var kindMessages = map[ErrorKind]struct {
	message     string
	suggestions []string
}{
	KindConnection: {
		"Could not reach the remote store; changes are saved locally.",
		[]string{"Check the network connection", "Retry once connectivity is back"},
	},
	KindRLSPolicy: {
		"The remote store rejected the operation due to a security policy.",
		[]string{"Verify the row-level security policies on the catalog tables", "Check that the service role key is configured"},
	},
	KindAuthentication: {
		"The remote session is invalid or expired.",
		[]string{"Sign in again", "Verify the access token configuration"},
	},
	KindDataStructure: {
		"The remote schema rejected the data.",
		[]string{"Compare the table schema with the record fields", "Check for missing columns or constraint violations"},
	},
	KindUnknown: {
		"An unexpected error occurred during synchronization.",
		[]string{"Inspect the technical detail below", "Retry the operation"},
	},
}

// Classify maps a raw error onto the error taxonomy by substring matching.
func Classify(err error) ClassifiedError {
	return classifyAt(err, time.Now())
}

func classifyAt(err error, now time.Time) ClassifiedError {
	kind := KindUnknown
	detail := ""
	if err != nil {
		detail = err.Error()
		text := strings.ToLower(detail)
		for _, rule := range classifyRules {
			for _, needle := range rule.needles {
				if strings.Contains(text, needle) {
					kind = rule.kind
					break
				}
			}
			if kind != KindUnknown {
				break
			}
		}
	}
	m := kindMessages[kind]
	return ClassifiedError{
		Kind:            kind,
		UserMessage:     m.message,
		Suggestions:     m.suggestions,
		TechnicalDetail: detail,
		Timestamp:       now,
	}
}

// errorLogCapacity bounds the admin error log ring buffer.
const errorLogCapacity = 10

// StatusTracker keeps the last classified errors and the last success time.
// It is an explicitly constructed service object: tests inject their own
// clock and instances never share process-wide state.
type StatusTracker struct {
	mu          sync.Mutex
	clock       func() time.Time
	recent      []ClassifiedError // newest first
	lastError   *ClassifiedError
	lastSuccess time.Time
}

func NewStatusTracker(clock func() time.Time) *StatusTracker {
	if clock == nil {
		clock = time.Now
	}
	return &StatusTracker{clock: clock}
}

// RecordError classifies err, appends it to the bounded log and marks it as
// the current failure.
func (t *StatusTracker) RecordError(err error) ClassifiedError {
	t.mu.Lock()
	defer t.mu.Unlock()
	ce := classifyAt(err, t.clock())
	t.recent = append([]ClassifiedError{ce}, t.recent...)
	if len(t.recent) > errorLogCapacity {
		t.recent = t.recent[:errorLogCapacity]
	}
	t.lastError = &ce
	return ce
}

// RecordSuccess clears the current failure and stamps the success time.
func (t *StatusTracker) RecordSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastError = nil
	t.lastSuccess = t.clock()
}

// Recent returns the error log, newest first.
func (t *StatusTracker) Recent() []ClassifiedError {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ClassifiedError, len(t.recent))
	copy(out, t.recent)
	return out
}

func (t *StatusTracker) LastError() *ClassifiedError {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastError == nil {
		return nil
	}
	ce := *t.lastError
	return &ce
}

func (t *StatusTracker) LastSuccess() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSuccess
}
