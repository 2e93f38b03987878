package middleware

import (
	"sync"
	"time"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

// fakeRecorder captures what the middleware reports.
type fakeRecorder struct {
	mu          sync.Mutex
	requests    []recordedRequest
	rateLimited []string
}

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

func (f *fakeRecorder) RecordAuthOutcome(string, string) {}

func (f *fakeRecorder) RecordRateLimited(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rateLimited = append(f.rateLimited, route)
}
