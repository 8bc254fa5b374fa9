// Package metrics counts account, post and request events.
package metrics

import "time"

// Recorder receives events from the services and HTTP middleware.
type Recorder interface {
	IncSignup()
	IncLogin(success bool)
	IncProfileUpdated()

	IncPostCreated()
	IncPostUpdated()
	IncPostDeleted()

	IncRateLimited()
	ObserveRequestDuration(duration time.Duration)
}

type noop struct{}

// NewNoop returns a Recorder that drops every event. Services fall back
// to it when constructed without a recorder.
func NewNoop() Recorder { return noop{} }

func (noop) IncSignup()                           {}
func (noop) IncLogin(bool)                        {}
func (noop) IncProfileUpdated()                   {}
func (noop) IncPostCreated()                      {}
func (noop) IncPostUpdated()                      {}
func (noop) IncPostDeleted()                      {}
func (noop) IncRateLimited()                      {}
func (noop) ObserveRequestDuration(time.Duration) {}
