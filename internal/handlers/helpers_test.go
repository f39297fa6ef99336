package handlers

import (
	"context"
	"errors"

	"number-cruncher/internal/facts"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubService replays a fixed status or error.
type stubService struct {
	status facts.Status
	err    error
	tummy  []facts.RetainedFact
	log    []facts.LogEntry
	calls  int
}

func (s *stubService) Crunch(context.Context) (facts.Status, error) {
	s.calls++
	return s.status, s.err
}

func (s *stubService) Tummy() []facts.RetainedFact { return s.tummy }
func (s *stubService) Log() []facts.LogEntry       { return s.log }
func (s *stubService) Capacity() int               { return 2 }

var errBoom = errors.New("boom")
