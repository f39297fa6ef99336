package handlers

import (
	"context"

	"number-cruncher/internal/database"
	"number-cruncher/internal/facts"
	"number-cruncher/internal/realtime"
)

// CrunchService is what the handlers need from the cruncher.
// *facts.SyncCruncher satisfies it.
type CrunchService interface {
	Crunch(ctx context.Context) (facts.Status, error)
	Tummy() []facts.RetainedFact
	Log() []facts.LogEntry
	Capacity() int
}

// Handler groups the HTTP handlers and their dependencies.
type Handler struct {
	Cruncher     CrunchService
	Audit        *database.AuditStore // nil disables GET /api/audit
	Hub          *realtime.Hub
	OperatorHash string
}
