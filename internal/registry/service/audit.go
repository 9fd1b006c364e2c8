package service

import (
	"context"
	"log/slog"

	"hemotrace/internal/registry/models"
	id "hemotrace/pkg/domain"
	audit "hemotrace/pkg/platform/audit"
	"hemotrace/pkg/requestcontext"
)

// auditEmitter flattens typed ledger events into audit records. Emission
// failures are logged, never propagated: notifications are observability
// output and must not undo a committed mutation.
type auditEmitter struct {
	logger    *slog.Logger
	publisher AuditPublisher
}

func newAuditEmitter(logger *slog.Logger, publisher AuditPublisher) *auditEmitter {
	return &auditEmitter{logger: logger, publisher: publisher}
}

func (e *auditEmitter) emitDonorRegistered(ctx context.Context, ev models.DonorRegistered) {
	e.emit(ctx, audit.Event{
		Action:   string(audit.EventDonorRegistered),
		DonorKey: id.KeyOf(ev.Donor),
		Reason:   "blood_type:" + ev.BloodType,
	})
}

func (e *auditEmitter) emitDonationRegistered(ctx context.Context, ev models.DonationRegistered) {
	e.emit(ctx, audit.Event{
		Action:      string(audit.EventDonationRegistered),
		DonorKey:    id.KeyOf(ev.Donor),
		Actor:       ev.Institution,
		BloodUnitID: ev.BloodUnitID,
	})
}

func (e *auditEmitter) emitPointsMinted(ctx context.Context, ev models.PointsMinted) {
	e.emit(ctx, audit.Event{
		Action:   string(audit.EventPointsMinted),
		DonorKey: id.KeyOf(ev.Donor),
		Points:   ev.Points,
		Reason:   ev.Reason,
	})
}

func (e *auditEmitter) emitStatusUpdated(ctx context.Context, ev models.StatusUpdated) {
	e.emit(ctx, audit.Event{
		Action:      string(audit.EventStatusUpdated),
		DonorKey:    id.KeyOf(ev.Donor),
		Actor:       ev.Actor,
		BloodUnitID: ev.BloodUnitID,
		FromStatus:  ev.From.Name(),
		ToStatus:    ev.To.Name(),
	})
}

func (e *auditEmitter) emitBloodTransferred(ctx context.Context, ev models.BloodTransferred) {
	e.emit(ctx, audit.Event{
		Action:      string(audit.EventBloodTransferred),
		DonorKey:    id.KeyOf(ev.Donor),
		Actor:       ev.To,
		BloodUnitID: ev.BloodUnitID,
		Reason:      "from:" + ev.From.String(),
	})
}

func (e *auditEmitter) emitBloodUsed(ctx context.Context, ev models.BloodUsed) {
	e.emit(ctx, audit.Event{
		Action:      string(audit.EventBloodUsed),
		DonorKey:    id.KeyOf(ev.Donor),
		Actor:       ev.Hospital,
		BloodUnitID: ev.BloodUnitID,
	})
}

func (e *auditEmitter) emit(ctx context.Context, event audit.Event) {
	if e.publisher == nil {
		return
	}
	event.Category = audit.AuditEvent(event.Action).Category()
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := e.publisher.Emit(ctx, event); err != nil && e.logger != nil {
		e.logger.ErrorContext(ctx, "failed to emit registry event",
			"action", event.Action,
			"error", err,
		)
	}
}
