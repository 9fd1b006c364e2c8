// Package service is the registry ledger: it owns every mutation of donors,
// blood units and transfer logs, and gates each operation through the access
// layer. Operations validate completely before the first write so a rejected
// call leaves no partial mutation behind.
package service

import (
	"context"
	"log/slog"

	"hemotrace/internal/registry/cache"
	registrymetrics "hemotrace/internal/registry/metrics"
	"hemotrace/internal/registry/models"
	id "hemotrace/pkg/domain"
	dErrors "hemotrace/pkg/domain-errors"
	audit "hemotrace/pkg/platform/audit"
)

// DonorStore persists donor aggregates keyed by donor key.
type DonorStore interface {
	Create(ctx context.Context, donor *models.Donor) error
	FindByKey(ctx context.Context, key id.DonorKey) (*models.Donor, error)
	Update(ctx context.Context, donor *models.Donor) error
}

// BloodStore persists blood units and owns the monotonic ID sequence.
type BloodStore interface {
	Create(ctx context.Context, unit *models.BloodUnit) error
	FindByID(ctx context.Context, unitID uint64) (*models.BloodUnit, error)
	Update(ctx context.Context, unit *models.BloodUnit) error
	ListByDonorKey(ctx context.Context, key id.DonorKey) ([]*models.BloodUnit, error)
	Count(ctx context.Context) (uint64, error)
}

// TransferStore is the append-only per-unit history log.
type TransferStore interface {
	Append(ctx context.Context, record models.TransferRecord) error
	ListByBloodUnit(ctx context.Context, unitID uint64) ([]models.TransferRecord, error)
}

// AccessControl answers the capability questions the ledger asks before every
// operation.
type AccessControl interface {
	IsInstitution(ctx context.Context, identity id.Identity) (bool, error)
	IsHospital(ctx context.Context, identity id.Identity) (bool, error)
	CanReadDonor(ctx context.Context, caller, donor id.Identity) (bool, error)
}

// AuditPublisher receives the ledger's notifications.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// BasicInfoCache is the optional read cache for the public unit view.
type BasicInfoCache interface {
	Find(ctx context.Context, unitID uint64) (*cache.BasicInfo, error)
	Save(ctx context.Context, unitID uint64, info cache.BasicInfo) error
	Invalidate(ctx context.Context, unitID uint64) error
}

// Service orchestrates the donation/blood-unit lifecycle.
type Service struct {
	donors    DonorStore
	blood     BloodStore
	transfers TransferStore
	access    AccessControl

	tx             StoreTx
	logger         *slog.Logger
	auditPublisher AuditPublisher
	auditEmitter   *auditEmitter
	metrics        *registrymetrics.Metrics
	cache          BasicInfoCache
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithBasicInfoCache(c BasicInfoCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithStoreTx installs the transactional boundary for multi-store writes.
// Required on SQL-backed stores; the default passthrough suits memory stores.
func WithStoreTx(t StoreTx) Option {
	return func(s *Service) { s.tx = t }
}

// New constructs the ledger service.
func New(donors DonorStore, blood BloodStore, transfers TransferStore, access AccessControl, opts ...Option) *Service {
	s := &Service{donors: donors, blood: blood, transfers: transfers, access: access, tx: passthroughTx{}}
	for _, opt := range opts {
		opt(s)
	}
	// Built last so it sees the configured logger regardless of option order.
	s.auditEmitter = newAuditEmitter(s.logger, s.auditPublisher)
	return s
}

// requireInstitution gates registration and privileged lifecycle moves.
func (s *Service) requireInstitution(ctx context.Context, caller id.Identity) error {
	ok, err := s.access.IsInstitution(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not an authorized institution")
	}
	return nil
}

// requireHospital gates distribution and usage recording.
func (s *Service) requireHospital(ctx context.Context, caller id.Identity) error {
	ok, err := s.access.IsHospital(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not an authorized hospital")
	}
	return nil
}

func (s *Service) incrementDonations() {
	if s.metrics != nil {
		s.metrics.IncrementDonationsRegistered()
	}
}

func (s *Service) observeTransition(from, to models.Status) {
	if s.metrics != nil {
		s.metrics.ObserveStatusTransition(from.Name(), to.Name())
	}
}

func (s *Service) addPointsMinted(points int64) {
	if s.metrics != nil {
		s.metrics.AddPointsMinted(points)
	}
}

func (s *Service) incrementUnitsUsed() {
	if s.metrics != nil {
		s.metrics.IncrementBloodUnitsUsed()
	}
}

func (s *Service) invalidateBasicInfo(ctx context.Context, unitID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, unitID); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to invalidate basic info cache",
			"blood_unit_id", unitID,
			"error", err,
		)
	}
}
