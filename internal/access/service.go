// Package access is the registry's permission layer: the owner, the two role
// sets, and donor-issued query grants. Callers are opaque identity tokens;
// permissions resolve through explicit membership and relation lookups, never
// through actor types.
package access

import (
	"context"
	"log/slog"

	id "hemotrace/pkg/domain"
	dErrors "hemotrace/pkg/domain-errors"
	audit "hemotrace/pkg/platform/audit"
	"hemotrace/pkg/requestcontext"
)

// AuditPublisher receives role and grant change notifications.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service evaluates and mutates access state.
type Service struct {
	owner          id.Identity
	roles          RoleStore
	grants         GrantStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

// New constructs the access service. The owner identity comes from
// deployment configuration and never changes at runtime.
func New(owner id.Identity, roles RoleStore, grants GrantStore, opts ...Option) *Service {
	s := &Service{owner: owner, roles: roles, grants: grants}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsOwner reports whether the identity is the registry owner.
func (s *Service) IsOwner(identity id.Identity) bool {
	return !s.owner.IsNil() && identity == s.owner
}

// SetInstitution toggles institution membership. Owner-only.
func (s *Service) SetInstitution(ctx context.Context, caller, address id.Identity, authorized bool) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if address.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	if err := s.roles.SetInstitution(ctx, address, authorized); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update institution role")
	}
	s.emitRoleUpdated(ctx, audit.EventInstitutionRoleUpdated, caller, address, authorized)
	return nil
}

// SetHospital toggles hospital membership. Owner-only.
func (s *Service) SetHospital(ctx context.Context, caller, address id.Identity, authorized bool) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if address.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	if err := s.roles.SetHospital(ctx, address, authorized); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update hospital role")
	}
	s.emitRoleUpdated(ctx, audit.EventHospitalRoleUpdated, caller, address, authorized)
	return nil
}

// GrantQuery lets the caller open their own donor record to grantee.
func (s *Service) GrantQuery(ctx context.Context, caller, grantee id.Identity) error {
	if grantee.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "grantee cannot be empty")
	}
	if caller == grantee {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot grant query access to yourself")
	}
	if err := s.grants.Grant(ctx, caller, grantee); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record grant")
	}
	s.emitGrant(ctx, audit.EventQueryAuthorized, caller, grantee)
	return nil
}

// RevokeQuery removes a previously issued grant. Revocation takes effect on
// the next read; there is no grace period.
func (s *Service) RevokeQuery(ctx context.Context, caller, grantee id.Identity) error {
	if grantee.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "grantee cannot be empty")
	}
	if err := s.grants.Revoke(ctx, caller, grantee); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke grant")
	}
	s.emitGrant(ctx, audit.EventQueryRevoked, caller, grantee)
	return nil
}

// IsInstitution reports institution membership.
func (s *Service) IsInstitution(ctx context.Context, identity id.Identity) (bool, error) {
	ok, err := s.roles.IsInstitution(ctx, identity)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check institution role")
	}
	return ok, nil
}

// IsHospital reports hospital membership.
func (s *Service) IsHospital(ctx context.Context, identity id.Identity) (bool, error) {
	ok, err := s.roles.IsHospital(ctx, identity)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check hospital role")
	}
	return ok, nil
}

// CanReadDonor applies the donor-private read rule: the subject donor
// themselves, or a holder of an explicit grant from that donor.
func (s *Service) CanReadDonor(ctx context.Context, caller, donor id.Identity) (bool, error) {
	if caller.IsNil() {
		return false, nil
	}
	if caller == donor {
		return true, nil
	}
	ok, err := s.grants.HasGrant(ctx, donor, caller)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check grant")
	}
	return ok, nil
}

func (s *Service) requireOwner(caller id.Identity) error {
	if !s.IsOwner(caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "only the registry owner may manage roles")
	}
	return nil
}

func (s *Service) emitRoleUpdated(ctx context.Context, action audit.AuditEvent, actor, subject id.Identity, authorized bool) {
	reason := "revoked"
	if authorized {
		reason = "authorized"
	}
	s.emit(ctx, audit.Event{
		Action: string(action),
		Actor:  actor,
		Reason: reason + ":" + subject.String(),
	})
}

func (s *Service) emitGrant(ctx context.Context, action audit.AuditEvent, grantor, grantee id.Identity) {
	s.emit(ctx, audit.Event{
		Action:   string(action),
		Actor:    grantor,
		DonorKey: id.KeyOf(grantor),
		Reason:   "grantee:" + grantee.String(),
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.Category = audit.AuditEvent(event.Action).Category()
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit access event",
			"action", event.Action,
			"error", err,
		)
	}
}
