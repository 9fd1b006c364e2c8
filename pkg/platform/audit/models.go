package audit

import (
	"context"
	"time"

	id "hemotrace/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// These require tamper-proof storage and long retention.
	// Examples: donation registration, blood usage, query grants.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring.
	// Examples: role membership changes, rejected privileged calls.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. Examples: routine status updates, points accrual.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key registry actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	Action    string

	// DonorKey identifies the subject donor without exposing the raw
	// identity in downstream systems.
	DonorKey id.DonorKey
	// Actor is the caller that performed the action.
	Actor id.Identity

	BloodUnitID uint64
	FromStatus  string
	ToStatus    string
	Points      int64
	Reason      string
	RequestID   string
}

// AuditEvent names every notification the registry emits.
type AuditEvent string

const (
	EventDonorRegistered    AuditEvent = "donor_registered"
	EventDonationRegistered AuditEvent = "donation_registered"
	EventPointsMinted       AuditEvent = "points_minted"
	EventStatusUpdated      AuditEvent = "status_updated"
	EventBloodTransferred   AuditEvent = "blood_transferred"
	EventBloodUsed          AuditEvent = "blood_used"

	EventInstitutionRoleUpdated AuditEvent = "institution_role_updated"
	EventHospitalRoleUpdated    AuditEvent = "hospital_role_updated"
	EventQueryAuthorized        AuditEvent = "query_authorized"
	EventQueryRevoked           AuditEvent = "query_revoked"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventDonorRegistered:    CategoryCompliance,
	EventDonationRegistered: CategoryCompliance,
	EventBloodUsed:          CategoryCompliance,
	EventQueryAuthorized:    CategoryCompliance,
	EventQueryRevoked:       CategoryCompliance,

	EventInstitutionRoleUpdated: CategorySecurity,
	EventHospitalRoleUpdated:    CategorySecurity,

	EventPointsMinted:     CategoryOperations,
	EventStatusUpdated:    CategoryOperations,
	EventBloodTransferred: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations must be append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
}
