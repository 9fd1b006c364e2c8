package handler

import (
	"strings"

	"hemotrace/internal/registry/models"
	"hemotrace/internal/registry/points"
	id "hemotrace/pkg/domain"
	dErrors "hemotrace/pkg/domain-errors"
)

// RegisterDonationRequest is the body for POST /registry/donations.
type RegisterDonationRequest struct {
	Donor        string `json:"donor"`
	BloodType    string `json:"blood_type"`
	DonationType string `json:"donation_type"`
	Amount       uint32 `json:"amount"`

	parsedDonor id.Identity
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RegisterDonationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Donor = strings.TrimSpace(r.Donor)
	donor, err := id.ParseIdentity(r.Donor)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "donor is required")
	}
	r.parsedDonor = donor

	r.DonationType = strings.TrimSpace(r.DonationType)
	if !points.IsKnownType(r.DonationType) {
		return dErrors.New(dErrors.CodeValidation, "donation_type is not recognized")
	}
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}

	r.BloodType = strings.TrimSpace(r.BloodType)
	return nil
}

// ParsedDonor returns the validated donor identity.
func (r *RegisterDonationRequest) ParsedDonor() id.Identity {
	return r.parsedDonor
}

// UpdateStatusRequest is the body for POST /registry/blood-units/{id}/status.
type UpdateStatusRequest struct {
	Status uint8 `json:"status"`
}

// Validate checks the target status is a known lifecycle state.
func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if !models.Status(r.Status).IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status is not a known lifecycle state")
	}
	return nil
}

// RecordUsageRequest is the body for POST /registry/blood-units/{id}/usage.
type RecordUsageRequest struct {
	PatientHash string `json:"patient_hash"`
	Purpose     string `json:"purpose"`
}

// Validate normalizes the usage fields.
func (r *RecordUsageRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.PatientHash = strings.TrimSpace(r.PatientHash)
	if r.PatientHash == "" {
		return dErrors.New(dErrors.CodeValidation, "patient_hash is required")
	}
	r.Purpose = strings.TrimSpace(r.Purpose)
	return nil
}

// GrantRequest is the body for POST /registry/grants.
type GrantRequest struct {
	Grantee string `json:"grantee"`

	parsedGrantee id.Identity
}

// Validate validates and parses the grantee identity.
func (r *GrantRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Grantee = strings.TrimSpace(r.Grantee)
	grantee, err := id.ParseIdentity(r.Grantee)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "grantee is required")
	}
	r.parsedGrantee = grantee
	return nil
}

// ParsedGrantee returns the validated grantee identity.
func (r *GrantRequest) ParsedGrantee() id.Identity {
	return r.parsedGrantee
}

// SetRoleRequest is the body for PUT /admin/institutions/{address} and
// PUT /admin/hospitals/{address}.
type SetRoleRequest struct {
	Authorized bool `json:"authorized"`
}
