package handler

import (
	"time"

	"hemotrace/internal/registry/cache"
	"hemotrace/internal/registry/models"
	"hemotrace/internal/registry/service"
)

// RegisterDonationResponse is returned by POST /registry/donations.
type RegisterDonationResponse struct {
	BloodUnitID uint64 `json:"blood_unit_id"`
}

// DonorResponse is the donor aggregate view.
type DonorResponse struct {
	Identity          string    `json:"identity"`
	BloodType         string    `json:"blood_type"`
	FirstDonationDate time.Time `json:"first_donation_date"`
	LastDonationDate  time.Time `json:"last_donation_date"`
	TotalPoints       int64     `json:"total_points"`
	DonationCount     int       `json:"donation_count"`
}

// FromDonor builds the response view of a donor.
func FromDonor(d *models.Donor) DonorResponse {
	return DonorResponse{
		Identity:          d.Identity.String(),
		BloodType:         d.BloodType,
		FirstDonationDate: d.FirstDonationDate,
		LastDonationDate:  d.LastDonationDate,
		TotalPoints:       d.TotalPoints,
		DonationCount:     d.DonationCount,
	}
}

// BloodUnitResponse is the full blood unit view.
type BloodUnitResponse struct {
	ID           uint64     `json:"id"`
	Donor        string     `json:"donor"`
	DonationTime time.Time  `json:"donation_time"`
	ExpiryTime   time.Time  `json:"expiry_time"`
	Amount       uint32     `json:"amount"`
	Status       uint8      `json:"status"`
	StatusName   string     `json:"status_name"`
	Custodian    string     `json:"custodian,omitempty"`
	Hospital     string     `json:"hospital,omitempty"`
	UsedTime     *time.Time `json:"used_time,omitempty"`
	DonationType string     `json:"donation_type"`
	Purpose      string     `json:"purpose,omitempty"`
	PatientHash  string     `json:"patient_hash,omitempty"`
}

// FromBloodUnit builds the response view of a blood unit.
func FromBloodUnit(u *models.BloodUnit) BloodUnitResponse {
	resp := BloodUnitResponse{
		ID:           u.ID,
		Donor:        u.Donor.String(),
		DonationTime: u.DonationTime,
		ExpiryTime:   u.ExpiryTime,
		Amount:       u.Amount,
		Status:       uint8(u.Status),
		StatusName:   u.Status.Name(),
		Custodian:    u.Custodian.String(),
		Hospital:     u.Hospital.String(),
		DonationType: u.DonationType,
		Purpose:      u.Purpose,
		PatientHash:  u.PatientHash,
	}
	if !u.UsedTime.IsZero() {
		used := u.UsedTime
		resp.UsedTime = &used
	}
	return resp
}

// TransferResponse is one entry of a unit's history log.
type TransferResponse struct {
	BloodUnitID    uint64    `json:"blood_unit_id"`
	Timestamp      time.Time `json:"timestamp"`
	FromStatus     uint8     `json:"from_status"`
	FromStatusName string    `json:"from_status_name"`
	ToStatus       uint8     `json:"to_status"`
	ToStatusName   string    `json:"to_status_name"`
	Actor          string    `json:"actor"`
}

// FromTransfers builds the response view of a unit's history.
func FromTransfers(records []models.TransferRecord) []TransferResponse {
	out := make([]TransferResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, TransferResponse{
			BloodUnitID:    rec.BloodUnitID,
			Timestamp:      rec.Timestamp,
			FromStatus:     uint8(rec.FromStatus),
			FromStatusName: rec.FromStatus.Name(),
			ToStatus:       uint8(rec.ToStatus),
			ToStatusName:   rec.ToStatus.Name(),
			Actor:          rec.Actor.String(),
		})
	}
	return out
}

// UsageResponse is the clinical-use view.
type UsageResponse struct {
	BloodUnitID uint64    `json:"blood_unit_id"`
	Hospital    string    `json:"hospital"`
	UsedTime    time.Time `json:"used_time"`
	PatientHash string    `json:"patient_hash"`
	Purpose     string    `json:"purpose"`
}

// FromUsageInfo builds the response view of a usage record.
func FromUsageInfo(info *service.UsageInfo) UsageResponse {
	return UsageResponse{
		BloodUnitID: info.BloodUnitID,
		Hospital:    info.Hospital.String(),
		UsedTime:    info.UsedTime,
		PatientHash: info.PatientHash,
		Purpose:     info.Purpose,
	}
}

// BasicInfoResponse is the public projection of a unit.
type BasicInfoResponse struct {
	Status       uint8     `json:"status"`
	StatusName   string    `json:"status_name"`
	ExpiryTime   time.Time `json:"expiry_time"`
	Location     string    `json:"location,omitempty"`
	DonationType string    `json:"donation_type"`
}

// FromBasicInfo builds the response view of the public projection.
func FromBasicInfo(info *cache.BasicInfo) BasicInfoResponse {
	return BasicInfoResponse{
		Status:       info.Status,
		StatusName:   info.StatusName,
		ExpiryTime:   info.ExpiryTime,
		Location:     info.Location,
		DonationType: info.DonationType,
	}
}

// PointsResponse is returned by GET /registry/donors/{donor}/points.
type PointsResponse struct {
	TotalPoints int64 `json:"total_points"`
}

// CreditLevelResponse is returned by GET /registry/donors/{donor}/credit-level.
type CreditLevelResponse struct {
	CreditLevel int `json:"credit_level"`
}

// BloodIDsResponse is returned by GET /registry/donors/{donor}/blood-units.
type BloodIDsResponse struct {
	BloodUnitIDs []uint64 `json:"blood_unit_ids"`
}

// CountResponse is returned by GET /registry/blood-units/count.
type CountResponse struct {
	Count uint64 `json:"count"`
}

// StatusNameResponse is returned by GET /registry/status-names/{status}.
type StatusNameResponse struct {
	Status uint8  `json:"status"`
	Name   string `json:"name"`
}

// AuthorizedResponse is returned by GET /registry/blood-units/{id}/authorized.
type AuthorizedResponse struct {
	Authorized bool `json:"authorized"`
}
