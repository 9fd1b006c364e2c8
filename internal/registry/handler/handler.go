package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hemotrace/internal/registry/cache"
	"hemotrace/internal/registry/models"
	"hemotrace/internal/registry/service"
	id "hemotrace/pkg/domain"
	dErrors "hemotrace/pkg/domain-errors"
	"hemotrace/pkg/platform/httputil"
	"hemotrace/pkg/requestcontext"
)

// LedgerService defines the registry operations the handler exposes.
type LedgerService interface {
	RegisterDonation(ctx context.Context, donor id.Identity, bloodType, donationType string, amount uint32) (uint64, error)
	UpdateStatus(ctx context.Context, unitID uint64, next models.Status) error
	RecordUsage(ctx context.Context, unitID uint64, patientHash, purpose string) error
	GetDonorInfo(ctx context.Context, donor id.Identity) (*models.Donor, error)
	GetTotalPoints(ctx context.Context, donor id.Identity) (int64, error)
	QueryCreditLevel(ctx context.Context, donor id.Identity) (int, error)
	GetDonorBloodIDs(ctx context.Context, donor id.Identity) ([]uint64, error)
	GetBloodInfo(ctx context.Context, unitID uint64) (*models.BloodUnit, error)
	GetBloodTransfers(ctx context.Context, unitID uint64) ([]models.TransferRecord, error)
	GetBloodUsageInfo(ctx context.Context, unitID uint64) (*service.UsageInfo, error)
	GetBloodInfoBasic(ctx context.Context, unitID uint64) (*cache.BasicInfo, error)
	GetBloodCount(ctx context.Context) (uint64, error)
	IsAuthorizedForBlood(ctx context.Context, caller id.Identity, unitID uint64) (bool, error)
}

// AccessService defines the role and grant operations the handler exposes.
type AccessService interface {
	SetInstitution(ctx context.Context, caller, address id.Identity, authorized bool) error
	SetHospital(ctx context.Context, caller, address id.Identity, authorized bool) error
	GrantQuery(ctx context.Context, caller, grantee id.Identity) error
	RevokeQuery(ctx context.Context, caller, grantee id.Identity) error
}

// Handler wires registry endpoints to the ledger and access services.
type Handler struct {
	registry LedgerService
	access   AccessService
	logger   *slog.Logger
}

// New constructs a registry handler with its dependencies.
func New(registry LedgerService, access AccessService, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		access:   access,
		logger:   logger,
	}
}

// Register mounts the authenticated registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registry/donations", h.HandleRegisterDonation)
	r.Post("/registry/blood-units/{id}/status", h.HandleUpdateStatus)
	r.Post("/registry/blood-units/{id}/usage", h.HandleRecordUsage)

	r.Get("/registry/donors/{donor}", h.HandleGetDonorInfo)
	r.Get("/registry/donors/{donor}/blood-units", h.HandleGetDonorBloodIDs)
	r.Get("/registry/donors/{donor}/points", h.HandleGetTotalPoints)
	r.Get("/registry/donors/{donor}/credit-level", h.HandleQueryCreditLevel)
	r.Get("/registry/blood-units/{id}", h.HandleGetBloodInfo)
	r.Get("/registry/blood-units/{id}/usage", h.HandleGetBloodUsageInfo)
	r.Get("/registry/blood-units/{id}/transfers", h.HandleGetBloodTransfers)

	r.Post("/registry/grants", h.HandleGrantQuery)
	r.Delete("/registry/grants/{grantee}", h.HandleRevokeQuery)

	r.Put("/admin/institutions/{address}", h.HandleSetInstitution)
	r.Put("/admin/hospitals/{address}", h.HandleSetHospital)
}

// RegisterPublic mounts the unauthenticated endpoints on the router.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/registry/blood-units/count", h.HandleGetBloodCount)
	r.Get("/registry/blood-units/{id}/basic", h.HandleGetBloodInfoBasic)
	r.Get("/registry/blood-units/{id}/authorized", h.HandleIsAuthorizedForBlood)
	r.Get("/registry/status-names/{status}", h.HandleGetStatusName)
}

// HandleRegisterDonation handles POST /registry/donations requests.
func (h *Handler) HandleRegisterDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterDonationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	unitID, err := h.registry.RegisterDonation(ctx, req.ParsedDonor(), req.BloodType, req.DonationType, req.Amount)
	if err != nil {
		h.logger.ErrorContext(ctx, "donation registration failed",
			"request_id", requestID,
			"donation_type", req.DonationType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "donation registered",
		"request_id", requestID,
		"blood_unit_id", unitID,
		"donation_type", req.DonationType,
	)
	httputil.WriteJSON(w, http.StatusCreated, RegisterDonationResponse{BloodUnitID: unitID})
}

// HandleUpdateStatus handles POST /registry/blood-units/{id}/status requests.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	unitID, ok := h.unitID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	next := models.Status(req.Status)
	if err := h.registry.UpdateStatus(ctx, unitID, next); err != nil {
		h.logger.WarnContext(ctx, "status update rejected",
			"request_id", requestID,
			"blood_unit_id", unitID,
			"to_status", next.Name(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "status updated",
		"request_id", requestID,
		"blood_unit_id", unitID,
		"to_status", next.Name(),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRecordUsage handles POST /registry/blood-units/{id}/usage requests.
func (h *Handler) HandleRecordUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	unitID, ok := h.unitID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordUsageRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.registry.RecordUsage(ctx, unitID, req.PatientHash, req.Purpose); err != nil {
		h.logger.WarnContext(ctx, "usage recording rejected",
			"request_id", requestID,
			"blood_unit_id", unitID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "usage recorded",
		"request_id", requestID,
		"blood_unit_id", unitID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetDonorInfo handles GET /registry/donors/{donor} requests.
func (h *Handler) HandleGetDonorInfo(w http.ResponseWriter, r *http.Request) {
	donor, ok := h.donorParam(w, r)
	if !ok {
		return
	}
	record, err := h.registry.GetDonorInfo(r.Context(), donor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDonor(record))
}

// HandleGetDonorBloodIDs handles GET /registry/donors/{donor}/blood-units requests.
func (h *Handler) HandleGetDonorBloodIDs(w http.ResponseWriter, r *http.Request) {
	donor, ok := h.donorParam(w, r)
	if !ok {
		return
	}
	ids, err := h.registry.GetDonorBloodIDs(r.Context(), donor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BloodIDsResponse{BloodUnitIDs: ids})
}

// HandleGetTotalPoints handles GET /registry/donors/{donor}/points requests.
func (h *Handler) HandleGetTotalPoints(w http.ResponseWriter, r *http.Request) {
	donor, ok := h.donorParam(w, r)
	if !ok {
		return
	}
	total, err := h.registry.GetTotalPoints(r.Context(), donor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PointsResponse{TotalPoints: total})
}

// HandleQueryCreditLevel handles GET /registry/donors/{donor}/credit-level requests.
func (h *Handler) HandleQueryCreditLevel(w http.ResponseWriter, r *http.Request) {
	donor, ok := h.donorParam(w, r)
	if !ok {
		return
	}
	level, err := h.registry.QueryCreditLevel(r.Context(), donor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CreditLevelResponse{CreditLevel: level})
}

// HandleGetBloodInfo handles GET /registry/blood-units/{id} requests.
func (h *Handler) HandleGetBloodInfo(w http.ResponseWriter, r *http.Request) {
	unitID, ok := h.unitID(w, r)
	if !ok {
		return
	}
	unit, err := h.registry.GetBloodInfo(r.Context(), unitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromBloodUnit(unit))
}

// HandleGetBloodUsageInfo handles GET /registry/blood-units/{id}/usage requests.
func (h *Handler) HandleGetBloodUsageInfo(w http.ResponseWriter, r *http.Request) {
	unitID, ok := h.unitID(w, r)
	if !ok {
		return
	}
	info, err := h.registry.GetBloodUsageInfo(r.Context(), unitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUsageInfo(info))
}

// HandleGetBloodTransfers handles GET /registry/blood-units/{id}/transfers requests.
func (h *Handler) HandleGetBloodTransfers(w http.ResponseWriter, r *http.Request) {
	unitID, ok := h.unitID(w, r)
	if !ok {
		return
	}
	records, err := h.registry.GetBloodTransfers(r.Context(), unitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromTransfers(records))
}

// HandleGetBloodInfoBasic handles GET /registry/blood-units/{id}/basic requests.
func (h *Handler) HandleGetBloodInfoBasic(w http.ResponseWriter, r *http.Request) {
	unitID, ok := h.unitID(w, r)
	if !ok {
		return
	}
	info, err := h.registry.GetBloodInfoBasic(r.Context(), unitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromBasicInfo(info))
}

// HandleGetBloodCount handles GET /registry/blood-units/count requests.
func (h *Handler) HandleGetBloodCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.registry.GetBloodCount(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

// HandleIsAuthorizedForBlood handles GET /registry/blood-units/{id}/authorized requests.
func (h *Handler) HandleIsAuthorizedForBlood(w http.ResponseWriter, r *http.Request) {
	unitID, ok := h.unitID(w, r)
	if !ok {
		return
	}
	caller, err := id.ParseIdentity(r.URL.Query().Get("caller"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "caller query parameter is required"))
		return
	}
	authorized, err := h.registry.IsAuthorizedForBlood(r.Context(), caller, unitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuthorizedResponse{Authorized: authorized})
}

// HandleGetStatusName handles GET /registry/status-names/{status} requests.
func (h *Handler) HandleGetStatusName(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "status")
	value, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "status must be a number between 0 and 255"))
		return
	}
	status := models.Status(value)
	httputil.WriteJSON(w, http.StatusOK, StatusNameResponse{Status: uint8(status), Name: status.Name()})
}

// HandleGrantQuery handles POST /registry/grants requests.
func (h *Handler) HandleGrantQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[GrantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.access.GrantQuery(ctx, caller, req.ParsedGrantee()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "query access granted", "request_id", requestID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRevokeQuery handles DELETE /registry/grants/{grantee} requests.
func (h *Handler) HandleRevokeQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)

	grantee, err := id.ParseIdentity(chi.URLParam(r, "grantee"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "grantee is required"))
		return
	}

	if err := h.access.RevokeQuery(ctx, caller, grantee); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "query access revoked", "request_id", requestID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetInstitution handles PUT /admin/institutions/{address} requests.
func (h *Handler) HandleSetInstitution(w http.ResponseWriter, r *http.Request) {
	h.setRole(w, r, h.access.SetInstitution, "institution role updated")
}

// HandleSetHospital handles PUT /admin/hospitals/{address} requests.
func (h *Handler) HandleSetHospital(w http.ResponseWriter, r *http.Request) {
	h.setRole(w, r, h.access.SetHospital, "hospital role updated")
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, caller, address id.Identity, authorized bool) error, message string) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)

	address, err := id.ParseIdentity(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "address is required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetRoleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := set(ctx, caller, address, req.Authorized); err != nil {
		h.logger.WarnContext(ctx, "role update rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, message,
		"request_id", requestID,
		"authorized", req.Authorized,
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unitID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	unitID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || unitID == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "blood unit id must be a positive number"))
		return 0, false
	}
	return unitID, true
}

func (h *Handler) donorParam(w http.ResponseWriter, r *http.Request) (id.Identity, bool) {
	donor, err := id.ParseIdentity(chi.URLParam(r, "donor"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "donor is required"))
		return "", false
	}
	return donor, true
}
