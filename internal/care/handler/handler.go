package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carelock/internal/care/models"
	"carelock/internal/care/visibility"
	id "carelock/pkg/domain"
	dErrors "carelock/pkg/domain-errors"
	"carelock/pkg/platform/httputil"
	"carelock/pkg/requestcontext"
)

// LedgerService starts and lists care relationships.
type LedgerService interface {
	Start(ctx context.Context, patientID id.PatientID, clinicianID id.ClinicianID) (*models.CareRelationship, error)
	Active(ctx context.Context, clinicianID id.ClinicianID) (*models.CareRelationship, error)
	ByPatient(ctx context.Context, patientID id.PatientID) ([]models.CareRelationship, error)
	ByClinician(ctx context.Context, clinicianID id.ClinicianID) ([]models.CareRelationship, error)
	Get(ctx context.Context, relationshipID id.CareRelationshipID) (*models.CareRelationship, error)
}

// IntakeService records completing observations.
type IntakeService interface {
	Record(ctx context.Context, in models.ObservationInput) (*models.Observation, error)
	ByPatient(ctx context.Context, patientID id.PatientID) ([]models.Observation, error)
}

// VisibilityPolicy serves the history views and access decisions.
type VisibilityPolicy interface {
	VisibleHistory(ctx context.Context, patientID id.PatientID, clinicianID id.ClinicianID, relationshipID id.CareRelationshipID) (visibility.History, error)
	AuditHistory(ctx context.Context, patientID id.PatientID, clinicianID id.ClinicianID) (visibility.History, error)
	Decide(ctx context.Context, clinicianID id.ClinicianID, patientID id.PatientID) (visibility.Decision, error)
	Caseload(ctx context.Context, clinicianID id.ClinicianID, query string) (visibility.Caseload, error)
}

// RosterService lists people and resets the store.
type RosterService interface {
	Users(ctx context.Context) ([]models.User, error)
	Patients(ctx context.Context) ([]models.Patient, error)
	Clinicians(ctx context.Context) ([]models.Clinician, error)
	Patient(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	Reset(ctx context.Context) error
}

// Handler is the HTTP adapter of the care module. It parses identifiers,
// calls one service operation and renders the result.
type Handler struct {
	ledger     LedgerService
	intake     IntakeService
	visibility VisibilityPolicy
	roster     RosterService
	logger     *slog.Logger
}

func New(ledger LedgerService, intake IntakeService, policy VisibilityPolicy, roster RosterService, logger *slog.Logger) *Handler {
	return &Handler{
		ledger:     ledger,
		intake:     intake,
		visibility: policy,
		roster:     roster,
		logger:     logger,
	}
}

// Register mounts the care endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users", h.handleListUsers)
	r.Get("/patients", h.handleListPatients)
	r.Get("/clinicians", h.handleListClinicians)
	r.Post("/admin/reset", h.handleReset)

	r.Route("/patients/{patientID}", func(r chi.Router) {
		r.Get("/", h.handleGetPatient)
		r.Post("/care-relationships", h.handleStartRelationship)
		r.Get("/care-relationships", h.handlePatientRelationships)
	})

	r.Route("/clinicians/{clinicianID}", func(r chi.Router) {
		r.Get("/active-relationship", h.handleActiveRelationship)
		r.Get("/care-relationships", h.handleClinicianRelationships)
		r.Get("/caseload", h.handleCaseload)
		r.Post("/care-relationships/{relationshipID}/observations", h.handleRecordObservation)
		r.Get("/care-relationships/{relationshipID}/history", h.handleScopedHistory)
		r.Get("/patients/{patientID}/audit-history", h.handleAuditHistory)
		r.Get("/patients/{patientID}/access", h.handleAccess)
	})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.roster.Users(r.Context())
	if err != nil {
		h.fail(w, r, "list users failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}

func (h *Handler) handleListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.roster.Patients(r.Context())
	if err != nil {
		h.fail(w, r, "list patients failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPatients(patients))
}

func (h *Handler) handleListClinicians(w http.ResponseWriter, r *http.Request) {
	clinicians, err := h.roster.Clinicians(r.Context())
	if err != nil {
		h.fail(w, r, "list clinicians failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CliniciansResponse{Clinicians: clinicians})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.Reset(r.Context()); err != nil {
		h.fail(w, r, "reset failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetPatient serves the patient's own record: the full history with
// every author, and the observations contributed to it.
func (h *Handler) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patientID, err := id.ParsePatientID(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patient, err := h.roster.Patient(ctx, patientID)
	if err != nil {
		h.fail(w, r, "get patient failed", err)
		return
	}
	observations, err := h.intake.ByPatient(ctx, patientID)
	if err != nil {
		h.fail(w, r, "list observations failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPatientRecord(patient, observations))
}

func (h *Handler) handleStartRelationship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	patientID, err := id.ParsePatientID(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[StartRelationshipRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rel, err := h.ledger.Start(ctx, patientID, req.ParsedClinicianID())
	if err != nil {
		h.fail(w, r, "start care relationship failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromRelationship(rel))
}

func (h *Handler) handlePatientRelationships(w http.ResponseWriter, r *http.Request) {
	patientID, err := id.ParsePatientID(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rels, err := h.ledger.ByPatient(r.Context(), patientID)
	if err != nil {
		h.fail(w, r, "list patient care relationships failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRelationships(rels))
}

func (h *Handler) handleActiveRelationship(w http.ResponseWriter, r *http.Request) {
	clinicianID, err := id.ParseClinicianID(chi.URLParam(r, "clinicianID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	active, err := h.ledger.Active(r.Context(), clinicianID)
	if err != nil {
		h.fail(w, r, "get active care relationship failed", err)
		return
	}
	resp := LockResponse{Locked: active != nil}
	if active != nil {
		rel := FromRelationship(active)
		resp.Relationship = &rel
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleClinicianRelationships(w http.ResponseWriter, r *http.Request) {
	clinicianID, err := id.ParseClinicianID(chi.URLParam(r, "clinicianID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rels, err := h.ledger.ByClinician(r.Context(), clinicianID)
	if err != nil {
		h.fail(w, r, "list clinician care relationships failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRelationships(rels))
}

func (h *Handler) handleCaseload(w http.ResponseWriter, r *http.Request) {
	clinicianID, err := id.ParseClinicianID(chi.URLParam(r, "clinicianID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	caseload, err := h.visibility.Caseload(r.Context(), clinicianID, r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, "load caseload failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, caseload)
}

func (h *Handler) handleRecordObservation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	clinicianID, err := id.ParseClinicianID(chi.URLParam(r, "clinicianID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	relationshipID, err := id.ParseCareRelationshipID(chi.URLParam(r, "relationshipID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordObservationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	obs, err := h.intake.Record(ctx, req.Input(relationshipID, clinicianID))
	if err != nil {
		h.fail(w, r, "record observation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, obs)
}

// handleScopedHistory serves the frozen view of one of the clinician's
// relationships. Relationships that do not unlock anything render as an
// empty history.
func (h *Handler) handleScopedHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clinicianID, err := id.ParseClinicianID(chi.URLParam(r, "clinicianID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	relationshipID, err := id.ParseCareRelationshipID(chi.URLParam(r, "relationshipID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rel, err := h.ledger.Get(ctx, relationshipID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		httputil.WriteJSON(w, http.StatusOK, FromHistory(visibility.History{}))
		return
	}
	if err != nil {
		h.fail(w, r, "get care relationship failed", err)
		return
	}

	view, err := h.visibility.VisibleHistory(ctx, rel.PatientID, clinicianID, relationshipID)
	if err != nil {
		h.fail(w, r, "load scoped history failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromHistory(view))
}

// handleAuditHistory serves the full redacted history, only to a clinician
// currently locked to this patient.
func (h *Handler) handleAuditHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clinicianID, patientID, ok := parseClinicianPatient(w, r)
	if !ok {
		return
	}

	decision, err := h.visibility.Decide(ctx, clinicianID, patientID)
	if err != nil {
		h.fail(w, r, "decide access failed", err)
		return
	}
	if decision.Access != visibility.AccessAudit {
		h.logger.WarnContext(ctx, "audit history denied",
			"request_id", requestcontext.RequestID(ctx),
			"clinician_id", clinicianID.String(),
			"patient_id", patientID.String(),
			"access", string(decision.Access),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, decision.Reason))
		return
	}

	view, err := h.visibility.AuditHistory(ctx, patientID, clinicianID)
	if err != nil {
		h.fail(w, r, "load audit history failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromHistory(view))
}

func (h *Handler) handleAccess(w http.ResponseWriter, r *http.Request) {
	clinicianID, patientID, ok := parseClinicianPatient(w, r)
	if !ok {
		return
	}
	decision, err := h.visibility.Decide(r.Context(), clinicianID, patientID)
	if err != nil {
		h.fail(w, r, "decide access failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decision)
}

func parseClinicianPatient(w http.ResponseWriter, r *http.Request) (id.ClinicianID, id.PatientID, bool) {
	clinicianID, err := id.ParseClinicianID(chi.URLParam(r, "clinicianID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ClinicianID{}, id.PatientID{}, false
	}
	patientID, err := id.ParsePatientID(chi.URLParam(r, "patientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ClinicianID{}, id.PatientID{}, false
	}
	return clinicianID, patientID, true
}

// fail logs at a level matching the error's code and writes the response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	code, _ := dErrors.CodeOf(err)
	level := slog.LevelWarn
	if httputil.StatusFor(code) >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"path", r.URL.Path,
		"error", err,
	)
	httputil.WriteError(w, err)
}
