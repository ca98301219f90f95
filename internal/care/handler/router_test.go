package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelock/internal/care/intake"
	"carelock/internal/care/ledger"
	"carelock/internal/care/roster"
	"carelock/internal/care/store"
	"carelock/internal/care/store/memory"
	"carelock/internal/care/visibility"
)

// TestCareFlow drives one clinician through lock, audit, contribution and
// scoped view against the real services.
func TestCareFlow(t *testing.T) {
	st := store.New(memory.New())
	rost := roster.New(st)
	_, err := rost.EnsureSeeded(context.Background())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(ledger.New(st), intake.New(st), visibility.New(st), rost, logger)
	r := chi.NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	call := func(method, path string, body any) (int, map[string]any) {
		t.Helper()
		var reader io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
		req, err := http.NewRequest(method, srv.URL+path, reader)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]any
		if resp.StatusCode != http.StatusNoContent {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		}
		return resp.StatusCode, out
	}

	patient := store.SeedPatientMaria.String()
	clinician := store.SeedClinicianRuiz.String()

	status, rel := call(http.MethodPost, "/patients/"+patient+"/care-relationships", map[string]string{"clinician_id": clinician})
	require.Equal(t, http.StatusCreated, status)
	relID := rel["id"].(string)

	status, lock := call(http.MethodGet, "/clinicians/"+clinician+"/active-relationship", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, lock["locked"])

	status, other := call(http.MethodPost, "/patients/"+store.SeedPatientJoao.String()+"/care-relationships", map[string]string{"clinician_id": clinician})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflicting_active_relationship", other["error"])

	status, scoped := call(http.MethodGet, "/clinicians/"+clinician+"/care-relationships/"+relID+"/history", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, scoped["entries"])

	status, audit := call(http.MethodGet, "/clinicians/"+clinician+"/patients/"+patient+"/audit-history", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, audit["entries"], 5)

	status, _ = call(http.MethodPost, "/clinicians/"+clinician+"/care-relationships/"+relID+"/observations", map[string]string{
		"patient_id":         patient,
		"observation_domain": "Pain & Sensitisation",
		"anatomical_context": "Lumbar Spine",
		"trigger_condition":  "Morning stiffness",
		"measurement_type":   "Visual Analog Scale (VAS)",
		"confidence_level":   "High",
	})
	require.Equal(t, http.StatusCreated, status)

	status, scoped = call(http.MethodGet, "/clinicians/"+clinician+"/care-relationships/"+relID+"/history", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, scoped["entries"], 6)

	status, _ = call(http.MethodGet, "/clinicians/"+clinician+"/patients/"+patient+"/audit-history", nil)
	assert.Equal(t, http.StatusForbidden, status, "audit view closes once the relationship completes")

	status, access := call(http.MethodGet, "/clinicians/"+clinician+"/patients/"+patient+"/access", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "scoped", access["access"])

	status, _ = call(http.MethodPost, "/admin/reset", nil)
	require.Equal(t, http.StatusNoContent, status)
	status, rels := call(http.MethodGet, "/clinicians/"+clinician+"/care-relationships", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, rels["care_relationships"])
}
