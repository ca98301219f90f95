// Package store is the record store of the care module.
//
// Each collection (users, patients, clinicians, care relationships,
// observations) is read and written whole, as one JSON document held by a
// Backend. Services mutate records with read-modify-write cycles inside
// RunInTx, which stages every write and commits them together.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"carelock/internal/care/models"
	id "carelock/pkg/domain"
	"carelock/pkg/platform/sentinel"
)

// Collection names one whole-document collection.
type Collection string

const (
	CollectionUsers             Collection = "users"
	CollectionPatients          Collection = "patients"
	CollectionClinicians        Collection = "clinicians"
	CollectionCareRelationships Collection = "care_relationships"
	CollectionObservations      Collection = "observations"

	// collectionInitialized marks a store that has been seeded.
	collectionInitialized Collection = "initialized"
)

// Write replaces one collection with Payload.
type Write struct {
	Collection Collection
	Payload    []byte
}

// Backend persists collections as opaque documents.
//
// Load returns nil and no error for a collection that was never written.
// Commit replaces every listed collection, or none of them.
type Backend interface {
	Load(ctx context.Context, c Collection) ([]byte, error)
	Commit(ctx context.Context, writes []Write) error
}

// Store gives typed, collection-scoped access to a Backend.
type Store struct {
	backend Backend
	mu      sync.Mutex
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

type txKey struct{}

type txState struct {
	staged map[Collection][]byte
	order  []Collection
}

// RunInTx runs fn as one read-modify-write unit. Reads inside fn observe its
// own staged writes; the writes reach the backend in a single Commit only
// when fn returns nil. Transactions are serialized, and a nested RunInTx
// joins the outer one.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	state := &txState{staged: make(map[Collection][]byte)}
	if err := fn(context.WithValue(ctx, txKey{}, state)); err != nil {
		return err
	}
	if len(state.order) == 0 {
		return nil
	}

	writes := make([]Write, 0, len(state.order))
	for _, c := range state.order {
		writes = append(writes, Write{Collection: c, Payload: state.staged[c]})
	}
	if err := s.backend.Commit(ctx, writes); err != nil {
		return fmt.Errorf("commit collections: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, c Collection) ([]byte, error) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		if payload, staged := state.staged[c]; staged {
			return payload, nil
		}
	}
	payload, err := s.backend.Load(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c, err)
	}
	return payload, nil
}

func (s *Store) save(ctx context.Context, c Collection, payload []byte) error {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		if _, staged := state.staged[c]; !staged {
			state.order = append(state.order, c)
		}
		state.staged[c] = payload
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Commit(ctx, []Write{{Collection: c, Payload: payload}}); err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	return nil
}

func readAll[T any](ctx context.Context, s *Store, c Collection) ([]T, error) {
	payload, err := s.load(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeAll[T any](ctx context.Context, s *Store, c Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	return s.save(ctx, c, payload)
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	return readAll[models.User](ctx, s, CollectionUsers)
}

func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	return writeAll(ctx, s, CollectionUsers, users)
}

func (s *Store) Patients(ctx context.Context) ([]models.Patient, error) {
	return readAll[models.Patient](ctx, s, CollectionPatients)
}

func (s *Store) SavePatients(ctx context.Context, patients []models.Patient) error {
	return writeAll(ctx, s, CollectionPatients, patients)
}

func (s *Store) Clinicians(ctx context.Context) ([]models.Clinician, error) {
	return readAll[models.Clinician](ctx, s, CollectionClinicians)
}

func (s *Store) SaveClinicians(ctx context.Context, clinicians []models.Clinician) error {
	return writeAll(ctx, s, CollectionClinicians, clinicians)
}

func (s *Store) CareRelationships(ctx context.Context) ([]models.CareRelationship, error) {
	return readAll[models.CareRelationship](ctx, s, CollectionCareRelationships)
}

func (s *Store) SaveCareRelationships(ctx context.Context, relationships []models.CareRelationship) error {
	return writeAll(ctx, s, CollectionCareRelationships, relationships)
}

func (s *Store) Observations(ctx context.Context) ([]models.Observation, error) {
	return readAll[models.Observation](ctx, s, CollectionObservations)
}

func (s *Store) SaveObservations(ctx context.Context, observations []models.Observation) error {
	return writeAll(ctx, s, CollectionObservations, observations)
}

// UserByID returns sentinel.ErrNotFound when the id does not resolve.
func (s *Store) UserByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == userID {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
}

// PatientByID returns sentinel.ErrNotFound when the id does not resolve.
func (s *Store) PatientByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	patients, err := s.Patients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range patients {
		if patients[i].ID == patientID {
			return &patients[i], nil
		}
	}
	return nil, fmt.Errorf("patient %s: %w", patientID, sentinel.ErrNotFound)
}

// ClinicianByID returns sentinel.ErrNotFound when the id does not resolve.
func (s *Store) ClinicianByID(ctx context.Context, clinicianID id.ClinicianID) (*models.Clinician, error) {
	clinicians, err := s.Clinicians(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clinicians {
		if clinicians[i].ID == clinicianID {
			return &clinicians[i], nil
		}
	}
	return nil, fmt.Errorf("clinician %s: %w", clinicianID, sentinel.ErrNotFound)
}

// CareRelationshipByID returns sentinel.ErrNotFound when the id does not resolve.
func (s *Store) CareRelationshipByID(ctx context.Context, relationshipID id.CareRelationshipID) (*models.CareRelationship, error) {
	relationships, err := s.CareRelationships(ctx)
	if err != nil {
		return nil, err
	}
	for i := range relationships {
		if relationships[i].ID == relationshipID {
			return &relationships[i], nil
		}
	}
	return nil, fmt.Errorf("care relationship %s: %w", relationshipID, sentinel.ErrNotFound)
}
