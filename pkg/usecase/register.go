package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Storage keys, shared with data saved by earlier versions of the dashboard
const (
	KeyRisks     = "cicllos_risks"
	KeyDocuments = "cicllos_docs"
)

// savedStateDuration is how long State reports "saved" after a successful persist
const savedStateDuration = 3 * time.Second

// SaveStatus is the persistence status of the collections
type SaveStatus struct {
	Dirty   bool            `json:"dirty"`
	State   types.SaveState `json:"state"`
	SavedAt time.Time       `json:"savedAt,omitzero"`
}

// LoadResult reports which collections came from storage and which from the seed
type LoadResult struct {
	RisksFromSeed     bool
	DocumentsFromSeed bool
	Risks             int
	Documents         int
}

// RegisterUseCase owns the risk and document collections and mirrors them to a KVStore.
// Every mutation runs to completion under the lock.
type RegisterUseCase struct {
	store interfaces.KVStore
	seed  *model.Seed
	now   func() time.Time

	mu        sync.RWMutex
	risks     []*model.Risk
	documents []*model.Document
	version   uint64
	saved     uint64
	saving    bool
	savedAt   time.Time

	persistMu sync.Mutex
}

// NewRegisterUseCase starts with a copy of seed. Call Load to read persisted data.
func NewRegisterUseCase(store interfaces.KVStore, seed *model.Seed, now func() time.Time) *RegisterUseCase {
	if seed == nil {
		seed = model.DefaultSeed()
	}
	if now == nil {
		now = time.Now
	}

	initial := seed.Clone()
	uc := &RegisterUseCase{
		store:     store,
		seed:      seed,
		now:       now,
		risks:     initial.Risks,
		documents: initial.Documents,
	}
	uc.updateGauges()
	return uc
}

// Risks returns a deep copy of the risk collection in insertion order
func (uc *RegisterUseCase) Risks() []*model.Risk {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return model.CloneRisks(uc.risks)
}

// Documents returns a deep copy of the document collection in insertion order
func (uc *RegisterUseCase) Documents() []*model.Document {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return model.CloneDocuments(uc.documents)
}

// State returns whether there are unsaved changes and the save status
func (uc *RegisterUseCase) State() SaveStatus {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	status := SaveStatus{
		Dirty:   uc.version != uc.saved,
		State:   types.SaveStateIdle,
		SavedAt: uc.savedAt,
	}
	switch {
	case uc.saving:
		status.State = types.SaveStateSaving
	case !status.Dirty && !uc.savedAt.IsZero() && uc.now().Sub(uc.savedAt) < savedStateDuration:
		status.State = types.SaveStateSaved
	}
	return status
}

// markChanged must be called with mu held
func (uc *RegisterUseCase) markChanged() {
	uc.version++
	uc.savedAt = time.Time{}
}

func (uc *RegisterUseCase) updateGauges() {
	registerSize.WithLabelValues(collectionRisks).Set(float64(len(uc.risks)))
	registerSize.WithLabelValues(collectionDocuments).Set(float64(len(uc.documents)))
}

// UpdateRisk applies u to the risk with id. An unknown id is a no-op and
// returns (nil, nil). Invalid updates return an error and change nothing.
func (uc *RegisterUseCase) UpdateRisk(ctx context.Context, id model.RiskID, u model.RiskUpdate) (*model.Risk, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for _, r := range uc.risks {
		if r.ID != id {
			continue
		}
		if err := r.Apply(u); err != nil {
			mutationsTotal.WithLabelValues(collectionRisks, "update", "rejected").Inc()
			return nil, goerr.Wrap(err, "failed to update risk", goerr.V(RiskIDKey, id), goerr.V(model.FieldKey, u.Field()))
		}
		uc.markChanged()
		mutationsTotal.WithLabelValues(collectionRisks, "update", "ok").Inc()
		return r.Clone(), nil
	}

	logging.From(ctx).Debug("risk not found, update ignored", "risk_id", id, "field", u.Field())
	mutationsTotal.WithLabelValues(collectionRisks, "update", "not_found").Inc()
	return nil, nil
}

// AddRisk appends a placeholder risk and returns it
func (uc *RegisterUseCase) AddRisk(ctx context.Context) *model.Risk {
	r := model.NewRisk()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.risks = append(uc.risks, r)
	uc.markChanged()
	uc.updateGauges()
	mutationsTotal.WithLabelValues(collectionRisks, "add", "ok").Inc()

	logging.From(ctx).Info("risk added", "risk_id", r.ID)
	return r.Clone()
}

// RemoveRisk deletes the risk with id. It reports false when nothing matched.
func (uc *RegisterUseCase) RemoveRisk(ctx context.Context, id model.RiskID) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for i, r := range uc.risks {
		if r.ID == id {
			uc.risks = append(uc.risks[:i:i], uc.risks[i+1:]...)
			uc.markChanged()
			uc.updateGauges()
			mutationsTotal.WithLabelValues(collectionRisks, "remove", "ok").Inc()
			logging.From(ctx).Info("risk removed", "risk_id", id)
			return true
		}
	}

	mutationsTotal.WithLabelValues(collectionRisks, "remove", "not_found").Inc()
	return false
}

// UpdateDocument applies u to the document with id. Same contract as UpdateRisk.
func (uc *RegisterUseCase) UpdateDocument(ctx context.Context, id model.DocumentID, u model.DocumentUpdate) (*model.Document, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for _, d := range uc.documents {
		if d.ID != id {
			continue
		}
		if err := d.Apply(u); err != nil {
			mutationsTotal.WithLabelValues(collectionDocuments, "update", "rejected").Inc()
			return nil, goerr.Wrap(err, "failed to update document", goerr.V(DocumentIDKey, id), goerr.V(model.FieldKey, u.Field()))
		}
		uc.markChanged()
		mutationsTotal.WithLabelValues(collectionDocuments, "update", "ok").Inc()
		return d.Clone(), nil
	}

	logging.From(ctx).Debug("document not found, update ignored", "document_id", id, "field", u.Field())
	mutationsTotal.WithLabelValues(collectionDocuments, "update", "not_found").Inc()
	return nil, nil
}

// AddDocument appends a draft policy dated today and returns it
func (uc *RegisterUseCase) AddDocument(ctx context.Context) *model.Document {
	d := model.NewDocument(uc.now())

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.documents = append(uc.documents, d)
	uc.markChanged()
	uc.updateGauges()
	mutationsTotal.WithLabelValues(collectionDocuments, "add", "ok").Inc()

	logging.From(ctx).Info("document added", "document_id", d.ID)
	return d.Clone()
}

// RemoveDocument deletes the document with id. It reports false when nothing matched.
func (uc *RegisterUseCase) RemoveDocument(ctx context.Context, id model.DocumentID) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for i, d := range uc.documents {
		if d.ID == id {
			uc.documents = append(uc.documents[:i:i], uc.documents[i+1:]...)
			uc.markChanged()
			uc.updateGauges()
			mutationsTotal.WithLabelValues(collectionDocuments, "remove", "ok").Inc()
			logging.From(ctx).Info("document removed", "document_id", id)
			return true
		}
	}

	mutationsTotal.WithLabelValues(collectionDocuments, "remove", "not_found").Inc()
	return false
}

// Reset replaces both collections with the seed dataset. The change is unsaved until Persist.
func (uc *RegisterUseCase) Reset(ctx context.Context) {
	fresh := uc.seed.Clone()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.risks = fresh.Risks
	uc.documents = fresh.Documents
	uc.markChanged()
	uc.updateGauges()

	logging.From(ctx).Info("collections reset to seed",
		"risks", len(uc.risks),
		"documents", len(uc.documents))
}

// Persist writes both collections as JSON arrays under KeyRisks and KeyDocuments.
// Changes made while the write is in flight stay unsaved.
func (uc *RegisterUseCase) Persist(ctx context.Context) error {
	uc.persistMu.Lock()
	defer uc.persistMu.Unlock()

	uc.mu.Lock()
	risksData, err := json.Marshal(uc.risks)
	if err != nil {
		uc.mu.Unlock()
		return goerr.Wrap(err, "failed to marshal risks")
	}
	docsData, err := json.Marshal(uc.documents)
	if err != nil {
		uc.mu.Unlock()
		return goerr.Wrap(err, "failed to marshal documents")
	}
	version := uc.version
	uc.saving = true
	uc.mu.Unlock()

	writeErr := uc.write(ctx, risksData, docsData)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.saving = false

	if writeErr != nil {
		persistTotal.WithLabelValues("error").Inc()
		return goerr.Wrap(errors.Join(ErrStorageWrite, writeErr), "failed to persist collections")
	}

	uc.saved = version
	uc.savedAt = uc.now()
	persistTotal.WithLabelValues("ok").Inc()

	logging.From(ctx).Info("collections persisted",
		"risks", len(risksData),
		"documents", len(docsData),
		"pending_changes", uc.version != version)
	return nil
}

func (uc *RegisterUseCase) write(ctx context.Context, risksData, docsData []byte) error {
	if err := uc.store.Set(ctx, KeyRisks, risksData); err != nil {
		return goerr.Wrap(err, "failed to write risks", goerr.V(KeyKey, KeyRisks))
	}
	if err := uc.store.Set(ctx, KeyDocuments, docsData); err != nil {
		return goerr.Wrap(err, "failed to write documents", goerr.V(KeyKey, KeyDocuments))
	}
	return nil
}

// Load replaces both collections with the persisted ones. Each collection
// independently falls back to the seed when its key is missing or does not
// parse. Every loaded risk is rescored; stored impact and level are ignored.
// It only fails when ctx is done.
func (uc *RegisterUseCase) Load(ctx context.Context) (*LoadResult, error) {
	fresh := uc.seed.Clone()
	result := &LoadResult{}

	var (
		risks []*model.Risk
		docs  []*model.Document
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		loaded, ok, err := loadCollection[model.Risk](egCtx, uc.store, KeyRisks, collectionRisks)
		if err != nil {
			return err
		}
		if !ok {
			loaded = fresh.Risks
			result.RisksFromSeed = true
		}
		risks = loaded
		return nil
	})
	eg.Go(func() error {
		loaded, ok, err := loadCollection[model.Document](egCtx, uc.store, KeyDocuments, collectionDocuments)
		if err != nil {
			return err
		}
		if !ok {
			loaded = fresh.Documents
			result.DocumentsFromSeed = true
		}
		docs = loaded
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, r := range risks {
		r.Rescore()
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.risks = risks
	uc.documents = docs
	uc.version++
	uc.saved = uc.version
	uc.savedAt = time.Time{}
	if result.RisksFromSeed || result.DocumentsFromSeed {
		// seeded collections exist only in memory until persisted
		uc.saved--
	}
	uc.updateGauges()

	result.Risks = len(risks)
	result.Documents = len(docs)

	logging.From(ctx).Info("collections loaded",
		"risks", result.Risks,
		"documents", result.Documents,
		"risks_from_seed", result.RisksFromSeed,
		"documents_from_seed", result.DocumentsFromSeed)
	return result, nil
}

// loadCollection reads and decodes one key. ok is false when the seed must be used.
func loadCollection[T any](ctx context.Context, store interfaces.KVStore, key, collection string) (items []*T, ok bool, err error) {
	logger := logging.From(ctx)

	data, err := store.Get(ctx, key)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, goerr.Wrap(ctxErr, "load canceled", goerr.V(KeyKey, key))
		}
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			logger.Info("no persisted data, using seed", "key", key)
			loadFallbackTotal.WithLabelValues(collection, "missing").Inc()
		} else {
			logger.Warn("failed to read persisted data, using seed", "key", key, "error", err.Error())
			loadFallbackTotal.WithLabelValues(collection, "read_error").Inc()
		}
		return nil, false, nil
	}

	var decoded []*T
	if err := json.Unmarshal(data, &decoded); err != nil || decoded == nil {
		logger.Warn("persisted data does not parse, using seed", "key", key, "error", err)
		loadFallbackTotal.WithLabelValues(collection, "parse_error").Inc()
		return nil, false, nil
	}

	for _, item := range decoded {
		if item == nil {
			logger.Warn("persisted data has null entries, using seed", "key", key)
			loadFallbackTotal.WithLabelValues(collection, "parse_error").Inc()
			return nil, false, nil
		}
	}

	return decoded, true, nil
}
