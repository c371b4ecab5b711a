package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/usecase"
)

// mockKVStore wraps the memory store and can fail selected operations
type mockKVStore struct {
	*memory.Memory

	mu      sync.Mutex
	setErr  error
	getErr  error
	setKeys []string
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{Memory: memory.New()}
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.setKeys = append(m.setKeys, key)
	err := m.setErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.Memory.Set(ctx, key, value)
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	err := m.getErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.Memory.Get(ctx, key)
}

var _ interfaces.KVStore = (*mockKVStore)(nil)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newRegister(store interfaces.KVStore) *usecase.RegisterUseCase {
	return usecase.NewRegisterUseCase(store, model.DefaultSeed(), fixedClock(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))
}

func findRisk(risks []*model.Risk, id model.RiskID) *model.Risk {
	for _, r := range risks {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func TestRegisterUseCase_InitialState(t *testing.T) {
	uc := newRegister(memory.New())

	gt.Array(t, uc.Risks()).Length(5)
	gt.Array(t, uc.Documents()).Length(7)

	state := uc.State()
	gt.Bool(t, state.Dirty).False()
	gt.Value(t, state.State).Equal(types.SaveStateIdle)
}

func TestRegisterUseCase_UpdateRisk(t *testing.T) {
	ctx := context.Background()

	t.Run("probability change rescores", func(t *testing.T) {
		uc := newRegister(memory.New())

		updated, err := uc.UpdateRisk(ctx, "r1", model.SetRiskProbability(5))
		gt.NoError(t, err).Required()
		gt.Value(t, updated).NotNil()
		gt.Value(t, updated.Probability).Equal(5)
		gt.Value(t, updated.Level).Equal(types.RiskLevelCritical)

		stored := findRisk(uc.Risks(), "r1")
		gt.Value(t, stored.Level).Equal(types.RiskLevelCritical)
		gt.Bool(t, uc.State().Dirty).True()
	})

	t.Run("factor change updates impact", func(t *testing.T) {
		uc := newRegister(memory.New())

		updated, err := uc.UpdateRisk(ctx, "r4", model.SetRiskFactor(model.FactorManagement, 1))
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Impact).Equal(1.6)
		gt.Value(t, updated.Level).Equal(types.RiskLevelHigh)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		uc := newRegister(memory.New())

		updated, err := uc.UpdateRisk(ctx, "missing", model.SetRiskTitle("x"))
		gt.NoError(t, err)
		gt.Value(t, updated).Nil()
		gt.Bool(t, uc.State().Dirty).False()
	})

	t.Run("out of range score is rejected", func(t *testing.T) {
		uc := newRegister(memory.New())

		_, err := uc.UpdateRisk(ctx, "r1", model.SetRiskProbability(6))
		gt.Error(t, err).Is(model.ErrScoreOutOfRange)

		stored := findRisk(uc.Risks(), "r1")
		gt.Value(t, stored.Probability).Equal(3)
		gt.Bool(t, uc.State().Dirty).False()
	})

	t.Run("same update twice equals once", func(t *testing.T) {
		once := newRegister(memory.New())
		_, err := once.UpdateRisk(ctx, "r4", model.SetRiskFactor(model.FactorManagement, 5))
		gt.NoError(t, err).Required()

		twice := newRegister(memory.New())
		for range 2 {
			_, err := twice.UpdateRisk(ctx, "r4", model.SetRiskFactor(model.FactorManagement, 5))
			gt.NoError(t, err).Required()
		}

		gt.Value(t, twice.Risks()).Equal(once.Risks())
		gt.Value(t, findRisk(twice.Risks(), "r4").Impact).Equal(2.4)
	})

	t.Run("returned risk is a copy", func(t *testing.T) {
		uc := newRegister(memory.New())

		updated, err := uc.UpdateRisk(ctx, "r1", model.SetRiskOwner("Auditoria"))
		gt.NoError(t, err).Required()
		updated.Owner = "changed"

		gt.Value(t, findRisk(uc.Risks(), "r1").Owner).Equal("Auditoria")
	})
}

func TestRegisterUseCase_AddRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("add appends and remove deletes by id", func(t *testing.T) {
		uc := newRegister(memory.New())

		risk := uc.AddRisk(ctx)
		risks := uc.Risks()
		gt.Array(t, risks).Length(6)
		gt.Value(t, risks[5].ID).Equal(risk.ID)
		gt.Value(t, risk.Title).Equal("Novo Risco")

		doc := uc.AddDocument(ctx)
		docs := uc.Documents()
		gt.Array(t, docs).Length(8)
		gt.Value(t, docs[7].ID).Equal(doc.ID)
		gt.Value(t, doc.LastUpdated).Equal("2024-03-05")
		gt.Value(t, doc.Status).Equal(types.DocumentStatusDraft)

		gt.Bool(t, uc.RemoveRisk(ctx, risk.ID)).True()
		gt.Bool(t, uc.RemoveRisk(ctx, risk.ID)).False()
		gt.Array(t, uc.Risks()).Length(5)

		gt.Bool(t, uc.RemoveDocument(ctx, "3")).True()
		gt.Bool(t, uc.RemoveDocument(ctx, "missing")).False()
		docs = uc.Documents()
		gt.Array(t, docs).Length(7)
		gt.Value(t, docs[2].ID).Equal(model.DocumentID("4"))
		gt.Value(t, docs[6].ID).Equal(doc.ID)
	})

	t.Run("add then remove restores the collections", func(t *testing.T) {
		uc := newRegister(memory.New())
		risksBefore := uc.Risks()
		docsBefore := uc.Documents()

		risk := uc.AddRisk(ctx)
		gt.Bool(t, uc.RemoveRisk(ctx, risk.ID)).True()
		doc := uc.AddDocument(ctx)
		gt.Bool(t, uc.RemoveDocument(ctx, doc.ID)).True()

		gt.Value(t, uc.Risks()).Equal(risksBefore)
		gt.Value(t, uc.Documents()).Equal(docsBefore)
	})
}

func TestRegisterUseCase_UpdateDocument(t *testing.T) {
	ctx := context.Background()
	uc := newRegister(memory.New())

	updated, err := uc.UpdateDocument(ctx, "1", model.SetDocumentStatus(types.DocumentStatusDraft))
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Status).Equal(types.DocumentStatusDraft)

	_, err = uc.UpdateDocument(ctx, "1", model.SetDocumentLastUpdated("15/10/2023"))
	gt.Error(t, err).Is(model.ErrInvalidDate)

	missing, err := uc.UpdateDocument(ctx, "missing", model.SetDocumentTitle("x"))
	gt.NoError(t, err)
	gt.Value(t, missing).Nil()
}

func TestRegisterUseCase_Persist(t *testing.T) {
	ctx := context.Background()

	t.Run("writes both keys", func(t *testing.T) {
		store := newMockKVStore()
		uc := newRegister(store)
		uc.AddRisk(ctx)

		gt.NoError(t, uc.Persist(ctx)).Required()

		state := uc.State()
		gt.Bool(t, state.Dirty).False()
		gt.Value(t, state.State).Equal(types.SaveStateSaved)

		data, err := store.Memory.Get(ctx, usecase.KeyRisks)
		gt.NoError(t, err).Required()
		var risks []*model.Risk
		gt.NoError(t, json.Unmarshal(data, &risks)).Required()
		gt.Array(t, risks).Length(6)

		data, err = store.Memory.Get(ctx, usecase.KeyDocuments)
		gt.NoError(t, err).Required()
		var docs []*model.Document
		gt.NoError(t, json.Unmarshal(data, &docs)).Required()
		gt.Array(t, docs).Length(7)
	})

	t.Run("saved reverts to idle", func(t *testing.T) {
		uc := newRegister(newMockKVStore())
		gt.NoError(t, uc.Persist(ctx)).Required()

		uc.SetSavedAt(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).Add(-usecase.SavedStateDuration))
		gt.Value(t, uc.State().State).Equal(types.SaveStateIdle)
	})

	t.Run("mutation after save resets state", func(t *testing.T) {
		uc := newRegister(newMockKVStore())
		gt.NoError(t, uc.Persist(ctx)).Required()
		uc.AddDocument(ctx)

		state := uc.State()
		gt.Bool(t, state.Dirty).True()
		gt.Value(t, state.State).Equal(types.SaveStateIdle)
	})

	t.Run("write failure", func(t *testing.T) {
		store := newMockKVStore()
		store.setErr = errors.New("quota exceeded")
		uc := newRegister(store)
		uc.AddRisk(ctx)

		err := uc.Persist(ctx)
		gt.Error(t, err).Is(usecase.ErrStorageWrite)

		state := uc.State()
		gt.Bool(t, state.Dirty).True()
		gt.Value(t, state.State).Equal(types.SaveStateIdle)
		gt.Array(t, uc.Risks()).Length(6)
	})
}

func TestRegisterUseCase_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		store := memory.New()
		uc := newRegister(store)
		_, err := uc.UpdateRisk(ctx, "r2", model.SetRiskTitle("Vazamento"))
		gt.NoError(t, err).Required()
		uc.RemoveDocument(ctx, "7")
		gt.NoError(t, uc.Persist(ctx)).Required()

		reloaded := newRegister(store)
		result, err := reloaded.Load(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.RisksFromSeed).False()
		gt.Bool(t, result.DocumentsFromSeed).False()
		gt.Value(t, findRisk(reloaded.Risks(), "r2").Title).Equal("Vazamento")
		gt.Array(t, reloaded.Documents()).Length(6)
		gt.Bool(t, reloaded.State().Dirty).False()
	})

	t.Run("missing keys fall back to seed", func(t *testing.T) {
		uc := newRegister(memory.New())
		result, err := uc.Load(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.RisksFromSeed).True()
		gt.Bool(t, result.DocumentsFromSeed).True()
		gt.Value(t, result.Risks).Equal(5)
		gt.Value(t, result.Documents).Equal(7)
		gt.Bool(t, uc.State().Dirty).True()
	})

	t.Run("each collection falls back independently", func(t *testing.T) {
		store := memory.New()
		gt.NoError(t, store.Set(ctx, usecase.KeyRisks, []byte("{not json"))).Required()
		gt.NoError(t, store.Set(ctx, usecase.KeyDocuments, []byte("[]"))).Required()

		uc := newRegister(store)
		result, err := uc.Load(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.RisksFromSeed).True()
		gt.Bool(t, result.DocumentsFromSeed).False()
		gt.Array(t, uc.Risks()).Length(5)
		gt.Array(t, uc.Documents()).Length(0)
	})

	t.Run("null falls back to seed", func(t *testing.T) {
		store := memory.New()
		gt.NoError(t, store.Set(ctx, usecase.KeyRisks, []byte("null"))).Required()
		gt.NoError(t, store.Set(ctx, usecase.KeyDocuments, []byte("[null]"))).Required()

		uc := newRegister(store)
		result, err := uc.Load(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.RisksFromSeed).True()
		gt.Bool(t, result.DocumentsFromSeed).True()
	})

	t.Run("stored level is recomputed", func(t *testing.T) {
		store := memory.New()
		data := `[{"id":"x1","code":"X","title":"Stale","category":"Operacional",
			"factorManagement":5,"factorRegulation":5,"factorFunctionality":5,"factorLGPD":5,"factorCustomer":5,
			"probability":5,"impact":1,"level":"Pequeno","unit":"Seguradora","owner":"o"}]`
		gt.NoError(t, store.Set(ctx, usecase.KeyRisks, []byte(data))).Required()

		uc := newRegister(store)
		_, err := uc.Load(ctx)
		gt.NoError(t, err).Required()

		r := findRisk(uc.Risks(), "x1")
		gt.Value(t, r).NotNil()
		gt.Value(t, r.Impact).Equal(5.0)
		gt.Value(t, r.Level).Equal(types.RiskLevelCritical)
	})

	t.Run("read error falls back to seed", func(t *testing.T) {
		store := newMockKVStore()
		store.getErr = errors.New("unavailable")

		uc := newRegister(store)
		result, err := uc.Load(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.RisksFromSeed).True()
		gt.Bool(t, result.DocumentsFromSeed).True()
	})

	t.Run("canceled context", func(t *testing.T) {
		store := newMockKVStore()
		store.getErr = context.Canceled

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		uc := newRegister(store)
		_, err := uc.Load(cctx)
		gt.Error(t, err).Is(context.Canceled)
	})
}

func TestRegisterUseCase_Reset(t *testing.T) {
	ctx := context.Background()
	uc := newRegister(memory.New())

	uc.RemoveRisk(ctx, "r1")
	uc.AddDocument(ctx)
	uc.Reset(ctx)

	gt.Array(t, uc.Risks()).Length(5)
	gt.Array(t, uc.Documents()).Length(7)
	gt.Value(t, uc.Risks()[0].ID).Equal(model.RiskID("r1"))
	gt.Bool(t, uc.State().Dirty).True()
}

func TestRegisterUseCase_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	uc := newRegister(memory.New())

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			uc.AddRisk(ctx)
		}()
		go func() {
			defer wg.Done()
			_ = uc.Persist(ctx)
		}()
	}
	wg.Wait()

	gt.Array(t, uc.Risks()).Length(25)
}
