package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/service/worker"
	"github.com/secmon-lab/themis/pkg/usecase"
)

// mockRegister is a mock implementation of worker.Register for testing
type mockRegister struct {
	mu         sync.Mutex
	dirty      bool
	persistErr error
	persisted  int
}

func (m *mockRegister) setDirty(dirty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = dirty
}

func (m *mockRegister) State() usecase.SaveStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return usecase.SaveStatus{Dirty: m.dirty, State: types.SaveStateIdle}
}

func (m *mockRegister) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persisted++
	if m.persistErr != nil {
		return m.persistErr
	}
	m.dirty = false
	return nil
}

func (m *mockRegister) persistCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persisted
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAutosaveWorker_SavesDirtyRegister(t *testing.T) {
	reg := &mockRegister{dirty: true}
	w := worker.NewAutosaveWorker(reg, 10*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	waitFor(t, func() bool { return reg.persistCount() >= 1 })

	// clean register is not persisted again
	time.Sleep(50 * time.Millisecond)
	gt.Value(t, reg.persistCount()).Equal(1)

	reg.setDirty(true)
	waitFor(t, func() bool { return reg.persistCount() >= 2 })

	w.Stop()
}

func TestAutosaveWorker_RetriesAfterFailure(t *testing.T) {
	reg := &mockRegister{dirty: true, persistErr: errors.New("unavailable")}
	w := worker.NewAutosaveWorker(reg, 10*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	waitFor(t, func() bool { return reg.persistCount() >= 3 })
	w.Stop()

	gt.Bool(t, reg.State().Dirty).True()
}

func TestAutosaveWorker_FinalSaveOnStop(t *testing.T) {
	reg := &mockRegister{}
	w := worker.NewAutosaveWorker(reg, time.Hour)

	gt.NoError(t, w.Start(context.Background())).Required()
	reg.setDirty(true)
	w.Stop()

	gt.Value(t, reg.persistCount()).Equal(1)
	gt.Bool(t, reg.State().Dirty).False()
}

func TestAutosaveWorker_WithRegisterUseCase(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := usecase.New(store)

	w := worker.NewAutosaveWorker(uc.Register, 10*time.Millisecond)
	gt.NoError(t, w.Start(ctx)).Required()

	uc.Register.AddRisk(ctx)
	waitFor(t, func() bool { return !uc.Register.State().Dirty })
	w.Stop()

	data, err := store.Get(ctx, usecase.KeyRisks)
	gt.NoError(t, err).Required()
	gt.Bool(t, len(data) > 0).True()
}
