package usecase

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

type UseCases struct {
	store    interfaces.KVStore
	seed     *model.Seed
	narrator interfaces.Narrator
	notifier interfaces.Notifier
	now      func() time.Time

	Register  *RegisterUseCase
	Dashboard *DashboardUseCase
	Analysis  *AnalysisUseCase
	Export    *ExportUseCase
}

type Option func(*UseCases)

func WithNarrator(narrator interfaces.Narrator) Option {
	return func(uc *UseCases) {
		uc.narrator = narrator
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

// WithSeed replaces the built-in dataset used on first start, on load fallback and on reset
func WithSeed(seed *model.Seed) Option {
	return func(uc *UseCases) {
		uc.seed = seed
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(store interfaces.KVStore, opts ...Option) *UseCases {
	uc := &UseCases{
		store: store,
		seed:  model.DefaultSeed(),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Register = NewRegisterUseCase(store, uc.seed, uc.now)
	uc.Dashboard = NewDashboardUseCase(uc.Register)
	uc.Analysis = NewAnalysisUseCase(uc.Register, uc.narrator, uc.notifier, uc.now)
	uc.Export = NewExportUseCase(uc.Dashboard, uc.Analysis, uc.now)

	return uc
}
