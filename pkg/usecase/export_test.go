package usecase

import "time"

// SavedStateDuration is exported for testing
const SavedStateDuration = savedStateDuration

// SetSavedAt is exported for testing
func (uc *RegisterUseCase) SetSavedAt(t time.Time) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.savedAt = t
}
