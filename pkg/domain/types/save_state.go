package types

// SaveState is the persistence status shown next to the save action
type SaveState string

const (
	SaveStateIdle   SaveState = "idle"
	SaveStateSaving SaveState = "saving"
	SaveStateSaved  SaveState = "saved"
)

func (s SaveState) IsValid() bool {
	switch s {
	case SaveStateIdle, SaveStateSaving, SaveStateSaved:
		return true
	default:
		return false
	}
}

func (s SaveState) String() string {
	return string(s)
}
