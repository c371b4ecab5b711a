package types

// ImpactLabel is the qualitative label of a rounded impact value
type ImpactLabel string

const (
	ImpactInsignificant ImpactLabel = "Insignificante"
	ImpactSmall         ImpactLabel = "Pequeno"
	ImpactModerate      ImpactLabel = "Moderado"
	ImpactLarge         ImpactLabel = "Grande"
	ImpactCatastrophic  ImpactLabel = "Catastrófico"

	// ImpactUnknown is used when the rounded impact falls outside 1..5
	ImpactUnknown ImpactLabel = "-"
)

// AllImpactLabels returns the labels for impact 1 to 5
func AllImpactLabels() []ImpactLabel {
	return []ImpactLabel{
		ImpactInsignificant,
		ImpactSmall,
		ImpactModerate,
		ImpactLarge,
		ImpactCatastrophic,
	}
}

func (l ImpactLabel) IsValid() bool {
	switch l {
	case ImpactInsignificant,
		ImpactSmall,
		ImpactModerate,
		ImpactLarge,
		ImpactCatastrophic,
		ImpactUnknown:
		return true
	default:
		return false
	}
}

func (l ImpactLabel) String() string {
	return string(l)
}
