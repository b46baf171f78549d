package ai

// Classification captures the structured output from the model.
type Classification struct {
	// Material is the suggested category (e.g. "plastic", "glass", "appliance").
	Material string `json:"material"`

	// Regulated indicates the model believes the item needs the handling
	// disclaimer. The caller re-derives this from the authoritative set.
	Regulated bool `json:"regulated"`

	// Confidence is the model's self-reported certainty in [0,1].
	Confidence float64 `json:"confidence"`

	// Note is a short human-readable hint about preparation (rinsing,
	// disassembly, battery removal).
	Note string `json:"note,omitempty"`
}
