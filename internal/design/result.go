package design

import "strings"

// NotProvided is the sentinel shown for optional fields the oracle omitted.
const NotProvided = "not provided"

// Result is the normalized output of one generate/evolve call.
// Only Sequence and PDBID are guaranteed after normalization; everything else
// is best-effort because the oracle's output schema is not enforced upstream.
type Result struct {
	Sequence           string   `json:"sequence"`
	Analysis           string   `json:"analysis"`
	BindingAffinity    *float64 `json:"binding_affinity,omitempty"`
	PredictedStability *float64 `json:"predicted_stability,omitempty"`
	PocketResidues     []int    `json:"binding_pocket_residues,omitempty"`
	PDBID              string   `json:"pdb_id"`
	Confidence         string   `json:"confidence"`
	ValidationSteps    []string `json:"validation_steps,omitempty"`
}

// HasPocket reports whether the oracle identified any binding-pocket residues.
func (r *Result) HasPocket() bool {
	return len(r.PocketResidues) > 0
}

// SequenceLength returns the residue count of the designed sequence.
func (r *Result) SequenceLength() int {
	return len(strings.TrimSpace(r.Sequence))
}
