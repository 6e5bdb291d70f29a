// Package prompt builds the instruction documents sent to the design oracle.
package prompt

import (
	"fmt"
	"strings"
)

// Document is one complete oracle instruction: a system prompt fixing the
// oracle's role and output contract, plus the user prompt for this call.
type Document struct {
	SystemPrompt string
	UserPrompt   string
}

// Builder constructs generate and evolve instruction documents. Pure; no
// network or state side effects.
type Builder struct{}

// NewBuilder creates a prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

const systemPrompt = `You are an expert protein engineer. Given a functional goal you design a
candidate protein and report on it.

For every request you must:
1. Analyze the requested function and the design constraints it implies.
2. Produce a single-letter amino-acid sequence of roughly 80-150 residues.
3. Estimate a simulated binding affinity in kcal/mol (negative is stronger).
4. Score the predicted fold stability between 0 and 1.
5. List the residue indices (1-based) forming the likely binding pocket.
6. Pick a REAL, existing PDB entry whose fold best matches the design, for
   use as a visualization template.
7. Give a qualitative confidence label: low, medium, or high.
8. Suggest concrete wet-lab validation steps.

Respond with a single JSON object and nothing else - no prose, no markdown
fences. Use exactly these keys:

{
  "analysis": string,
  "sequence": string,
  "binding_affinity": number,
  "predicted_stability": number,
  "binding_pocket_residues": [integer, ...],
  "pdb_id": string,
  "confidence": string,
  "validation_steps": [string, ...]
}`

// BuildGenerate builds the instruction document for a fresh design from a
// natural-language functional description.
func (b *Builder) BuildGenerate(description string) *Document {
	user := fmt.Sprintf(`Design a protein with the following function:

%s

Remember: respond with the single JSON object only.`, strings.TrimSpace(description))

	return &Document{
		SystemPrompt: systemPrompt,
		UserPrompt:   user,
	}
}

// BuildEvolve builds the instruction document for refining a previously
// generated sequence according to user feedback.
func (b *Builder) BuildEvolve(priorSequence, feedback string) *Document {
	user := fmt.Sprintf(`Evolve the following protein sequence. Keep what works, change what the
feedback asks for, and re-run the full analysis on the evolved variant.

Current sequence:
%s

Feedback:
%s

Remember: respond with the single JSON object only.`,
		strings.TrimSpace(priorSequence), strings.TrimSpace(feedback))

	return &Document{
		SystemPrompt: systemPrompt,
		UserPrompt:   user,
	}
}
