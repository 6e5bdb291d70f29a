package design

import (
	"encoding/json"
	"log"
	"sort"
	"strings"
)

// Normalizer turns the oracle's free-form text into a Result. The oracle wraps
// its JSON in prose or code fences and renames keys between revisions, so all
// field resolution goes through the alias table.
type Normalizer struct {
	aliases *AliasTable
}

// NewNormalizer creates a normalizer with the given alias table.
// Pass nil to use the embedded default table.
func NewNormalizer(aliases *AliasTable) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliasTable()
	}
	return &Normalizer{aliases: aliases}
}

// Normalize parses and reconciles one oracle response.
func (n *Normalizer) Normalize(rawText string) (*Result, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyOracleResponse
	}

	candidate := extractJSONObject(rawText)
	if candidate == "" {
		candidate = stripCodeFences(rawText)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		log.Printf("❌ Failed to parse oracle JSON (%d chars): %v", len(candidate), err)
		return nil, &MalformedJSONError{Raw: candidate, Err: err}
	}

	result := &Result{
		Analysis:   NotProvided,
		Confidence: NotProvided,
	}

	if value, _, ok := n.aliases.Resolve(payload, FieldSequence); ok {
		result.Sequence = n.sequenceText(value)
	}
	if value, key, ok := n.aliases.Resolve(payload, FieldAnalysis); ok {
		if text := analysisText(value); text != "" {
			result.Analysis = text
			if key != FieldAnalysis {
				log.Printf("🔀 Oracle used alias %q for analysis", key)
			}
		}
	}
	if value, _, ok := n.aliases.Resolve(payload, FieldPDBID); ok {
		if text, ok := value.(string); ok {
			result.PDBID = strings.TrimSpace(text)
		}
	}
	if value, _, ok := n.aliases.Resolve(payload, FieldConfidence); ok {
		if text, ok := value.(string); ok && strings.TrimSpace(text) != "" {
			result.Confidence = strings.TrimSpace(text)
		}
	}
	if value, _, ok := n.aliases.Resolve(payload, FieldBindingAffinity); ok {
		result.BindingAffinity = numberOrNil(value)
	}
	if value, _, ok := n.aliases.Resolve(payload, FieldPredictedStability); ok {
		result.PredictedStability = numberOrNil(value)
	}
	if value, _, ok := n.aliases.Resolve(payload, FieldBindingPocket); ok {
		result.PocketResidues = residueIndices(value)
	}
	if value, _, ok := n.aliases.Resolve(payload, FieldValidationSteps); ok {
		result.ValidationSteps = stringList(value)
	}

	// Sequence and PDB ID are the only hard requirements. Everything else
	// degrades to sentinels instead of failing the whole call.
	if result.Sequence == "" {
		return nil, &IncompleteResultError{Missing: "sequence", Reason: n.failureReason(payload)}
	}
	if result.PDBID == "" {
		return nil, &IncompleteResultError{Missing: "pdb_id", Reason: n.failureReason(payload)}
	}

	return result, nil
}

// sequenceText coerces the resolved sequence value to text, unwrapping one
// level of nesting when the oracle wrapped it in an object.
func (n *Normalizer) sequenceText(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, key := range n.aliases.sequenceUnwrapKeys {
			if inner, ok := v[key].(string); ok {
				return strings.TrimSpace(inner)
			}
		}
	}
	return ""
}

// failureReason digs out whatever explanation the oracle gave for an
// incomplete result, preferring its analysis text over a bare error field.
func (n *Normalizer) failureReason(payload map[string]any) string {
	for _, field := range []string{FieldAnalysis, FieldError} {
		if value, _, ok := n.aliases.Resolve(payload, field); ok {
			if text := analysisText(value); text != "" {
				return text
			}
		}
	}
	return ""
}

// analysisText coerces an analysis value to text. Objects are flattened by
// concatenating their values with blank-line separation, in key order so the
// output is deterministic.
func analysisText(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var parts []string
		for _, key := range keys {
			if text, ok := v[key].(string); ok && strings.TrimSpace(text) != "" {
				parts = append(parts, strings.TrimSpace(text))
			}
		}
		return strings.Join(parts, "\n\n")
	}
	return ""
}

func numberOrNil(value any) *float64 {
	if f, ok := value.(float64); ok {
		return &f
	}
	return nil
}

// residueIndices keeps only integer-plausible entries from the oracle's
// pocket list. Fractional values are dropped rather than rounded.
func residueIndices(value any) []int {
	items, ok := value.([]any)
	if !ok {
		return nil
	}

	var indices []int
	for _, item := range items {
		f, ok := item.(float64)
		if !ok || f != float64(int(f)) {
			continue
		}
		indices = append(indices, int(f))
	}
	return indices
}

func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}

	var list []string
	for _, item := range items {
		if text, ok := item.(string); ok && strings.TrimSpace(text) != "" {
			list = append(list, strings.TrimSpace(text))
		}
	}
	return list
}

// extractJSONObject returns the first balanced {...} span in text, respecting
// string literals and escapes, or "" when no balanced object exists.
func extractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// stripCodeFences removes markdown fences the way the oracle tends to emit
// them, as a fallback when no balanced object was found.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
