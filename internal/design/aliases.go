package design

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Logical field names used by the normalizer. These are stable; the oracle's
// key names for them are not, so the mapping lives in aliases.yaml.
const (
	FieldSequence           = "sequence"
	FieldAnalysis           = "analysis"
	FieldBindingAffinity    = "binding_affinity"
	FieldPredictedStability = "predicted_stability"
	FieldBindingPocket      = "binding_pocket"
	FieldPDBID              = "pdb_id"
	FieldConfidence         = "confidence"
	FieldValidationSteps    = "validation_steps"
	FieldError              = "error"
)

//go:embed aliases.yaml
var aliasesYAML []byte

// AliasTable maps each logical field to an ordered list of candidate keys.
// Resolution takes the first present, non-null candidate.
type AliasTable struct {
	fields             map[string][]string
	sequenceUnwrapKeys []string
}

type aliasFile struct {
	Fields []struct {
		Field string   `yaml:"field"`
		Keys  []string `yaml:"keys"`
	} `yaml:"fields"`
	SequenceUnwrapKeys []string `yaml:"sequence_unwrap_keys"`
}

// LoadAliasTable parses an alias table from YAML.
func LoadAliasTable(data []byte) (*AliasTable, error) {
	var file aliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse alias table: %w", err)
	}

	table := &AliasTable{
		fields:             make(map[string][]string, len(file.Fields)),
		sequenceUnwrapKeys: file.SequenceUnwrapKeys,
	}
	for _, f := range file.Fields {
		if f.Field == "" || len(f.Keys) == 0 {
			return nil, fmt.Errorf("alias table entry missing field name or keys")
		}
		table.fields[f.Field] = f.Keys
	}

	return table, nil
}

// DefaultAliasTable returns the table embedded at build time.
// The embedded YAML is validated by tests, so parse failure is a programmer error.
func DefaultAliasTable() *AliasTable {
	table, err := LoadAliasTable(aliasesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded alias table is invalid: %v", err))
	}
	return table
}

// Keys returns the ordered candidate keys for a logical field.
func (t *AliasTable) Keys(field string) []string {
	return t.fields[field]
}

// Resolve returns the first present, non-null value among the field's
// candidate keys, along with the key that matched.
func (t *AliasTable) Resolve(payload map[string]any, field string) (any, string, bool) {
	for _, key := range t.fields[field] {
		if value, ok := payload[key]; ok && value != nil {
			return value, key, true
		}
	}
	return nil, "", false
}
