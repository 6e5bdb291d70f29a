package analysis

import (
	"fmt"
	"strings"
)

// kyteDoolittle holds the Kyte-Doolittle hydropathy index per residue.
var kyteDoolittle = map[byte]float64{
	'A': 1.8, 'R': -4.5, 'N': -3.5, 'D': -3.5, 'C': 2.5,
	'Q': -3.5, 'E': -3.5, 'G': -0.4, 'H': -3.2, 'I': 4.5,
	'L': 3.8, 'K': -3.9, 'M': 1.9, 'F': 2.8, 'P': -1.6,
	'S': -0.8, 'T': -0.7, 'W': -0.9, 'Y': -1.3, 'V': 4.2,
}

// residueMass holds average residue masses in Daltons (amino acid minus water).
var residueMass = map[byte]float64{
	'A': 71.0788, 'R': 156.1875, 'N': 114.1038, 'D': 115.0886, 'C': 103.1388,
	'Q': 128.1307, 'E': 129.1155, 'G': 57.0519, 'H': 137.1411, 'I': 113.1594,
	'L': 113.1594, 'K': 128.1741, 'M': 131.1926, 'F': 147.1766, 'P': 97.1167,
	'S': 87.0782, 'T': 101.1051, 'W': 186.2132, 'Y': 163.1760, 'V': 99.1326,
}

const waterMass = 18.01528

// DefaultWindow is the sliding-window width for hydropathy profiles.
// Nine residues is the classic Kyte-Doolittle choice for globular proteins.
const DefaultWindow = 9

// Profile summarizes a designed sequence for the review panel.
type Profile struct {
	Sequence        string         `json:"sequence"`
	Length          int            `json:"length"`
	Composition     map[string]int `json:"composition"`
	MolecularWeight float64        `json:"molecular_weight_da"`
	GRAVY           float64        `json:"gravy"`
	Hydropathy      []float64      `json:"hydropathy"`
	Window          int            `json:"window"`
}

// Analyze validates a sequence and computes its composition, approximate
// molecular weight, GRAVY score and windowed hydropathy profile.
func Analyze(sequence string) (*Profile, error) {
	sequence = strings.ToUpper(strings.TrimSpace(sequence))
	if sequence == "" {
		return nil, fmt.Errorf("sequence is empty")
	}

	composition := make(map[string]int)
	mass := waterMass
	total := 0.0
	for i := 0; i < len(sequence); i++ {
		r := sequence[i]
		m, ok := residueMass[r]
		if !ok {
			return nil, fmt.Errorf("invalid residue %q at position %d", string(r), i+1)
		}
		composition[string(r)]++
		mass += m
		total += kyteDoolittle[r]
	}

	window := DefaultWindow
	if len(sequence) < window {
		window = len(sequence)
	}

	return &Profile{
		Sequence:        sequence,
		Length:          len(sequence),
		Composition:     composition,
		MolecularWeight: mass,
		GRAVY:           total / float64(len(sequence)),
		Hydropathy:      hydropathyWindows(sequence, window),
		Window:          window,
	}, nil
}

// hydropathyWindows returns the mean hydropathy of each full window,
// one value per window start position.
func hydropathyWindows(sequence string, window int) []float64 {
	if window < 1 || len(sequence) < window {
		return nil
	}

	values := make([]float64, 0, len(sequence)-window+1)
	sum := 0.0
	for i := 0; i < len(sequence); i++ {
		sum += kyteDoolittle[sequence[i]]
		if i >= window {
			sum -= kyteDoolittle[sequence[i-window]]
		}
		if i >= window-1 {
			values = append(values, sum/float64(window))
		}
	}
	return values
}
