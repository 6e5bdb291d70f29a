// Package viewer projects structure payloads into render plans for the
// browser's 3D engine. The engine itself (3Dmol) is an external collaborator;
// this package only decides what it should be told to draw.
package viewer

// Op names map onto the scene-construction calls the web client executes.
const (
	OpClear     = "clear"
	OpAddModel  = "addModel"
	OpSetStyle  = "setStyle"
	OpAddStyle  = "addStyle"
	OpAddSphere = "addSphere"
	OpZoomTo    = "zoomTo"
	OpRender    = "render"
)

// Command is one scene-construction call.
type Command struct {
	Op        string         `json:"op"`
	Format    string         `json:"format,omitempty"`    // model format tag, e.g. "pdb"
	Data      string         `json:"data,omitempty"`      // model text for addModel
	Selection map[string]any `json:"selection,omitempty"` // atom selection for style ops
	Style     map[string]any `json:"style,omitempty"`
	Shape     map[string]any `json:"shape,omitempty"` // primitive parameters for addSphere
}

// Plan is a full scene rebuild. Plans always start with a clear; the scene is
// rebuilt wholesale on every new payload, never patched incrementally.
type Plan struct {
	Commands []Command `json:"commands"`
}

// Options controls optional residue emphasis.
type Options struct {
	Highlight bool
	Residues  []int // 1-based residue indices to emphasize
}

// Build produces the plan for one payload. An empty payload yields the
// neutral placeholder scene.
func Build(payload string, opts Options) *Plan {
	plan := &Plan{}
	plan.add(Command{Op: OpClear})

	if payload == "" {
		plan.add(Command{
			Op: OpAddSphere,
			Shape: map[string]any{
				"center": map[string]any{"x": 0, "y": 0, "z": 0},
				"radius": 10.0,
				"color":  "lightgrey",
			},
		})
		plan.add(Command{Op: OpZoomTo})
		plan.add(Command{Op: OpRender})
		return plan
	}

	plan.add(Command{Op: OpAddModel, Format: "pdb", Data: payload})
	plan.add(Command{
		Op:    OpSetStyle,
		Style: map[string]any{"cartoon": map[string]any{"color": "spectrum"}},
	})

	if opts.Highlight && len(opts.Residues) > 0 {
		selection := map[string]any{"resi": opts.Residues}
		plan.add(Command{
			Op:        OpAddStyle,
			Selection: selection,
			Style:     map[string]any{"stick": map[string]any{"radius": 0.2}},
		})
		plan.add(Command{
			Op:        OpAddStyle,
			Selection: selection,
			Style:     map[string]any{"sphere": map[string]any{"scale": 0.3}},
		})
	}

	plan.add(Command{Op: OpZoomTo})
	plan.add(Command{Op: OpRender})
	return plan
}

func (p *Plan) add(cmd Command) {
	p.Commands = append(p.Commands, cmd)
}

// Ops returns the plan's operation names in order; handy for assertions.
func (p *Plan) Ops() []string {
	ops := make([]string, len(p.Commands))
	for i, cmd := range p.Commands {
		ops[i] = cmd.Op
	}
	return ops
}
