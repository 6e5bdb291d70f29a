package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pdbStub = "HEADER    TEST\nATOM      1  N   VAL A   1"

func TestBuildWithHighlighting(t *testing.T) {
	plan := Build(pdbStub, Options{Highlight: true, Residues: []int{42, 63, 87}})

	assert.Equal(t, []string{OpClear, OpAddModel, OpSetStyle, OpAddStyle, OpAddStyle, OpZoomTo, OpRender}, plan.Ops())

	model := plan.Commands[1]
	assert.Equal(t, "pdb", model.Format)
	assert.Equal(t, pdbStub, model.Data)

	cartoon := plan.Commands[2]
	assert.Contains(t, cartoon.Style, "cartoon")

	stick := plan.Commands[3]
	sphere := plan.Commands[4]
	assert.Contains(t, stick.Style, "stick")
	assert.Contains(t, sphere.Style, "sphere")
	// Overlays are scoped to exactly the requested residue indices.
	assert.Equal(t, []int{42, 63, 87}, stick.Selection["resi"])
	assert.Equal(t, []int{42, 63, 87}, sphere.Selection["resi"])
}

func TestBuildHighlightDisabled(t *testing.T) {
	plan := Build(pdbStub, Options{Highlight: false, Residues: []int{42}})

	assert.Equal(t, []string{OpClear, OpAddModel, OpSetStyle, OpZoomTo, OpRender}, plan.Ops())
}

func TestBuildHighlightWithNoResidues(t *testing.T) {
	plan := Build(pdbStub, Options{Highlight: true})

	assert.Equal(t, []string{OpClear, OpAddModel, OpSetStyle, OpZoomTo, OpRender}, plan.Ops())
}

func TestBuildPlaceholderWithoutPayload(t *testing.T) {
	plan := Build("", Options{Highlight: true, Residues: []int{1, 2}})

	assert.Equal(t, []string{OpClear, OpAddSphere, OpZoomTo, OpRender}, plan.Ops())
	require.NotNil(t, plan.Commands[1].Shape)
	assert.Equal(t, "lightgrey", plan.Commands[1].Shape["color"])
}

func TestBuildAlwaysStartsWithClear(t *testing.T) {
	for _, payload := range []string{"", pdbStub} {
		plan := Build(payload, Options{})
		require.NotEmpty(t, plan.Commands)
		assert.Equal(t, OpClear, plan.Commands[0].Op)
	}
}
