package extractor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avollmer/sceneslice/internal/models"
	"github.com/avollmer/sceneslice/internal/parser"
)

// testExtractor returns an Extractor with deterministic id generation.
func testExtractor() *Extractor {
	n := 0
	return &Extractor{
		newID: func() string {
			n++
			return fmt.Sprintf("gen_%d", n)
		},
	}
}

func mustParse(t *testing.T, input string) *models.Value {
	t.Helper()
	v, err := parser.ParseString(input)
	require.NoError(t, err)
	return v
}

func TestExtract_TypicalSceneDocument(t *testing.T) {
	doc := mustParse(t, `{
		"scene": {
			"objects": [
				{
					"objectId": "floor_1",
					"objectType": "floor",
					"position": {"x": 0, "y": 0, "z": 0},
					"dimensions": {"x": 10, "y": 0.2, "z": 8},
					"specification": "concrete floor"
				},
				{
					"id": "lamp_1",
					"type": "lamp",
					"position": {"x": 2, "y": 1.0, "z": 3},
					"size": {"x": 0.3, "y": 0.4, "z": 0.3},
					"description": "desk lamp"
				}
			]
		}
	}`)

	objects := testExtractor().Extract(doc)
	require.Len(t, objects, 2)

	floor := objects[0]
	assert.Equal(t, "floor_1", floor.ID)
	assert.Equal(t, "floor", floor.Type)
	assert.Equal(t, models.Vec3{X: 0, Y: 0, Z: 0}, floor.Position)
	assert.Equal(t, models.Vec3{X: 10, Y: 0.2, Z: 8}, floor.Dimensions)
	assert.Equal(t, "concrete floor", floor.Description)

	lamp := objects[1]
	assert.Equal(t, "lamp_1", lamp.ID)
	assert.Equal(t, "lamp", lamp.Type)
	assert.Equal(t, models.Vec3{X: 0.3, Y: 0.4, Z: 0.3}, lamp.Dimensions)
	assert.Equal(t, "desk lamp", lamp.Description)
}

func TestExtract_KeyCasingVariants(t *testing.T) {
	doc := mustParse(t, `[
		{"Position": {"X": 1, "Y": 2, "Z": 3}},
		{"POSITION": {"x": 4, "y": 5, "z": 6}},
		{"object_type": "chair", "position": {"x": 0, "y": 0, "z": 0}}
	]`)

	objects := testExtractor().Extract(doc)
	require.Len(t, objects, 3)
	assert.Equal(t, models.Vec3{X: 1, Y: 2, Z: 3}, objects[0].Position)
	assert.Equal(t, models.Vec3{X: 4, Y: 5, Z: 6}, objects[1].Position)
	assert.Equal(t, "chair", objects[2].Type)
}

func TestExtract_MissingPositionSkipped(t *testing.T) {
	doc := mustParse(t, `{
		"objects": [
			{"type": "ghost", "dimensions": {"x": 1, "y": 1, "z": 1}},
			{"type": "real", "position": {"x": 1, "y": 1, "z": 1}},
			{"type": "partial", "position": {"x": 1, "y": 1}},
			{"type": "textual", "position": {"x": "1", "y": 2, "z": 3}}
		]
	}`)

	objects := testExtractor().Extract(doc)
	require.Len(t, objects, 1, "only the object with a full numeric position qualifies")
	assert.Equal(t, "real", objects[0].Type)
}

func TestExtract_DimensionSourcePriority(t *testing.T) {
	// First non-zero source wins; candidates are never merged.
	testCases := []struct {
		name string
		json string
		want models.Vec3
	}{
		{
			name: "dimensions beats size",
			json: `{"position": {"x":0,"y":0,"z":0}, "dimensions": {"x":1,"y":2,"z":3}, "size": {"x":9,"y":9,"z":9}}`,
			want: models.Vec3{X: 1, Y: 2, Z: 3},
		},
		{
			name: "zero dimensions falls through to size",
			json: `{"position": {"x":0,"y":0,"z":0}, "dimensions": {"x":0,"y":0,"z":0}, "size": {"x":4,"y":5,"z":6}}`,
			want: models.Vec3{X: 4, Y: 5, Z: 6},
		},
		{
			name: "scale is the last resort",
			json: `{"position": {"x":0,"y":0,"z":0}, "scale": {"x":2,"y":2,"z":2}}`,
			want: models.Vec3{X: 2, Y: 2, Z: 2},
		},
		{
			name: "partial dimensions still beats full size",
			json: `{"position": {"x":0,"y":0,"z":0}, "dimensions": {"x":1}, "size": {"x":7,"y":8,"z":9}}`,
			want: models.Vec3{X: 1, Y: 0, Z: 0},
		},
		{
			name: "width height depth accepted",
			json: `{"position": {"x":0,"y":0,"z":0}, "dimensions": {"width":2,"height":3,"depth":4}}`,
			want: models.Vec3{X: 2, Y: 3, Z: 4},
		},
		{
			name: "no source yields zero vector",
			json: `{"position": {"x":0,"y":0,"z":0}}`,
			want: models.Vec3{},
		},
		{
			name: "negative components clamped",
			json: `{"position": {"x":0,"y":0,"z":0}, "dimensions": {"x":-1,"y":2,"z":3}}`,
			want: models.Vec3{X: 0, Y: 2, Z: 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			objects := testExtractor().Extract(mustParse(t, tc.json))
			require.Len(t, objects, 1)
			assert.Equal(t, tc.want, objects[0].Dimensions)
		})
	}
}

func TestExtract_GeneratedDefaults(t *testing.T) {
	doc := mustParse(t, `[
		{"position": {"x": 1, "y": 2, "z": 3}},
		{"position": {"x": 4, "y": 5, "z": 6}}
	]`)

	objects := testExtractor().Extract(doc)
	require.Len(t, objects, 2)

	assert.Equal(t, "gen_1", objects[0].ID)
	assert.Equal(t, "gen_2", objects[1].ID)
	assert.NotEqual(t, objects[0].ID, objects[1].ID, "generated ids must be unique")
	assert.Equal(t, UnknownType, objects[0].Type)
	assert.Empty(t, objects[0].Description)
	assert.True(t, objects[0].Dimensions.IsZero())
}

func TestExtract_UUIDGeneration(t *testing.T) {
	doc := mustParse(t, `{"position": {"x": 0, "y": 0, "z": 0}}`)
	objects := NewExtractor().Extract(doc)
	require.Len(t, objects, 1)
	assert.Regexp(t, `^obj_[0-9a-f-]{36}$`, objects[0].ID)
}

func TestExtract_NumericID(t *testing.T) {
	doc := mustParse(t, `{"objectId": 42, "position": {"x": 0, "y": 0, "z": 0}}`)
	objects := testExtractor().Extract(doc)
	require.Len(t, objects, 1)
	assert.Equal(t, "42", objects[0].ID)
}

func TestExtract_NestedObjectsFound(t *testing.T) {
	// The walk visits every array and object node, so scene objects are
	// found regardless of where the producing tool nested them.
	doc := mustParse(t, `{
		"meta": {"version": 2},
		"rooms": [
			{"contents": {"items": [{"id": "deep", "position": {"x": 1, "y": 1, "z": 1}}]}}
		]
	}`)

	objects := testExtractor().Extract(doc)
	require.Len(t, objects, 1)
	assert.Equal(t, "deep", objects[0].ID)
}

func TestExtract_OrderFollowsDocument(t *testing.T) {
	doc := mustParse(t, `[
		{"id": "first", "position": {"x": 0, "y": 0, "z": 0}},
		{"id": "second", "position": {"x": 0, "y": 0, "z": 0}},
		{"id": "third", "position": {"x": 0, "y": 0, "z": 0}}
	]`)

	objects := testExtractor().Extract(doc)
	require.Len(t, objects, 3)
	assert.Equal(t, "first", objects[0].ID)
	assert.Equal(t, "second", objects[1].ID)
	assert.Equal(t, "third", objects[2].ID)
}

func TestExtract_EmptyAndScalarDocuments(t *testing.T) {
	for _, input := range []string{`{}`, `[]`, `"text"`, `42`, `null`} {
		objects := testExtractor().Extract(mustParse(t, input))
		assert.Empty(t, objects, "input %q should extract nothing", input)
	}
}
