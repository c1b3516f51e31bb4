package slicer

import (
	"encoding/json"
	"strings"

	"github.com/avollmer/sceneslice/internal/errors"
	"github.com/avollmer/sceneslice/internal/models"
)

// SliceOffset is added to the resolved floor height so the slice plane
// never coincides exactly with an object's lower face. Without it, an
// object resting on the floor would sit on the interval boundary and
// inclusion would depend on float comparison luck.
const SliceOffset = 0.05

// FloorType marks floor objects; comparison is case-insensitive.
const FloorType = "floor"

// ResolveHeight computes the slice height for a set of scene objects.
// Two minima are tracked in one pass over the objects: the lowest bottom
// face overall, and the lowest bottom face among floor-typed objects.
// The floor-restricted minimum wins whenever at least one floor object
// exists. Returns ErrNoObjects when there is nothing to slice.
func ResolveHeight(objects []models.SceneObject) (float64, error) {
	if len(objects) == 0 {
		return 0, errors.NewSliceError("scene contains no objects", errors.ErrNoObjects)
	}

	var (
		globalMin float64
		floorMin  float64
		hasFloor  bool
	)
	for i, obj := range objects {
		bottom := obj.Bottom()
		if i == 0 || bottom < globalMin {
			globalMin = bottom
		}
		if strings.EqualFold(obj.Type, FloorType) {
			if !hasFloor || bottom < floorMin {
				floorMin = bottom
				hasFloor = true
			}
		}
	}

	resolved := globalMin
	if hasFloor {
		resolved = floorMin
	}
	return resolved + SliceOffset, nil
}

// FilterAtHeight keeps the objects whose closed vertical interval
// contains the slice height. An object with zero height collapses to the
// single point Position.Y. Output order matches input order, and the
// result is always a subset of the input.
func FilterAtHeight(objects []models.SceneObject, height float64) []models.SceneObject {
	kept := make([]models.SceneObject, 0, len(objects))
	for _, obj := range objects {
		if obj.Bottom() <= height && height <= obj.Top() {
			kept = append(kept, obj)
		}
	}
	return kept
}

// BuildDocument resolves the slice height for the extracted objects,
// filters them against it, and assembles the slice document.
func BuildDocument(objects []models.SceneObject) (models.SliceDocument, error) {
	height, err := ResolveHeight(objects)
	if err != nil {
		return models.SliceDocument{}, err
	}

	filtered := FilterAtHeight(objects, height)
	doc := models.SliceDocument{
		SliceHeight: height,
		Objects:     make([]models.SliceObject, 0, len(filtered)),
	}
	for _, obj := range filtered {
		doc.Objects = append(doc.Objects, models.SliceObject{
			ObjectID:   obj.ID,
			ObjectType: obj.Type,
			Position:   obj.Position,
			Dimensions: models.Extent{
				Width:  obj.Dimensions.X,
				Height: obj.Dimensions.Y,
				Depth:  obj.Dimensions.Z,
			},
			Specification: obj.Description,
		})
	}
	return doc, nil
}

// EncodeDocument marshals a slice document to its wire form.
func EncodeDocument(doc models.SliceDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.NewOutputError("failed to encode slice document", err)
	}
	return append(data, '\n'), nil
}
