package extractor

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"

	"github.com/avollmer/sceneslice/internal/models"
)

// Field aliases observed across producing tools. Keys are folded to
// snake_case before matching, so "objectType", "object_type" and
// "OBJECTTYPE" all resolve the same way.
var (
	positionAliases    = []string{"position", "pos"}
	dimensionAliases   = []string{"dimensions", "size", "scale"} // fixed priority order
	typeAliases        = []string{"object_type", "type"}
	idAliases          = []string{"object_id", "id"}
	descriptionAliases = []string{"specification", "description"}
)

// UnknownType is assigned to scene objects without a type field.
const UnknownType = "unknown"

// Extractor walks a parsed scene document and collects typed scene
// objects. It carries no state beyond the id generator, which tests
// replace with a deterministic one.
type Extractor struct {
	newID func() string
}

// NewExtractor creates an Extractor with uuid-backed id generation.
func NewExtractor() *Extractor {
	return &Extractor{
		newID: func() string { return "obj_" + uuid.NewString() },
	}
}

// Extract visits every array and object node of the tree in document
// order and returns all nodes that qualify as scene objects. A node
// qualifies iff it carries a position-like member with numeric x/y/z.
// Nodes without a valid position are skipped silently; that is the
// documented filtering behaviour, not an error.
func (e *Extractor) Extract(root *models.Value) []models.SceneObject {
	var objects []models.SceneObject
	e.visit(root, &objects)
	return objects
}

func (e *Extractor) visit(node *models.Value, out *[]models.SceneObject) {
	if node == nil {
		return
	}
	switch node.Kind {
	case models.Object:
		if obj, ok := e.sceneObject(node); ok {
			*out = append(*out, obj)
		}
		for _, m := range node.Members {
			e.visit(m.Value, out)
		}
	case models.Array:
		for _, item := range node.Items {
			e.visit(item, out)
		}
	}
}

// sceneObject attempts to interpret an object node as a scene object.
func (e *Extractor) sceneObject(node *models.Value) (models.SceneObject, bool) {
	posNode, ok := lookupAlias(node, positionAliases)
	if !ok {
		return models.SceneObject{}, false
	}
	pos, ok := strictVec3(posNode)
	if !ok {
		return models.SceneObject{}, false
	}

	obj := models.SceneObject{
		ID:          e.resolveID(node),
		Type:        resolveString(node, typeAliases, UnknownType),
		Position:    pos,
		Dimensions:  resolveDimensions(node),
		Description: resolveString(node, descriptionAliases, ""),
	}
	return obj, true
}

func (e *Extractor) resolveID(node *models.Value) string {
	v, ok := lookupAlias(node, idAliases)
	if !ok {
		return e.newID()
	}
	switch v.Kind {
	case models.String:
		if v.Str != "" {
			return v.Str
		}
	case models.Number:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
	return e.newID()
}

func resolveString(node *models.Value, aliases []string, fallback string) string {
	if v, ok := lookupAlias(node, aliases); ok && v.Kind == models.String && v.Str != "" {
		return v.Str
	}
	return fallback
}

// resolveDimensions tries the dimension sources in fixed priority order
// and takes the first candidate that yields a non-zero vector. Candidates
// are never merged; a partially populated higher-priority source wins
// over a complete lower-priority one.
func resolveDimensions(node *models.Value) models.Vec3 {
	for _, alias := range dimensionAliases {
		v, ok := lookupAlias(node, []string{alias})
		if !ok {
			continue
		}
		dim, ok := lenientVec3(v)
		if !ok {
			continue
		}
		dim = dim.Clamped()
		if !dim.IsZero() {
			return dim
		}
	}
	return models.Vec3{}
}

// strictVec3 requires all three numeric components. Positions without a
// full coordinate triple disqualify the node.
func strictVec3(v *models.Value) (models.Vec3, bool) {
	if v == nil || v.Kind != models.Object {
		return models.Vec3{}, false
	}
	x, okX := numberMember(v, "x")
	y, okY := numberMember(v, "y")
	z, okZ := numberMember(v, "z")
	if !okX || !okY || !okZ {
		return models.Vec3{}, false
	}
	return models.Vec3{X: x, Y: y, Z: z}, true
}

// lenientVec3 accepts partial component sets, defaulting the rest to
// zero. Extent objects show up both as x/y/z and as width/height/depth.
func lenientVec3(v *models.Value) (models.Vec3, bool) {
	if v == nil || v.Kind != models.Object {
		return models.Vec3{}, false
	}
	x, okX := numberMember(v, "x")
	y, okY := numberMember(v, "y")
	z, okZ := numberMember(v, "z")
	if okX || okY || okZ {
		return models.Vec3{X: x, Y: y, Z: z}, true
	}
	w, okW := numberMember(v, "width")
	h, okH := numberMember(v, "height")
	d, okD := numberMember(v, "depth")
	if okW || okH || okD {
		return models.Vec3{X: w, Y: h, Z: d}, true
	}
	return models.Vec3{}, false
}

func numberMember(obj *models.Value, key string) (float64, bool) {
	v, ok := obj.GetFold(key)
	if !ok || v.Kind != models.Number {
		return 0, false
	}
	return v.Num, true
}

// lookupAlias resolves a field through its alias list. Aliases are tried
// in list order, so "objectType" beats "type" even when both are present.
func lookupAlias(obj *models.Value, aliases []string) (*models.Value, bool) {
	for _, alias := range aliases {
		for _, m := range obj.Members {
			if foldKey(m.Key) == alias {
				return m.Value, true
			}
		}
	}
	return nil, false
}

func foldKey(key string) string {
	return strings.ToLower(strcase.ToSnake(key))
}
