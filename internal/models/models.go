package models

import "math"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns a human-readable name for the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

// Member is a single key/value pair inside an object. The key keeps the
// casing the document used; lookup is case-insensitive on top of it.
type Member struct {
	Key   string
	Value *Value
}

// Value is a tagged union over the JSON value space. Exactly one of the
// payload fields is meaningful, selected by Kind. Scene documents are
// schema-less, so every downstream stage works on this tree rather than
// on decoded structs.
type Value struct {
	Kind    Kind
	Boolean bool
	Num     float64
	Str     string
	Items   []*Value
	Members []Member
}

// NewNull returns a null value.
func NewNull() *Value { return &Value{Kind: Null} }

// NewBool returns a boolean value.
func NewBool(b bool) *Value { return &Value{Kind: Bool, Boolean: b} }

// NewNumber returns a numeric value.
func NewNumber(n float64) *Value { return &Value{Kind: Number, Num: n} }

// NewString returns a string value.
func NewString(s string) *Value { return &Value{Kind: String, Str: s} }

// NewArray returns an array value over the given items.
func NewArray(items ...*Value) *Value { return &Value{Kind: Array, Items: items} }

// NewObject returns an empty object value.
func NewObject() *Value { return &Value{Kind: Object} }

// Set appends a member, or replaces the value of an existing member whose
// key matches exactly. The original insertion position is kept on replace.
func (v *Value) Set(key string, val *Value) {
	for i := range v.Members {
		if v.Members[i].Key == key {
			v.Members[i].Value = val
			return
		}
	}
	v.Members = append(v.Members, Member{Key: key, Value: val})
}

// Get returns the member value for an exact key match.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	for i := range v.Members {
		if v.Members[i].Key == key {
			return v.Members[i].Value, true
		}
	}
	return nil, false
}

// GetFold returns the first member whose key matches case-insensitively.
// Scene documents vary key casing across producing tools; the parser keeps
// the original casing and lookup folds instead.
func (v *Value) GetFold(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	for i := range v.Members {
		if equalFold(v.Members[i].Key, key) {
			return v.Members[i].Value, true
		}
	}
	return nil, false
}

// equalFold is an ASCII-only case-insensitive comparison. Keys in scene
// documents are ASCII identifiers.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Equal reports deep equality of two value trees. Object member order and
// key casing are significant, matching what the parser produced.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Null:
		return true
	case Bool:
		return v.Boolean == o.Boolean
	case Number:
		return v.Num == o.Num
	case String:
		return v.Str == o.Str
	case Array:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.Members) != len(o.Members) {
			return false
		}
		for i := range v.Members {
			if v.Members[i].Key != o.Members[i].Key || !v.Members[i].Value.Equal(o.Members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Vec3 is a point or extent in world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Clamped returns the vector with negative components replaced by zero.
// Object extents are never negative.
func (v Vec3) Clamped() Vec3 {
	return Vec3{X: math.Max(v.X, 0), Y: math.Max(v.Y, 0), Z: math.Max(v.Z, 0)}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// SceneObject is one extracted object from a scene document.
type SceneObject struct {
	ID          string
	Type        string
	Position    Vec3
	Dimensions  Vec3
	Description string
}

// Bottom returns the world height of the object's lower face.
func (s SceneObject) Bottom() float64 {
	return s.Position.Y - s.Dimensions.Y/2
}

// Top returns the world height of the object's upper face. An object with
// zero height collapses to the single point Position.Y.
func (s SceneObject) Top() float64 {
	return s.Position.Y + s.Dimensions.Y/2
}

// Extent is the wire shape for object dimensions in a slice document.
type Extent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// SliceObject is the wire shape of one object in a slice document.
type SliceObject struct {
	ObjectID      string `json:"objectId"`
	ObjectType    string `json:"objectType"`
	Position      Vec3   `json:"position"`
	Dimensions    Extent `json:"dimensions"`
	Specification string `json:"specification"`
}

// SliceDocument is the horizontal cross-section of a scene at a computed
// height. Objects keep extraction order and are always a subset of the
// extracted scene objects.
type SliceDocument struct {
	SliceHeight float64       `json:"slice_height"`
	Objects     []SliceObject `json:"objects"`
}

// Marker is a point-only entity for preview rendering, such as a placed
// agent. Markers carry no extent and are drawn as discs.
type Marker struct {
	ID        string
	Position  Vec3
	Highlight bool
}
