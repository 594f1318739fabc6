// Package object decodes the wire's object/avatar update payloads: the
// compressed, terse and full update variants, their shared sub-blocks
// (extra parameters, texture entries, particle systems, name-values), and
// assembles the result into an ObjectSnapshot (§4.3).
package object

import "fmt"

// NamedValue pairs a raw wire enum with a best-effort symbolic name. Unknown
// values are retained as-is, never rejected (§4.3 "Failure semantics",
// "Unknown enums... MUST be retained as raw numeric values with a
// best-effort symbolic name; they are not errors").
type NamedValue struct {
	Value uint8
	Name  string
}

func (n NamedValue) String() string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("Unknown(%d)", n.Value)
}

// pcodeNames covers the object primitive-code values in common use; unknown
// values fall through to a numeric-only NamedValue.
var pcodeNames = map[uint8]string{
	9:  "Primitive",
	45: "Avatar",
	46: "Grass",
	47: "NewTree",
	48: "ParticleSystem",
	49: "Tree",
}

func namePCode(v uint8) NamedValue { return NamedValue{Value: v, Name: pcodeNames[v]} }

var materialNames = map[uint8]string{
	0: "Stone",
	1: "Metal",
	2: "Glass",
	3: "Wood",
	4: "Flesh",
	5: "Plastic",
	6: "Rubber",
	7: "Light",
}

func nameMaterial(v uint8) NamedValue { return NamedValue{Value: v, Name: materialNames[v]} }

var clickActionNames = map[uint8]string{
	0: "Touch",
	1: "Sit",
	2: "Buy",
	3: "Pay",
	4: "Open",
	5: "Play",
	6: "OpenMedia",
	7: "Zoom",
}

func nameClickAction(v uint8) NamedValue { return NamedValue{Value: v, Name: clickActionNames[v]} }

var attachmentPointNames = map[uint8]string{
	0:  "None",
	2:  "Chest",
	3:  "Skull",
	4:  "LeftShoulder",
	5:  "RightShoulder",
	6:  "LeftHand",
	7:  "RightHand",
	10: "Spine",
	11: "Pelvis",
}

func nameAttachmentPoint(v uint8) NamedValue {
	return NamedValue{Value: v, Name: attachmentPointNames[v]}
}
