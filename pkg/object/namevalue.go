package object

import (
	"strconv"
	"strings"
)

// NameValueType is the closed enumeration of legal NameValue value types
// (§4.3.7).
type NameValueType uint8

const (
	NameValueTypeUnknown NameValueType = iota
	NameValueTypeString
	NameValueTypeU32
	NameValueTypeS32
	NameValueTypeF32
	NameValueTypeVec3
	NameValueTypeU64
	NameValueTypeAsset
)

var nameValueTypeNames = map[string]NameValueType{
	"STRING": NameValueTypeString,
	"U32":    NameValueTypeU32,
	"S32":    NameValueTypeS32,
	"F32":    NameValueTypeF32,
	"VEC3":   NameValueTypeVec3,
	"U64":    NameValueTypeU64,
	"ASSET":  NameValueTypeAsset,
}

// NameValue is one parsed line of a name-value record: "name type class
// sendto value" whitespace-separated (§4.3.7, §3 "NameValue").
type NameValue struct {
	Name   string
	Type   NameValueType
	Class  string
	SendTo string
	Value  string
}

// ParseNameValues splits a newline-delimited name-value blob (§4.3.1
// "nv:cstr") into individual records. Empty lines are skipped; a line that
// fails to parse as "name type class sendto value" is dropped rather than
// aborting the whole block, matching the decoder's "drop the offending
// update, not the whole stream" posture for this sub-block (§4.3 closing
// note scopes hard failures to cursor overruns, not loosely-formatted
// text).
func ParseNameValues(blob string) []NameValue {
	lines := strings.Split(blob, "\n")
	out := make([]NameValue, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		nv, ok := parseNameValueLine(line)
		if !ok {
			continue
		}
		out = append(out, nv)
	}
	return out
}

func parseNameValueLine(line string) (NameValue, bool) {
	fields := strings.SplitN(line, " ", 5)
	if len(fields) < 5 {
		return NameValue{}, false
	}
	typ, ok := nameValueTypeNames[strings.ToUpper(fields[1])]
	if !ok {
		typ = NameValueTypeUnknown
	}
	return NameValue{
		Name:   fields[0],
		Type:   typ,
		Class:  fields[2],
		SendTo: fields[3],
		Value:  fields[4],
	}, true
}

// String renders nv back to its wire line form.
func (nv NameValue) String() string {
	typeName := "STRING"
	for name, t := range nameValueTypeNames {
		if t == nv.Type {
			typeName = name
			break
		}
	}
	return strings.Join([]string{nv.Name, typeName, nv.Class, nv.SendTo, nv.Value}, " ")
}

// AsF32 parses Value as a float32, for Type == NameValueTypeF32 records.
func (nv NameValue) AsF32() (float32, error) {
	f, err := strconv.ParseFloat(nv.Value, 32)
	return float32(f), err
}

// AsU32 parses Value as a uint32, for Type == NameValueTypeU32 records.
func (nv NameValue) AsU32() (uint32, error) {
	v, err := strconv.ParseUint(nv.Value, 10, 32)
	return uint32(v), err
}
