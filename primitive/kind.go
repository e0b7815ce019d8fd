package primitive

import (
	"go/types"
	"strings"
)

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindUUID
	KindPrimitiveEnum // alias to any integer number, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var kindNames = map[KindEnum]string{
	KindInt:           "int",
	KindInt8:          "int8",
	KindInt16:         "int16",
	KindInt32:         "int32",
	KindInt64:         "int64",
	KindUint:          "uint",
	KindUint8:         "uint8",
	KindUint16:        "uint16",
	KindUint32:        "uint32",
	KindUint64:        "uint64",
	KindFloat32:       "float32",
	KindFloat64:       "float64",
	KindBool:          "bool",
	KindString:        "string",
	KindTime:          "time",
	KindDuration:      "duration",
	KindUUID:          "uuid",
	KindPrimitiveEnum: "enum",
}

// aliases accepted by FromName in addition to the canonical names.
var kindAliases = map[string]KindEnum{
	"text":      KindString,
	"byte":      KindUint8,
	"rune":      KindInt32,
	"float":     KindFloat64,
	"double":    KindFloat64,
	"boolean":   KindBool,
	"timestamp": KindTime,
	"datetime":  KindTime,
	"guid":      KindUUID,
}

// String returns the canonical lower-case name of the kind.
func (k KindEnum) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "invalid"
}

// IsValid reports whether k is one of the declared kinds.
func (k KindEnum) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

// IsText reports whether the kind is the textual kind.
func (k KindEnum) IsText() bool {
	return k == KindString
}

// IsValue reports whether values of this kind are value-category data
// (everything except text, which behaves like a reference).
func (k KindEnum) IsValue() bool {
	return k.IsValid() && k != KindString
}

// FromName resolves a canonical kind name or one of its aliases.
// Returns the zero kind for unrecognized names.
func FromName(name string) KindEnum {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}

	return kindAliases[name]
}

// FromGoType returns the primitive kind of a go/types type, KindPrimitiveEnum
// for other named integer and string types, or the zero kind.
func FromGoType(t types.Type) KindEnum {
	if t == nil {
		return 0
	}

	if named, ok := t.(*types.Named); ok {
		obj := named.Obj()
		if obj.Pkg() != nil && obj.Pkg().Path() == "time" {
			switch obj.Name() {
			case "Time":
				return KindTime
			case "Duration":
				return KindDuration
			}
		}

		arr, isArr := named.Underlying().(*types.Array)
		if isUUIDShape(obj.Name(), isArr && arr.Len() == 16 && isByte(arr.Elem())) {
			return KindUUID
		}

		basic, ok := named.Underlying().(*types.Basic)
		if !ok || basic.Info()&(types.IsInteger|types.IsString) == 0 {
			return 0
		}

		return KindPrimitiveEnum
	}

	basic, ok := t.(*types.Basic)
	if !ok {
		return 0
	}

	return FromBasicKind(basic.Kind())
}

// FromBasicKind maps a go/types basic kind onto a KindEnum.
func FromBasicKind(kind types.BasicKind) KindEnum {
	switch kind {
	case types.Int:
		return KindInt
	case types.Int8:
		return KindInt8
	case types.Int16:
		return KindInt16
	case types.Int32:
		return KindInt32
	case types.Int64:
		return KindInt64
	case types.Uint:
		return KindUint
	case types.Uint8:
		return KindUint8
	case types.Uint16:
		return KindUint16
	case types.Uint32:
		return KindUint32
	case types.Uint64:
		return KindUint64
	case types.Float32:
		return KindFloat32
	case types.Float64:
		return KindFloat64
	case types.Bool:
		return KindBool
	case types.String:
		return KindString
	default:
		return 0
	}
}

func isUUIDShape(name string, sixteenBytes bool) bool {
	return sixteenBytes && strings.EqualFold(name, "uuid")
}

func isByte(t types.Type) bool {
	basic, ok := t.(*types.Basic)
	return ok && basic.Kind() == types.Uint8
}
