package types

import "fmt"

// FieldType is the semantic type of an entity field. The set is closed; a
// name that is not recognized decodes to FieldUnknown so that configurations
// written for other versions still load and plan with fallback mappings.
type FieldType int

const (
	FieldUnknown FieldType = iota
	FieldString
	FieldText
	FieldNumber
	FieldBoolean
	FieldDate
	FieldDatetime
	FieldEmail
	FieldURL
	FieldEnum
	FieldRelation
)

// FieldTypes returns every known field type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldString, FieldText, FieldNumber, FieldBoolean, FieldDate,
		FieldDatetime, FieldEmail, FieldURL, FieldEnum, FieldRelation,
	}
}

// String returns the configuration name of the type.
func (ft FieldType) String() string {
	switch ft {
	case FieldString:
		return "string"
	case FieldText:
		return "text"
	case FieldNumber:
		return "number"
	case FieldBoolean:
		return "boolean"
	case FieldDate:
		return "date"
	case FieldDatetime:
		return "datetime"
	case FieldEmail:
		return "email"
	case FieldURL:
		return "url"
	case FieldEnum:
		return "enum"
	case FieldRelation:
		return "relation"
	default:
		return "unknown"
	}
}

// Known reports whether ft is one of the declared types.
func (ft FieldType) Known() bool {
	return ft > FieldUnknown && ft <= FieldRelation
}

// ParseFieldType maps a configuration name to its FieldType.
func ParseFieldType(s string) (FieldType, bool) {
	for _, ft := range FieldTypes() {
		if ft.String() == s {
			return ft, true
		}
	}
	return FieldUnknown, false
}

// MarshalText implements encoding.TextMarshaler.
func (ft FieldType) MarshalText() ([]byte, error) {
	return []byte(ft.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognized names
// become FieldUnknown rather than an error.
func (ft *FieldType) UnmarshalText(b []byte) error {
	if ft == nil {
		return fmt.Errorf("types: UnmarshalText on nil FieldType")
	}
	*ft, _ = ParseFieldType(string(b))
	return nil
}
