package model

// FieldType is the closed set of input kinds a form can contain.
type FieldType string

const (
	Text     FieldType = "text"
	Email    FieldType = "email"
	Number   FieldType = "number"
	Radio    FieldType = "radio"
	Checkbox FieldType = "checkbox"
	Select   FieldType = "select"
)

// BoundsKind tells how a field's Bounds are interpreted.
type BoundsKind int

const (
	NoBounds BoundsKind = iota
	LengthBounds
	ValueBounds
)

// fieldTraits lists which FieldSpec attributes are meaningful for a type.
type fieldTraits struct {
	bounds  BoundsKind
	options bool
}

var fieldTypes = map[FieldType]fieldTraits{
	Text:     {bounds: LengthBounds},
	Email:    {bounds: LengthBounds},
	Number:   {bounds: ValueBounds},
	Radio:    {options: true},
	Checkbox: {},
	Select:   {options: true},
}

// FieldTypes returns every known type in a fixed order.
func FieldTypes() []FieldType {
	return []FieldType{Text, Email, Number, Radio, Checkbox, Select}
}

func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// Bounds reports how min/max apply to the type.
func (t FieldType) Bounds() BoundsKind {
	return fieldTypes[t].bounds
}

// HasOptions reports whether the type draws its value from an option list.
func (t FieldType) HasOptions() bool {
	return fieldTypes[t].options
}

func (t FieldType) String() string {
	return string(t)
}
