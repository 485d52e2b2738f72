package schema

import (
	"encoding/json"

	"github.com/aidanlsb/folio/internal/sdl"
)

// The MarshalJSON methods add the "type" discriminator, which lives in the
// Go type rather than in a struct field.

type typeTag struct {
	Type sdl.FieldType `json:"type"`
}

func (f *StringField) MarshalJSON() ([]byte, error) {
	type plain StringField
	return json.Marshal(struct {
		typeTag
		*plain
	}{typeTag{f.Type()}, (*plain)(f)})
}

func (f *NumberField) MarshalJSON() ([]byte, error) {
	type plain NumberField
	return json.Marshal(struct {
		typeTag
		*plain
	}{typeTag{f.Type()}, (*plain)(f)})
}

func (f *BooleanField) MarshalJSON() ([]byte, error) {
	type plain BooleanField
	return json.Marshal(struct {
		typeTag
		*plain
	}{typeTag{f.Type()}, (*plain)(f)})
}

func (f *DateField) MarshalJSON() ([]byte, error) {
	type plain DateField
	return json.Marshal(struct {
		typeTag
		*plain
	}{typeTag{f.Type()}, (*plain)(f)})
}

func (f *ArrayField) MarshalJSON() ([]byte, error) {
	type plain ArrayField
	return json.Marshal(struct {
		typeTag
		*plain
	}{typeTag{f.Type()}, (*plain)(f)})
}

func (f *ObjectField) MarshalJSON() ([]byte, error) {
	type plain ObjectField
	return json.Marshal(struct {
		typeTag
		*plain
	}{typeTag{f.Type()}, (*plain)(f)})
}

func (f *EnumField) MarshalJSON() ([]byte, error) {
	type plain EnumField
	return json.Marshal(struct {
		typeTag
		*plain
	}{typeTag{f.Type()}, (*plain)(f)})
}

func (f *RecordField) MarshalJSON() ([]byte, error) {
	type plain RecordField
	return json.Marshal(struct {
		typeTag
		*plain
	}{typeTag{f.Type()}, (*plain)(f)})
}
