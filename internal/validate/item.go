// Package validate checks client item payloads before they reach storage.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/erazemk/stockroom/internal/model"
)

// itemPayload mirrors the JSON item body. Pointers distinguish an absent
// field from a zero value, so quantity 0 is accepted.
type itemPayload struct {
	Name            *string `json:"name" validate:"required,notblank"`
	Description     *string `json:"description"`
	SKU             *string `json:"sku" validate:"required,notblank"`
	AssetTag        *string `json:"assetTag"`
	Location        *string `json:"location" validate:"required,notblank"`
	Quantity        *int64  `json:"quantity" validate:"required,gte=0"`
	AcquisitionDate *string `json:"acquisitionDate" validate:"omitempty,datetime=2006-01-02"`
	Status          *string `json:"status" validate:"required,oneof='Available' 'In Use' 'Under Repair' 'Disposed'"`
	AssignedTo      *string `json:"assignedTo"`
	Notes           *string `json:"notes"`
}

// fieldOrder is the order messages are reported in.
var fieldOrder = []string{
	"name", "description", "sku", "assetTag", "location",
	"quantity", "acquisitionDate", "status", "assignedTo", "notes",
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("registering notblank validator: %v", err))
	}
	return v
}

// Item validates a raw JSON item body. On success it returns the normalized
// input and no messages; otherwise it returns one message per failing field,
// covering every failing field.
func Item(body []byte) (model.ItemInput, []string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return model.ItemInput{}, []string{"request body must be a JSON object"}
	}

	problems := map[string]string{}
	var p itemPayload

	p.Name = stringField(raw, "name", problems)
	p.Description = stringField(raw, "description", problems)
	p.SKU = stringField(raw, "sku", problems)
	p.AssetTag = stringField(raw, "assetTag", problems)
	p.Location = stringField(raw, "location", problems)
	p.Quantity = integerField(raw, "quantity", problems)
	p.AcquisitionDate = stringField(raw, "acquisitionDate", problems)
	p.Status = stringField(raw, "status", problems)
	p.AssignedTo = stringField(raw, "assignedTo", problems)
	p.Notes = stringField(raw, "notes", problems)

	// Blank optional fields are stored as absent.
	for _, opt := range []**string{&p.Description, &p.AssetTag, &p.AcquisitionDate, &p.AssignedTo, &p.Notes} {
		if *opt != nil && strings.TrimSpace(**opt) == "" {
			*opt = nil
		}
	}

	if err := structValidator.Struct(&p); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				if _, seen := problems[fe.Field()]; !seen {
					problems[fe.Field()] = message(fe)
				}
			}
		} else {
			problems["_"] = "request body is invalid"
		}
	}

	if len(problems) > 0 {
		return model.ItemInput{}, ordered(problems)
	}

	return model.ItemInput{
		Name:            *p.Name,
		Description:     deref(p.Description),
		SKU:             *p.SKU,
		AssetTag:        deref(p.AssetTag),
		Location:        *p.Location,
		Quantity:        *p.Quantity,
		AcquisitionDate: deref(p.AcquisitionDate),
		Status:          model.ItemStatus(*p.Status),
		AssignedTo:      deref(p.AssignedTo),
		Notes:           deref(p.Notes),
	}, nil
}

// stringField decodes an optional string. JSON null counts as absent.
func stringField(raw map[string]json.RawMessage, name string, problems map[string]string) *string {
	value, ok := raw[name]
	if !ok || isNull(value) {
		return nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		problems[name] = name + " must be a string"
		return nil
	}
	return &s
}

// integerField decodes a JSON number that must hold a whole value.
func integerField(raw map[string]json.RawMessage, name string, problems map[string]string) *int64 {
	value, ok := raw[name]
	if !ok || isNull(value) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		problems[name] = name + " must be a number"
		return nil
	}
	num, ok := v.(json.Number)
	if !ok {
		problems[name] = name + " must be a number"
		return nil
	}

	if n, err := num.Int64(); err == nil {
		return &n
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) {
		problems[name] = name + " must be a whole number"
		return nil
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		problems[name] = name + " is out of range"
		return nil
	}
	n := int64(f)
	return &n
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "oneof":
		names := make([]string, len(model.ItemStatuses))
		for i, s := range model.ItemStatuses {
			names[i] = string(s)
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", "))
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	}
	return field + " is invalid"
}

func ordered(problems map[string]string) []string {
	out := make([]string, 0, len(problems))
	for _, field := range fieldOrder {
		if msg, ok := problems[field]; ok {
			out = append(out, msg)
		}
	}
	if msg, ok := problems["_"]; ok {
		out = append(out, msg)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
