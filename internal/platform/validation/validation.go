// Package validation turns raw request payloads into typed, checked records.
// Each payload is decoded against a named schema with weak typing (so form
// strings such as "37.5" become numbers) and then checked with struct tags.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/hms/hms/internal/platform/apperr"
)

// ErrUnknownSchema is returned when Decode is called with an unregistered
// schema name. It signals a programming error, not bad input.
var ErrUnknownSchema = errors.New("validation: unknown schema")

// InvalidMessage is the summary attached to every validation failure.
const InvalidMessage = "Veuillez fournir toutes les informations requises"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return fld.Tag.Get("mapstructure")
		}
		return name
	})
	_ = v.RegisterValidation("eqtrue", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() == reflect.Bool && f.Bool()
	})
	return v
}

// Decode checks payload against the named schema and returns a pointer to the
// schema's record type (for example *AppointmentInput). Failures are returned
// as an apperr validation error with one entry per offending field.
func Decode(schema Name, payload map[string]any) (any, error) {
	ctor, ok := registry[schema]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, schema)
	}
	out := ctor()

	payload = applyAliases(schema, payload)
	if err := decode(payload, out); err != nil {
		return nil, apperr.Validation(InvalidMessage, decodeFieldErrors(err))
	}
	if n, ok := out.(interface{ normalize() }); ok {
		n.normalize()
	}
	if err := Struct(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Struct runs the tag rules of an already populated record.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", v, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if _, seen := fields[path]; !seen {
			fields[path] = message(fe)
		}
	}
	return apperr.Validation(InvalidMessage, fields)
}

func decode(payload map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			trimStringHook,
			dateHook,
			integralHook,
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(payload)
}

func applyAliases(schema Name, payload map[string]any) map[string]any {
	table := aliases[schema]
	if len(table) == 0 {
		return payload
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	for from, to := range table {
		if v, ok := out[from]; ok {
			if _, exists := out[to]; !exists {
				out[to] = v
			}
			delete(out, from)
		}
	}
	return out
}

func trimStringHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to.Kind() == reflect.String {
		return strings.TrimSpace(reflect.ValueOf(data).String()), nil
	}
	return data, nil
}

// integralHook refuses fractional numbers for integer fields, which weak
// decoding would otherwise truncate (5.9 becoming 5).
func integralHook(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not an integer", f)
	}
	return data, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func dateHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	s := strings.TrimSpace(reflect.ValueOf(data).String())
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

var quoted = regexp.MustCompile(`'([^']*)'`)

// decodeFieldErrors recovers field names from mapstructure's error text,
// which quotes the offending key first on every line.
func decodeFieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(err.Error(), "\n") {
		m := quoted.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = "_payload"
		}
		if _, seen := fields[name]; !seen {
			fields[name] = "Format invalide"
		}
	}
	if len(fields) == 0 {
		fields["_payload"] = "Format invalide"
	}
	return fields
}

// fieldPath drops the root type and any embedded type names from a validator
// namespace, leaving the json path ("working_days[0].day").
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	kept := parts[:0]
	for i, p := range parts {
		if i == 0 || p == "" || unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Ce champ est requis"
	case "eqtrue":
		return "Ce consentement doit être accepté"
	case "email":
		return "Adresse e-mail invalide"
	case "numeric", "number":
		return "Ne doit contenir que des chiffres"
	case "oneof":
		return "Valeur invalide, valeurs acceptées : " + fe.Param()
	case "datetime":
		return "Heure invalide, format attendu HH:MM"
	case "len":
		if isString {
			return fmt.Sprintf("Doit comporter exactement %s caractères", fe.Param())
		}
	case "min", "gte":
		if isString {
			return fmt.Sprintf("Doit comporter au moins %s caractères", fe.Param())
		}
		return "Doit être supérieur ou égal à " + fe.Param()
	case "max", "lte":
		if isString {
			return fmt.Sprintf("Ne doit pas dépasser %s caractères", fe.Param())
		}
		return "Doit être inférieur ou égal à " + fe.Param()
	case "gt":
		return "Doit être supérieur à " + fe.Param()
	}
	return "Valeur invalide"
}
