package serializers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	dbpkg "drilllog/internal/db"
)

// Mode selects how a request body is applied to a record.
type Mode int

const (
	// Create requires every required field and starts from defaults.
	Create Mode = iota
	// Replace (PUT) requires every required field; absent optional
	// fields keep their stored values.
	Replace
	// Partial (PATCH) checks only the fields present in the body.
	Partial
)

// ModeFor maps an HTTP method onto a Mode for an existing record.
func ModeFor(method string) Mode {
	if method == "PATCH" {
		return Partial
	}
	return Replace
}

const (
	msgRequired = "This field is required."
	msgNull     = "This field may not be null."
	msgString   = "Not a valid string."
	msgNumber   = "A valid number is required."
	msgDate     = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

// NonFieldErrors is the key for errors that belong to the body as a whole.
const NonFieldErrors = "non_field_errors"

// field binds one JSON key to the record attribute it writes.
type field struct {
	name     string
	dst      interface{}
	required bool
	// rules is a validator tag applied to the decoded value.
	rules string
	// verbatim keeps surrounding whitespace in strings.
	verbatim bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("decimal", validateDecimal); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("choice", validateChoice); err != nil {
		panic(err)
	}
	return v
}

var choiceSets = map[string]dbpkg.Choices{
	"status":          dbpkg.WellStatuses,
	"drilling_method": dbpkg.DrillingMethods,
	"lithology":       dbpkg.LithologyTypes,
}

func validateChoice(fl validator.FieldLevel) bool {
	set, ok := choiceSets[fl.Param()]
	if !ok {
		return false
	}
	return set.Has(fl.Field().String())
}

// decimalParam parses a "digits:places" parameter.
func decimalParam(param string) (digits, places int, err error) {
	parts := strings.SplitN(param, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad decimal parameter %q", param)
	}
	if digits, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, err
	}
	if places, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, err
	}
	return digits, places, nil
}

// decimalDigits splits the shortest decimal rendering of f into its
// integer and fractional digit counts.
func decimalDigits(f float64) (whole, frac int) {
	s := strconv.FormatFloat(math.Abs(f), 'f', -1, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	intPart = strings.TrimLeft(intPart, "0")
	return len(intPart), len(fracPart)
}

func decimalMessage(f float64, param string) string {
	digits, places, err := decimalParam(param)
	if err != nil {
		return msgNumber
	}
	whole, frac := decimalDigits(f)
	switch {
	case whole+frac > digits:
		return fmt.Sprintf("Ensure that there are no more than %d digits in total.", digits)
	case frac > places:
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", places)
	case whole > digits-places:
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", digits-places)
	}
	return ""
}

func validateDecimal(fl validator.FieldLevel) bool {
	return decimalMessage(fl.Field().Float(), fl.Param()) == ""
}

// message renders a validator failure the way API clients expect it.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field may not be blank."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "choice":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "decimal":
		if f, ok := fe.Value().(float64); ok {
			if m := decimalMessage(f, fe.Param()); m != "" {
				return m
			}
		}
	}
	return "Invalid value."
}

// decodeObject parses body as a JSON object keyed by field name.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, dbpkg.NewValidationError(NonFieldErrors,
				fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", typeErr.Value))
		}
		return nil, dbpkg.NewValidationError(NonFieldErrors, "JSON parse error - "+err.Error())
	}
	if raw == nil {
		return nil, dbpkg.NewValidationError(NonFieldErrors, "No data provided")
	}
	return raw, nil
}

// bind decodes the fields present in body into their destinations and
// validates them. Keys with no matching field are ignored, which covers
// read-only and server-assigned attributes. aliases maps an accepted
// input key onto a field name.
func bind(body []byte, mode Mode, fields []field, aliases map[string]string) (*dbpkg.ValidationError, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	for alias, name := range aliases {
		if v, ok := raw[alias]; ok {
			if _, dup := raw[name]; !dup {
				raw[name] = v
			}
			delete(raw, alias)
		}
	}

	errs := &dbpkg.ValidationError{}
	for _, f := range fields {
		value, ok := raw[f.name]
		if !ok {
			if f.required && mode != Partial {
				errs.Add(f.name, msgRequired)
			}
			continue
		}
		if msg := decodeValue(value, f.dst, !f.verbatim); msg != "" {
			errs.Add(f.name, msg)
			continue
		}
		if f.rules == "" {
			continue
		}
		v, ok := ruleValue(f.dst)
		if !ok {
			continue
		}
		if err := validate.Var(v, f.rules); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return nil, err
			}
			for _, fe := range verrs {
				errs.Add(f.name, message(fe))
			}
		}
	}
	return errs, nil
}

// ruleValue returns the value a validator rule runs against, or false for
// a nil optional value.
func ruleValue(dst interface{}) (interface{}, bool) {
	switch d := dst.(type) {
	case *string:
		return *d, true
	case *float64:
		return *d, true
	case **float64:
		if *d == nil {
			return nil, false
		}
		return **d, true
	case *uint:
		return *d, true
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeValue writes raw into dst and returns a field message on failure.
// Numbers and primary keys may be sent as JSON numbers or numeric strings.
func decodeValue(raw json.RawMessage, dst interface{}, trim bool) string {
	if isNull(raw) {
		switch d := dst.(type) {
		case **float64:
			*d = nil
			return ""
		case **dbpkg.Date:
			*d = nil
			return ""
		}
		return msgNull
	}

	switch d := dst.(type) {
	case *string:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return msgString
		}
		if trim {
			s = strings.TrimSpace(s)
		}
		*d = s
	case *bool:
		if err := json.Unmarshal(raw, d); err != nil {
			return "Must be a valid boolean."
		}
	case *float64:
		f, ok := parseNumber(raw)
		if !ok {
			return msgNumber
		}
		*d = f
	case **float64:
		f, ok := parseNumber(raw)
		if !ok {
			return msgNumber
		}
		*d = &f
	case *dbpkg.Date:
		var date dbpkg.Date
		if err := json.Unmarshal(raw, &date); err != nil {
			return msgDate
		}
		*d = date
	case **dbpkg.Date:
		var date dbpkg.Date
		if err := json.Unmarshal(raw, &date); err != nil {
			return msgDate
		}
		*d = &date
	case *uint:
		id, msg := parsePK(raw)
		if msg != "" {
			return msg
		}
		*d = id
	default:
		panic(fmt.Sprintf("serializers: unsupported field type %T", dst))
	}
	return ""
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parsePK(raw json.RawMessage) (uint, string) {
	var n uint64
	if err := json.Unmarshal(raw, &n); err == nil {
		return uint(n), ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64); err == nil {
			return uint(n), ""
		}
		return 0, "Incorrect type. Expected pk value, received str."
	}
	return 0, fmt.Sprintf("Incorrect type. Expected pk value, received %s.", jsonKind(raw))
}

func jsonKind(raw json.RawMessage) string {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return "unknown"
	}
	switch b[0] {
	case '{':
		return "dict"
	case '[':
		return "list"
	case 't', 'f':
		return "bool"
	case '"':
		return "str"
	}
	return "float"
}

// checkInterval adds an error on depth_to unless it lies below depth_from.
func checkInterval(errs *dbpkg.ValidationError, from, to float64) {
	if _, bad := errs.Fields["depth_from"]; bad {
		return
	}
	if _, bad := errs.Fields["depth_to"]; bad {
		return
	}
	if to <= from {
		errs.Add("depth_to", "depth_to must be greater than depth_from.")
	}
}
