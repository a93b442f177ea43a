// Package validation checks the shape of user-submitted payloads before they
// reach persistence.  Every function here is pure: it never touches storage
// and never panics, whatever the payload holds.
package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Payload is an arbitrary decoded request body.
type Payload = map[string]any

// FieldError names the offending field and a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result lists every problem found, in rule order.
type Result struct {
	IsValid bool
	Errors  []FieldError
}

// First returns the first problem.  Callers surface one field at a time.
func (r Result) First() (FieldError, bool) {
	if len(r.Errors) == 0 {
		return FieldError{}, false
	}
	return r.Errors[0], true
}

// rule describes one field check.  A non-optional field must be present and
// hold a string satisfying tag.  An optional field is skipped when it is
// missing or falsy (nil, "", false, 0) and otherwise checked the same way.
type rule struct {
	field    string
	optional bool
	tag      string
	message  string
}

var userRules = []rule{
	{field: "username", tag: "required,notblank", message: "Username is required"},
	{field: "password", tag: "required,min=6", message: "Password must be at least 6 characters"},
	{field: "role", optional: true, tag: "oneof=student admin", message: "Role must be either student or admin"},
}

var reservationRules = []rule{
	{field: "studentName", tag: "required,notblank", message: "Student name is required"},
	{field: "roomNumber", tag: "required,notblank", message: "Room number is required"},
}

var roomRules = []rule{
	{field: "roomNumber", tag: "required,notblank", message: "Room number is required"},
	{field: "level", optional: true, message: "Level must be a string"},
	{field: "name", optional: true, message: "Name must be a string"},
}

var roomUpdateRules = roomRules[1:]

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// User validates a registration payload: username, password and optional role.
func User(p Payload) Result { return check(p, userRules) }

// Reservation validates a booking payload: studentName and roomNumber.
func Reservation(p Payload) Result { return check(p, reservationRules) }

// Room validates a room creation payload: roomNumber, optional level and name.
func Room(p Payload) Result { return check(p, roomRules) }

// RoomUpdate validates the optional level and name of a partial room update.
func RoomUpdate(p Payload) Result { return check(p, roomUpdateRules) }

func check(p Payload, rules []rule) Result {
	res := Result{IsValid: true}
	for _, r := range rules {
		if !r.ok(p) {
			res.IsValid = false
			res.Errors = append(res.Errors, FieldError{Field: r.field, Message: r.message})
		}
	}
	return res
}

func (r rule) ok(p Payload) bool {
	raw, present := p[r.field]
	if r.optional && (!present || falsy(raw)) {
		return true
	}
	s, isString := raw.(string)
	if !isString {
		return false
	}
	if r.tag == "" {
		return true
	}
	return validate.Var(s, r.tag) == nil
}

func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	}
	return false
}

// String returns the raw string value of field, or "" when the
// field is missing or not a string.
func String(p Payload, field string) string {
	s, _ := p[field].(string)
	return s
}

// OptionalString returns a pointer to the string value of field, or nil
// when the field is missing, null or not a string.
func OptionalString(p Payload, field string) *string {
	s, ok := p[field].(string)
	if !ok {
		return nil
	}
	return &s
}
