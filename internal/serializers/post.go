// Package serializers converts between stored posts and their JSON wire
// form, validating incoming payloads on the way in.
package serializers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vaughan-dsouza/myapp/internal/models"
)

const (
	msgRequired  = "This field is required."
	msgNull      = "This field may not be null."
	msgNotString = "Not a valid string."
	msgBlank     = "This field may not be blank."
	msgNulChar   = "Null characters are not allowed."

	// NonFieldErrors is the key for errors that are not about one field.
	NonFieldErrors = "non_field_errors"
)

// PostRepresentation is the wire shape of a post.
type PostRepresentation struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PostInput holds the writable fields of a validated payload. A nil field
// was absent, which only happens for partial updates.
type PostInput struct {
	Title *string `json:"title" validate:"omitnil,min=1,max=100,nonul"`
	Body  *string `json:"body" validate:"omitnil,min=1,nonul"`
}

// ValidationError maps field names to their error messages.
type ValidationError map[string][]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ValidationError) add(field, msg string) {
	e[field] = append(e[field], msg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	err := v.RegisterValidation("nonul", func(fl validator.FieldLevel) bool {
		return !strings.ContainsRune(fl.Field().String(), 0)
	})
	if err != nil {
		panic(fmt.Sprintf("serializers: register nonul: %v", err))
	}

	return v
}

// Serialize renders a stored post.
func Serialize(p models.Post) PostRepresentation {
	return PostRepresentation{ID: p.ID, Title: p.Title, Body: p.Body}
}

func SerializeMany(posts []models.Post) []PostRepresentation {
	out := make([]PostRepresentation, 0, len(posts))
	for _, p := range posts {
		out = append(out, Serialize(p))
	}
	return out
}

// Deserialize validates a JSON payload. With partial set, absent fields are
// allowed and left nil. "id" and unknown keys are ignored. The returned
// error is always a ValidationError.
func Deserialize(raw []byte, partial bool) (PostInput, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return PostInput{}, ValidationError{NonFieldErrors: {"Invalid data. " + err.Error()}}
	}

	obj, ok := data.(map[string]interface{})
	if !ok {
		return PostInput{}, ValidationError{
			NonFieldErrors: {fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", typeName(data))},
		}
	}

	errs := ValidationError{}
	var in PostInput
	in.Title = readString(obj, "title", partial, errs)
	in.Body = readString(obj, "body", partial, errs)

	if err := validate.Struct(in); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return PostInput{}, err
		}
		for _, fe := range fieldErrs {
			errs.add(fe.Field(), message(fe))
		}
	}

	if len(errs) > 0 {
		return PostInput{}, errs
	}
	return in, nil
}

// Apply copies the supplied fields of in onto p.
func (in PostInput) Apply(p models.Post) models.Post {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Body != nil {
		p.Body = *in.Body
	}
	return p
}

// readString coerces a payload value the way a text field does: strings are
// trimmed, numbers become their literal text, everything else is rejected.
func readString(obj map[string]interface{}, field string, partial bool, errs ValidationError) *string {
	v, ok := obj[field]
	if !ok {
		if !partial {
			errs.add(field, msgRequired)
		}
		return nil
	}

	var s string
	switch t := v.(type) {
	case nil:
		errs.add(field, msgNull)
		return nil
	case string:
		s = t
	case json.Number:
		s = t.String()
	default:
		errs.add(field, msgNotString)
		return nil
	}

	s = strings.TrimSpace(s)
	return &s
}

// tagMessages has an entry for every rule tag used on PostInput.
var tagMessages = map[string]func(validator.FieldError) string{
	"min": func(validator.FieldError) string { return msgBlank },
	"max": func(fe validator.FieldError) string {
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	},
	"nonul": func(validator.FieldError) string { return msgNulChar },
}

func message(fe validator.FieldError) string {
	return tagMessages[fe.Tag()](fe)
}

func typeName(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "NoneType"
	case []interface{}:
		return "list"
	case string:
		return "str"
	case bool:
		return "bool"
	case json.Number:
		if strings.ContainsAny(t.String(), ".eE") {
			return "float"
		}
		return "int"
	default:
		return fmt.Sprintf("%T", v)
	}
}
