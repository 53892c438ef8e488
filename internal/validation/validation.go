// Package validation declares the request schemas of the API and turns
// validator failures into structured INVALID_INPUT / MISSING_PARAMETER errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
	apperrors "github.com/pscheid92/remedyhub/internal/platform/errors"
)

var remedyIDPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	mustRegister(v, "remedy_id", RemedyIDValidation)
	mustRegister(v, "plan", PlanValidation)
	mustRegister(v, "severity", SeverityValidation)
	mustRegister(v, "evidence", EvidenceValidation)
	mustRegister(v, "notblank", NotBlankValidation)
	mustRegister(v, "maxbytes", MaxBytesValidation)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// fieldName reports json (or query) names so error details match the wire format.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "query"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// RemedyIDValidation accepts lowercase slugs of 2 to 64 characters.
func RemedyIDValidation(fl validator.FieldLevel) bool {
	return ValidRemedyID(fl.Field().String())
}

func PlanValidation(fl validator.FieldLevel) bool {
	_, ok := domain.LookupPlan(domain.PlanName(fl.Field().String()))
	return ok
}

func SeverityValidation(fl validator.FieldLevel) bool {
	return domain.Severity(fl.Field().String()).Rank() > 0
}

func EvidenceValidation(fl validator.FieldLevel) bool {
	switch domain.Evidence(fl.Field().String()) {
	case domain.EvidenceStrong, domain.EvidenceModerate, domain.EvidenceLimited, domain.EvidenceTraditional:
		return true
	}
	return false
}

func NotBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// MaxBytesValidation bounds the encoded length of a string. The builtin max
// counts runes, which lets multibyte passwords past bcrypt's 72-byte limit.
func MaxBytesValidation(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("maxbytes: bad parameter %q", fl.Param()))
	}
	return len(fl.Field().String()) <= limit
}

// Validate checks v against its struct tags. A missing required field yields
// MISSING_PARAMETER, every other failure INVALID_INPUT with details.fields
// mapping each offending field to the rule it broke.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.InvalidInput("invalid request").WithDetail("reason", err.Error())
	}

	fields := make(map[string]string, len(fieldErrs))
	var missing []string
	for _, fe := range fieldErrs {
		name := fieldPath(fe)
		fields[name] = rule(fe)
		if fe.Tag() == "required" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return apperrors.MissingParameter(missing[0]).WithDetail("fields", fields)
	}
	return apperrors.InvalidInput("validation failed").WithDetail("fields", fields)
}

// fieldPath drops the top-level struct name from the namespace,
// e.g. "CreateFavoriteRequest.remedyId" becomes "remedyId".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func rule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// Validator adapts Validate to echo's Validator interface.
type Validator struct{}

func (Validator) Validate(i any) error {
	return Validate(i)
}

// ParseUUID parses a path or query parameter as a UUID.
func ParseUUID(param, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, apperrors.MissingParameter(param)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput(fmt.Sprintf("invalid %s: must be a UUID", param)).
			WithDetail("parameter", param)
	}
	return id, nil
}

// ValidRemedyID reports whether id is a well-formed remedy slug.
func ValidRemedyID(id string) bool {
	return len(id) >= 2 && len(id) <= 64 && remedyIDPattern.MatchString(id)
}

// Slugify derives a remedy ID from a display name: "St. John's Wort" -> "st-johns-wort".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == '\'' || r == '.':
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > 64 {
		slug = strings.TrimRight(slug[:64], "-")
	}
	return slug
}
