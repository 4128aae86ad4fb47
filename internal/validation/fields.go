package validation

import (
	"strings"

	"gigboard/internal/models"
)

// Field names as surfaced to callers. ValidateJob reports errors keyed by
// these, in the declaration order of the posting fields.
const (
	FieldEmployerID     = "employerId"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldSalaryAmount   = "salaryAmount"
	FieldSalaryUnit     = "salaryUnit"
	FieldDurationAmount = "durationAmount"
	FieldDurationUnit   = "durationUnit"
	FieldLocation       = "location"
	FieldStatus         = "status"
)

var (
	titleValidator = Validator[string]{
		Field: FieldTitle,
		Rules: []Rule[string]{NotEmpty(), MinLength(3), MaxLength(100)},
	}

	descriptionValidator = Validator[string]{
		Field: FieldDescription,
		Rules: []Rule[string]{NotEmpty(), MinLength(10), MaxLength(5000)},
	}

	salaryAmountValidator = Validator[float64]{
		Field: FieldSalaryAmount,
		Rules: []Rule[float64]{
			Custom(KindInvalidValue, "must be greater than zero", func(v float64) bool { return v > 0 }),
			Maximum(1_000_000),
		},
	}

	salaryUnitValidator = Validator[string]{
		Field: FieldSalaryUnit,
		Rules: []Rule[string]{
			Custom(KindInvalidValue, "must be one of HOURLY, DAILY, WEEKLY, MONTHLY", func(v string) bool {
				return models.SalaryUnit(v).IsValid()
			}),
		},
	}

	durationAmountValidator = Validator[float64]{
		Field: FieldDurationAmount,
		Rules: []Rule[float64]{Range(1, 365)},
	}

	durationUnitValidator = Validator[string]{
		Field: FieldDurationUnit,
		Rules: []Rule[string]{
			Custom(KindInvalidValue, "must be one of HOURS, DAYS, WEEKS, MONTHS", func(v string) bool {
				return models.DurationUnit(v).IsValid()
			}),
		},
	}

	locationValidator = Validator[models.Location]{
		Field: FieldLocation,
		Rules: []Rule[models.Location]{
			Custom(KindRequired, "state and district are required", func(l models.Location) bool {
				return strings.TrimSpace(l.State) != "" && strings.TrimSpace(l.District) != ""
			}),
			Custom(KindOutOfRange, "latitude must be between -90 and 90", func(l models.Location) bool {
				return l.Latitude == nil || (*l.Latitude >= -90 && *l.Latitude <= 90)
			}),
			Custom(KindOutOfRange, "longitude must be between -180 and 180", func(l models.Location) bool {
				return l.Longitude == nil || (*l.Longitude >= -180 && *l.Longitude <= 180)
			}),
		},
	}

	statusValidator = Validator[string]{
		Field: FieldStatus,
		Rules: []Rule[string]{
			Custom(KindInvalidValue, "must be one of OPEN, ACTIVE, PENDING, CLOSED, DELETED", func(v string) bool {
				return models.JobStatus(v).IsValid()
			}),
		},
	}

	employerIDValidator = Validator[string]{
		Field: FieldEmployerID,
		Rules: []Rule[string]{NotEmpty()},
	}
)

// ValidateField validates a single field value. Unknown field names and
// mismatched value types come back as INVALID_VALUE rather than panicking,
// so the host can wire arbitrary form inputs through it.
func ValidateField(field string, value any) Outcome {
	switch field {
	case FieldTitle:
		if s, ok := value.(string); ok {
			return titleValidator.Validate(s)
		}
	case FieldDescription:
		if s, ok := value.(string); ok {
			return descriptionValidator.Validate(s)
		}
	case FieldSalaryAmount:
		if f, ok := toFloat(value); ok {
			return salaryAmountValidator.Validate(f)
		}
	case FieldSalaryUnit:
		if s, ok := unitString(value); ok {
			return salaryUnitValidator.Validate(s)
		}
	case FieldDurationAmount:
		if f, ok := toFloat(value); ok {
			return durationAmountValidator.Validate(f)
		}
	case FieldDurationUnit:
		if s, ok := unitString(value); ok {
			return durationUnitValidator.Validate(s)
		}
	case FieldLocation:
		if l, ok := value.(models.Location); ok {
			return locationValidator.Validate(l)
		}
	case FieldStatus:
		if s, ok := unitString(value); ok {
			return statusValidator.Validate(s)
		}
	case FieldEmployerID:
		if s, ok := value.(string); ok {
			return employerIDValidator.Validate(s)
		}
	default:
		return Invalid(Error{Field: field, Message: "unknown field", Kind: KindInvalidValue})
	}
	return Invalid(Error{Field: field, Message: "unsupported value type", Kind: KindInvalidValue})
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func unitString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case models.SalaryUnit:
		return string(v), true
	case models.DurationUnit:
		return string(v), true
	case models.JobStatus:
		return string(v), true
	}
	return "", false
}

// ValidateJob validates every field of a posting independently. Unlike the
// per-field validators there is no short-circuit across fields: the outcome
// carries each offending field's first error, in field-declaration order,
// so a form can highlight every broken input at once.
func ValidateJob(p *models.JobPosting) Outcome {
	var errs []Error
	collect := func(out Outcome) {
		if err, ok := out.First(); ok {
			errs = append(errs, err)
		}
	}

	collect(employerIDValidator.Validate(p.EmployerID))
	collect(titleValidator.Validate(p.Title))
	collect(descriptionValidator.Validate(p.Description))
	collect(salaryAmountValidator.Validate(p.SalaryAmount))
	collect(salaryUnitValidator.Validate(string(p.SalaryUnit)))
	collect(durationAmountValidator.Validate(float64(p.DurationAmount)))
	collect(durationUnitValidator.Validate(string(p.DurationUnit)))
	collect(locationValidator.Validate(p.Location))
	collect(statusValidator.Validate(string(p.Status)))

	if len(errs) > 0 {
		return Invalid(errs...)
	}
	return Valid()
}

// ValidateDraft runs whole-form validation over the editable fields of a
// draft. Status and employer are fixed by the publish path, not the form,
// so they are not checked here.
func ValidateDraft(d *models.JobPostingDraft) Outcome {
	var errs []Error
	collect := func(out Outcome) {
		if err, ok := out.First(); ok {
			errs = append(errs, err)
		}
	}

	collect(titleValidator.Validate(d.Title))
	collect(descriptionValidator.Validate(d.Description))
	collect(salaryAmountValidator.Validate(d.SalaryAmount))
	collect(salaryUnitValidator.Validate(string(d.SalaryUnit)))
	collect(durationAmountValidator.Validate(float64(d.DurationAmount)))
	collect(durationUnitValidator.Validate(string(d.DurationUnit)))
	collect(locationValidator.Validate(d.Location))

	if len(errs) > 0 {
		return Invalid(errs...)
	}
	return Valid()
}

// FieldMap flattens an outcome into a field→message map for error
// reporting. Order is lost; callers that need ordering use Errors().
func FieldMap(out Outcome) map[string]string {
	if out.IsValid() {
		return nil
	}
	fields := make(map[string]string, len(out.Errors()))
	for _, e := range out.Errors() {
		if _, ok := fields[e.Field]; !ok {
			fields[e.Field] = e.Message
		}
	}
	return fields
}
