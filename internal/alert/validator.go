package alert

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator used for alert input.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		// Report json names so errors match the wire field names.
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})

		_ = v.RegisterValidation("finite_number", func(fl validator.FieldLevel) bool {
			_, ok := parseFinite(fl.Field().String())
			return ok
		})

		_ = v.RegisterValidation("weather_condition", func(fl validator.FieldLevel) bool {
			if fl.Field().Kind() != reflect.String {
				return false
			}
			return Condition(fl.Field().String()).Valid()
		})

		validateInst = v
	})

	return validateInst
}

// Validate turns raw form input into a draft. The draft's CityName is left
// empty for the caller to fill from the selected city.
//
// Required fields are checked in the order alertName, email, temperature and
// the first missing one is reported. Blank optional numbers become nil.
func Validate(form Form) (Draft, error) {
	f := normalizeForm(form)

	if err := validatorInstance().Struct(f); err != nil {
		return Draft{}, convertValidationError(err)
	}

	temperature, ok := parseFinite(f.Temperature)
	if !ok {
		return Draft{}, invalidNumber(FieldTemperature, f.Temperature)
	}

	draft := Draft{
		AlertName:        f.AlertName,
		Email:            f.Email,
		Temperature:      temperature,
		WeatherCondition: Condition(f.WeatherCondition),
	}

	optional := []struct {
		field string
		raw   string
		dest  **float64
	}{
		{FieldHumidity, f.Humidity, &draft.Humidity},
		{FieldWindSpeed, f.WindSpeed, &draft.WindSpeed},
		{FieldCloudCoverage, f.CloudCoverage, &draft.CloudCoverage},
	}
	for _, opt := range optional {
		value, err := optionalNumber(opt.field, opt.raw)
		if err != nil {
			return Draft{}, err
		}
		*opt.dest = value
	}

	return draft, nil
}

// ValidateDraft checks a draft that arrived already typed, e.g. over the wire.
func ValidateDraft(d Draft) error {
	checks := []struct {
		field string
		value string
	}{
		{FieldAlertName, d.AlertName},
		{FieldEmail, d.Email},
		{"cityName", d.CityName},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return wlerrors.NewValidationError(wlerrors.MissingRequiredField, c.field, "", c.field+" is required", nil)
		}
	}

	numbers := []struct {
		field string
		value *float64
	}{
		{FieldTemperature, &d.Temperature},
		{FieldHumidity, d.Humidity},
		{FieldWindSpeed, d.WindSpeed},
		{FieldCloudCoverage, d.CloudCoverage},
	}
	for _, n := range numbers {
		if n.value != nil && (math.IsNaN(*n.value) || math.IsInf(*n.value, 0)) {
			return invalidNumber(n.field, strconv.FormatFloat(*n.value, 'f', -1, 64))
		}
	}

	if d.WeatherCondition != ConditionAny && !d.WeatherCondition.Valid() {
		return invalidCondition(string(d.WeatherCondition))
	}
	return nil
}

func normalizeForm(f Form) Form {
	return Form{
		AlertName:        strings.TrimSpace(f.AlertName),
		Email:            strings.TrimSpace(f.Email),
		Temperature:      strings.TrimSpace(f.Temperature),
		Humidity:         strings.TrimSpace(f.Humidity),
		WindSpeed:        strings.TrimSpace(f.WindSpeed),
		CloudCoverage:    strings.TrimSpace(f.CloudCoverage),
		WeatherCondition: strings.ToLower(strings.TrimSpace(f.WeatherCondition)),
	}
}

func optionalNumber(field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, ok := parseFinite(raw)
	if !ok {
		return nil, invalidNumber(field, raw)
	}
	return &value, nil
}

func parseFinite(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// convertValidationError maps the first validator failure onto a typed error.
func convertValidationError(err error) error {
	ves, ok := err.(validator.ValidationErrors)
	if !ok || len(ves) == 0 {
		return wlerrors.NewValidationError(wlerrors.InvalidEnumValue, "", "", err.Error(), err)
	}

	fe := ves[0]
	value := fmt.Sprint(fe.Value())
	switch fe.Tag() {
	case "required":
		return wlerrors.NewValidationError(wlerrors.MissingRequiredField, fe.Field(), value, fe.Field()+" is required", err)
	case "finite_number":
		return wlerrors.NewValidationError(wlerrors.InvalidNumericField, fe.Field(), value, fmt.Sprintf("%q is not a number", value), err)
	default:
		return wlerrors.NewValidationError(wlerrors.InvalidEnumValue, fe.Field(), value, fmt.Sprintf("%q is not one of %s", value, conditionList()), err)
	}
}

func invalidNumber(field, raw string) error {
	return wlerrors.NewValidationError(wlerrors.InvalidNumericField, field, raw, fmt.Sprintf("%q is not a number", raw), nil)
}

func invalidCondition(raw string) error {
	return wlerrors.NewValidationError(wlerrors.InvalidEnumValue, FieldWeatherCondition, raw, fmt.Sprintf("%q is not one of %s", raw, conditionList()), nil)
}

func conditionList() string {
	names := make([]string, 0, len(Conditions()))
	for _, c := range Conditions() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
