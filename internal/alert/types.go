package alert

import (
	"encoding/json"
	"time"
)

// Condition scopes a rule to a weather condition. The zero value means any condition.
type Condition string

const (
	ConditionAny          Condition = ""
	ConditionRain         Condition = "rain"
	ConditionClear        Condition = "clear"
	ConditionClouds       Condition = "clouds"
	ConditionSnow         Condition = "snow"
	ConditionThunderstorm Condition = "thunderstorm"
)

// Conditions lists the values a rule may be scoped to, in form display order.
func Conditions() []Condition {
	return []Condition{
		ConditionRain,
		ConditionClear,
		ConditionClouds,
		ConditionSnow,
		ConditionThunderstorm,
	}
}

// Valid reports whether c is one of the scoping conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionRain, ConditionClear, ConditionClouds, ConditionSnow, ConditionThunderstorm:
		return true
	default:
		return false
	}
}

// Label returns the human-readable name shown in the condition picker.
func (c Condition) Label() string {
	switch c {
	case ConditionRain:
		return "Rain"
	case ConditionClear:
		return "Clear Sky"
	case ConditionClouds:
		return "Clouds"
	case ConditionSnow:
		return "Snow"
	case ConditionThunderstorm:
		return "Thunderstorm"
	default:
		return "Any"
	}
}

// MarshalJSON encodes the any-condition as null.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c == ConditionAny {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}

// Rule is an alert rule as stored by the alerts service.
type Rule struct {
	ID               string    `json:"_id"`
	AlertName        string    `json:"alertName"`
	Email            string    `json:"email"`
	CityName         string    `json:"cityName"`
	Temperature      float64   `json:"temperature"`
	Humidity         *float64  `json:"humidity"`
	WindSpeed        *float64  `json:"windSpeed"`
	CloudCoverage    *float64  `json:"cloudCoverage"`
	WeatherCondition Condition `json:"weatherCondition"`
	CreatedAt        time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts either "_id" or "id" as the rule identifier.
func (r *Rule) UnmarshalJSON(data []byte) error {
	type plain Rule
	aux := struct {
		*plain
		AltID string `json:"id"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = aux.AltID
	}
	return nil
}

// Draft returns the user-supplied portion of the rule.
func (r Rule) Draft() Draft {
	return Draft{
		AlertName:        r.AlertName,
		Email:            r.Email,
		CityName:         r.CityName,
		Temperature:      r.Temperature,
		Humidity:         r.Humidity,
		WindSpeed:        r.WindSpeed,
		CloudCoverage:    r.CloudCoverage,
		WeatherCondition: r.WeatherCondition,
	}
}

// Draft is a validated rule that has not been persisted yet.
// CityName is injected by the caller from the selected city.
type Draft struct {
	AlertName        string    `json:"alertName"`
	Email            string    `json:"email"`
	CityName         string    `json:"cityName"`
	Temperature      float64   `json:"temperature"`
	Humidity         *float64  `json:"humidity"`
	WindSpeed        *float64  `json:"windSpeed"`
	CloudCoverage    *float64  `json:"cloudCoverage"`
	WeatherCondition Condition `json:"weatherCondition"`
}

// WithCity returns a copy of the draft scoped to city.
func (d Draft) WithCity(city string) Draft {
	d.CityName = city
	return d
}

// Form holds raw text exactly as typed into the alert form.
type Form struct {
	AlertName        string `json:"alertName" validate:"required"`
	Email            string `json:"email" validate:"required"`
	Temperature      string `json:"temperature" validate:"required,finite_number"`
	Humidity         string `json:"humidity" validate:"omitempty,finite_number"`
	WindSpeed        string `json:"windSpeed" validate:"omitempty,finite_number"`
	CloudCoverage    string `json:"cloudCoverage" validate:"omitempty,finite_number"`
	WeatherCondition string `json:"weatherCondition" validate:"omitempty,weather_condition"`
}

// Field names accepted by Form.Set, in form order.
const (
	FieldAlertName        = "alertName"
	FieldEmail            = "email"
	FieldTemperature      = "temperature"
	FieldHumidity         = "humidity"
	FieldWindSpeed        = "windSpeed"
	FieldCloudCoverage    = "cloudCoverage"
	FieldWeatherCondition = "weatherCondition"
)

// FormFields lists every form field in display order.
func FormFields() []string {
	return []string{
		FieldAlertName,
		FieldEmail,
		FieldWeatherCondition,
		FieldTemperature,
		FieldHumidity,
		FieldWindSpeed,
		FieldCloudCoverage,
	}
}

// Set assigns value to the named field. Unknown names report false.
func (f *Form) Set(field, value string) bool {
	switch field {
	case FieldAlertName:
		f.AlertName = value
	case FieldEmail:
		f.Email = value
	case FieldTemperature:
		f.Temperature = value
	case FieldHumidity:
		f.Humidity = value
	case FieldWindSpeed:
		f.WindSpeed = value
	case FieldCloudCoverage:
		f.CloudCoverage = value
	case FieldWeatherCondition:
		f.WeatherCondition = value
	default:
		return false
	}
	return true
}

// Get returns the raw value of the named field.
func (f Form) Get(field string) string {
	switch field {
	case FieldAlertName:
		return f.AlertName
	case FieldEmail:
		return f.Email
	case FieldTemperature:
		return f.Temperature
	case FieldHumidity:
		return f.Humidity
	case FieldWindSpeed:
		return f.WindSpeed
	case FieldCloudCoverage:
		return f.CloudCoverage
	case FieldWeatherCondition:
		return f.WeatherCondition
	default:
		return ""
	}
}

// IsZero reports whether every field is blank.
func (f Form) IsZero() bool {
	return f == Form{}
}
