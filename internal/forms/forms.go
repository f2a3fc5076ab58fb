// Package forms holds the declarative validation schemas for the app's
// forms. Validation is synchronous and purely client-side; anything the
// backend rejects on top of this surfaces through the normal API error path.
package forms

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// fuelTypes are the options the vehicle form offers.
var fuelTypes = map[string]bool{
	"Gasolina":  true,
	"Diésel":    true,
	"Eléctrico": true,
	"Híbrido":   true,
	"Gas":       true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("fuel_type", validateFuelType)
	_ = v.RegisterValidation("measurement_unit", validateMeasurementUnit)
	_ = v.RegisterValidation("record_status", validateRecordStatus)
	return v
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateFuelType(fl validator.FieldLevel) bool {
	return fuelTypes[fl.Field().String()]
}

func validateMeasurementUnit(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "km", "mi":
		return true
	}
	return false
}

func validateRecordStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "completed":
		return true
	}
	return false
}

// LoginForm is the sign-in screen.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// RegisterForm is the account creation screen. ConfirmPassword must match
// Password exactly.
type RegisterForm struct {
	FullName        string `validate:"required,min=2,max=100"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// VehicleForm is the add/edit vehicle screen.
type VehicleForm struct {
	Brand    string `validate:"required,max=50"`
	Model    string `validate:"required,max=50"`
	Year     int    `validate:"required,min=1900,max=2100"`
	Plate    string `validate:"required,max=12"`
	Mileage  int64  `validate:"min=0"`
	FuelType string `validate:"omitempty,fuel_type"`
	Color    string `validate:"omitempty,hex_color"`
}

// MaintenanceForm is the log-maintenance screen.
type MaintenanceForm struct {
	Type    string  `validate:"required,max=100"`
	Date    string  `validate:"required,datetime=2006-01-02"`
	Time    string  `validate:"omitempty,datetime=15:04"`
	Mileage int64   `validate:"min=0"`
	Cost    float64 `validate:"min=0"`
	Status  string  `validate:"omitempty,record_status"`
}

// SettingsForm is the preferences screen.
type SettingsForm struct {
	DefaultCurrency string `validate:"omitempty,len=3,alpha"`
	MeasurementUnit string `validate:"omitempty,measurement_unit"`
	Language        string `validate:"omitempty,len=2,alpha"`
}

// Validate checks a form and returns field name → first failing message.
// A nil map means the form is valid.
func Validate(form any) map[string]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_form": err.Error()}
	}

	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, exists := out[fe.Field()]; exists {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "datetime":
		return "Invalid date or time"
	case "hex_color":
		return "Must be a hex color like #3B82F6"
	case "fuel_type":
		return "Unknown fuel type"
	case "measurement_unit":
		return "Must be km or mi"
	case "record_status":
		return "Must be pending or completed"
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "alpha":
		return "Must contain only letters"
	default:
		return "Invalid value"
	}
}
