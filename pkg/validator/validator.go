package validator

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const dateFormat = "2006-01-02"

// RegisterCustomValidations wires domain validations into gin's binding
// engine. "bookdate" accepts the calendar-day strings bookings are
// keyed by.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type")
	}
	return v.RegisterValidation("bookdate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateFormat, fl.Field().String())
		return err == nil
	})
}
