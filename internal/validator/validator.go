package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"zajil/internal/apperr"
	"zajil/internal/domain/model"

	playground "github.com/go-playground/validator/v10"
)

// Validator は入力DTOのタグ検証。最初に失敗した項目だけ返す
type Validator struct {
	v *playground.Validate
}

func New() *Validator {
	v := playground.New()

	//エラーの項目名は json タグ名にする
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("wilaya", func(fl playground.FieldLevel) bool {
		return model.IsWilaya(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl playground.FieldLevel) bool {
		return model.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("order_status", func(fl playground.FieldLevel) bool {
		return model.OrderStatus(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

// Validate は echo.Validator も満たす
func (v *Validator) Validate(i interface{}) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("", err.Error())
	}
	fe := verrs[0]
	return apperr.Validation(fe.Field(), message(fe))
}

func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Enter a valid email address."
	case "wilaya", "category", "order_status", "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
