package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

// newLedgerValidator teaches the validator to compare decimal amounts with numeric tags such as gt=0.
func newLedgerValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return validate
}

func decimalValue(field reflect.Value) interface{} {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

func (s *LedgerStore) validate(req interface{}, message string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return nil
}

func notFound(entity string) error {
	return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
}

func trim(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}
