package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/go-playground/validator/v10"
)

const DefaultCurrency = "USD"

// Options are the caller-supplied constants stamped on every output row.
// Currency is upper-cased but otherwise taken as given.
type Options struct {
	Period      string `validate:"period"`
	Currency    string `validate:"required"`
	AccountCode string `validate:"omitempty,max=32"`
	Source      string
	OCR         bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		return common.ValidatePeriod(fl.Field().String()) == nil
	})
	return v
}

func (o Options) normalize(kind Kind) Options {
	o.Period = strings.TrimSpace(o.Period)
	o.Currency = strings.ToUpper(strings.TrimSpace(o.Currency))
	o.AccountCode = strings.TrimSpace(o.AccountCode)
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	if kind == KindAPAging && o.AccountCode == "" {
		o.AccountCode = DefaultAPAccount
	}
	return o
}

// Validate checks the run parameters. Call it before opening the input so a
// bad period never touches the file system.
func (o Options) Validate() error {
	o = o.normalize("")
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Period":
			return fmt.Errorf("%w: %q", common.ErrInvalidPeriod, o.Period)
		default:
			return fmt.Errorf("invalid %s: %s", strings.ToLower(fe.Field()), fe.Tag())
		}
	}
	return err
}
