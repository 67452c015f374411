package config

import (
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var validate *validator.Validate
var once sync.Once

// Defaulter lets a schema struct fill in defaults after decoding and
// before validation.
type Defaulter interface {
	ApplyDefaults()
}

// decode maps a raw snapshot sub-tree into the schema struct T and
// validates it. A nil sub-tree decodes to the zero value, which schemas
// with defaults accept and strict schemas reject during validation.
func decode[T any](raw any) (T, error) {
	const op errors.Op = "config.decode"
	var out T

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if raw != nil {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &out,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return out, errors.New(op).Err(err).Msg(errMsgDecoderInit)
		}
		if err := dec.Decode(raw); err != nil {
			return out, errors.New(op).Err(err).Msg(errMsgDecodeFailed)
		}
	}

	if d, ok := any(&out).(Defaulter); ok {
		d.ApplyDefaults()
	}

	if err := validate.Struct(&out); err != nil {
		return out, errors.New(op).Err(err).Msg(errMsgInvalid)
	}
	return out, nil
}
