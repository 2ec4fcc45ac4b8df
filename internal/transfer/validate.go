package transfer

import "github.com/go-playground/validator/v10"

var validate = validator.New()

func (r *GenerationRequest) Validate() error {
	return validate.Struct(r)
}

func (o *GenerationOptions) Validate() error {
	return validate.Struct(o)
}

func (b *BusinessCreation) Validate() error {
	return validate.Struct(b)
}
