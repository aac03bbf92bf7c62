package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AnalyzeParams are the form fields accompanying an upload.
type AnalyzeParams struct {
	Mode     string `form:"mode" validate:"omitempty,max=64"`
	Question string `form:"question" validate:"max=2000"`
	TopK     int    `form:"k" validate:"gte=0,lte=50"`
}

// Validate returns per-field messages, or nil.
func (p *AnalyzeParams) Validate() map[string]string {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"request": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[strings.ToLower(e.Field())] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return out
}
