package controllers

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/adcut-studio/adcut-api/services"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// Report JSON field names in binding errors
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("pack", validPack)
}

// validPack accepts a catalog pack code or one of its aliases
func validPack(fl validator.FieldLevel) bool {
	_, ok := services.LookupPack(fl.Field().String())
	return ok
}
