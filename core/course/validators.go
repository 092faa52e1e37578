package course

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/elimu/core"
)

var (
	statusTag  = "coursestatus"
	statusText = "invalid course status"

	materialTypeTag  = "materialtype"
	materialTypeText = "invalid material type"
)

func init() {
	_ = core.Validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(statusTag, statusText)

	_ = core.Validate.RegisterValidation(materialTypeTag, materialTypeValidation)
	core.RegisterCustomTranslation(materialTypeTag, materialTypeText)
}

func statusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range AllStatuses {
		if status == s {
			return true
		}
	}
	return false
}

func materialTypeValidation(fl validator.FieldLevel) bool {
	typ := fl.Field().String()
	for _, t := range AllMaterialTypes {
		if typ == t {
			return true
		}
	}
	return false
}
