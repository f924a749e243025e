package util

import (
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// 与 gin 共用 binding 标签
func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// ValidateDTO 校验不经过 gin 绑定的 DTO，返回 validator.ValidationErrors
func ValidateDTO(dto any) error {
	return validate.Struct(dto)
}
