package cfg

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator 返回全局共享的校验器
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateStruct 按 validate tag 校验结构体
func ValidateStruct(object any) error {
	return Validator().Struct(object)
}
