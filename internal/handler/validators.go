package handler

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// 錯誤訊息使用 json 欄位名稱
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone", validatePhone)
	}
}

func IsPhoneNumber(s string) bool {
	return phonePattern.MatchString(phoneStripper.Replace(strings.TrimSpace(s)))
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsPhoneNumber(fl.Field().String())
}
