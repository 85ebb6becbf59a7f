package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation 输入不合法，请求在写入前被拒绝
	ErrValidation = errors.New("参数校验失败")
	// ErrNotFound 引用的内容不存在
	ErrNotFound = errors.New("内容不存在")
	// ErrUnauthenticated 未登录
	ErrUnauthenticated = errors.New("未登录")
	// ErrEmailTaken 邮箱已注册
	ErrEmailTaken = errors.New("该邮箱已被注册")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// ValidationError 字段级校验错误，errors.Is(err, ErrValidation) 为 true
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// invalid 构造单字段校验错误
func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(FieldName)
	return v
}

// FieldName 校验错误中使用的字段名：json 标签，其次 form 标签
func FieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// validateStruct 用 validate 标签校验，失败时转换为 *ValidationError
func validateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return AsValidationError(err)
	}
	return nil
}

// AsValidationError 把 validator（含 gin binding）或参数解析错误统一为 *ValidationError
func AsValidationError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: map[string]string{"request": err.Error()}}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "min":
		return fmt.Sprintf("至少 %s 个字符", fe.Param())
	case "max":
		return fmt.Sprintf("最多 %s 个字符", fe.Param())
	case "gte":
		return fmt.Sprintf("不能小于 %s", fe.Param())
	case "lte":
		return fmt.Sprintf("不能大于 %s", fe.Param())
	case "email":
		return "邮箱格式不正确"
	case "oneof":
		return fmt.Sprintf("必须是 %s 之一", fe.Param())
	default:
		return fmt.Sprintf("不满足 %s 约束", fe.Tag())
	}
}
