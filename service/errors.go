package service

import "fmt"

const (
	CodeValueInvalid        = "value:invalid"
	CodeValueNotFound       = "value:notfound"
	CodePermissionForbidden = "permission:forbidden"
	CodeRegisterFailed      = "register:failed"
)

// APIError 返回给调用方的业务错误，Data 通常是出错的字段或资源名
type APIError struct {
	Code    string `json:"error"`
	Data    string `json:"data"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Data)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Data, e.Message)
}

func NewAPIError(code, data, message string) *APIError {
	return &APIError{Code: code, Data: data, Message: message}
}

func NewValueError(field, message string) *APIError {
	return NewAPIError(CodeValueInvalid, field, message)
}

func NewNotFoundError(resource, message string) *APIError {
	return NewAPIError(CodeValueNotFound, resource, message)
}

func NewPermissionError(message string) *APIError {
	return NewAPIError(CodePermissionForbidden, "permission", message)
}
