package pdf

import (
	"fmt"
	"net/http"
)

// エラーコード。いずれもクライアント起因の失敗として 400 を返します。
const (
	CodeInvalidContentType = "INVALID_CONTENT_TYPE"
	CodeInvalidExtension   = "INVALID_EXTENSION"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeProcessingFailed   = "PDF_PROCESSING_ERROR"
)

// Error は呼び出し元へそのまま返せる検証・解析エラーです。
// Message はレスポンスの detail にそのまま使われます。
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status はエラーに対応するHTTPステータスを返します。
func (e *Error) Status() int {
	switch e.Code {
	case CodeInvalidContentType, CodeInvalidExtension, CodeFileTooLarge, CodeProcessingFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func newError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
