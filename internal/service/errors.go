package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

// 错误文本即返回给客户端的 message
var (
	ErrParamInvalid          = errors.New("invalid_request_format")
	ErrInvalidPaging         = errors.New("invalid_paging_params")
	ErrInvalidSort           = errors.New("invalid_sort")
	ErrInvalidTag            = errors.New("invalid_tag")
	ErrTooManyTags           = errors.New("too_many_tags")
	ErrMissingRequiredFields = errors.New("missing_required_fields")
	ErrTitleTooLong          = errors.New("title_too_long")
	ErrContentTooLong        = errors.New("content_too_long")
	ErrInvalidTrendingParams = errors.New("invalid_trending_params")
	ErrInvalidMetricDays     = errors.New("invalid_metric_days")
	ErrAlreadyLiked          = errors.New("like_already_exists")
	ErrPostNotFound          = errors.New("post_not_found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrPermissionDenied      = errors.New("permission_denied")
	UnExpectedError          = errors.New("internal_server_error")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:          BadRequest,
	ErrInvalidPaging:         BadRequest,
	ErrInvalidSort:           BadRequest,
	ErrInvalidTag:            BadRequest,
	ErrTooManyTags:           BadRequest,
	ErrMissingRequiredFields: BadRequest,
	ErrTitleTooLong:          BadRequest,
	ErrContentTooLong:        BadRequest,
	ErrInvalidTrendingParams: BadRequest,
	ErrInvalidMetricDays:     BadRequest,
	ErrAlreadyLiked:          BadRequest,
	ErrPostNotFound:          NotFound,
	ErrUnauthorized:          Unauthorized,
	ErrPermissionDenied:      Forbidden,
	UnExpectedError:          InternalServerError,
}

// StatusOf 解析错误对应的 HTTP 状态码，未登记的错误按 500 处理
func StatusOf(err error) (int, error) {
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, target
		}
	}
	return InternalServerError, UnExpectedError
}
