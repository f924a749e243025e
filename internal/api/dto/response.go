package dto

// Response 统一返回体，失败时 message 为机器可读的错误码
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}
