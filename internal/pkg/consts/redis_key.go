package consts

const (
	// TokenBlacklistKey 已吊销令牌的签名，值非空即视为失效
	TokenBlacklistKey = "auth:blacklist:"
)

const (
	PostMetricsJobLock = "lock:job:post_metrics"
)

const (
	PostMetrics7DaysKey  = "post:metrics:7days:"
	PostMetrics30DaysKey = "post:metrics:30days:"
)
