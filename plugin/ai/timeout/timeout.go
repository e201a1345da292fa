// Package timeout defines centralized timeout constants for scheduling operations.
// Package timeout 定义日程操作的集中式超时常量。
package timeout

import "time"

// Scheduling timeout constants.
// 日程操作超时常量。
const (
	// SubmissionTimeout bounds a single calendar CreateEvent call.
	// SubmissionTimeout 是单次日历事件创建的超时时间。
	SubmissionTimeout = 5 * time.Second

	// RequestTimeout bounds one HTTP request, including every span of its messages.
	// RequestTimeout 是单个 HTTP 请求的超时时间。
	RequestTimeout = 30 * time.Second

	// ShutdownTimeout is the grace period for the HTTP server to drain.
	// ShutdownTimeout 是 HTTP 服务优雅关闭的等待时间。
	ShutdownTimeout = 10 * time.Second

	// MaxBatchConcurrency caps the number of messages processed in parallel.
	// MaxBatchConcurrency 是批量处理消息的最大并发数。
	MaxBatchConcurrency = 8
)
