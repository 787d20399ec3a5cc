package repository

import (
	"strings"
	"testing"
)

func TestLocalWatchedAtPinsUTCWallClock(t *testing.T) {
	// timestamptz 直接参与 to_char/EXTRACT 会按会话时区渲染，
	// 分桶表达式必须先固定 UTC 墙钟再加配置偏移
	if !strings.Contains(localWatchedAt, "AT TIME ZONE 'UTC'") {
		t.Errorf("分桶表达式没有固定 UTC 墙钟: %s", localWatchedAt)
	}
	if !strings.Contains(localWatchedAt, "make_interval(mins => $2)") {
		t.Errorf("分桶表达式丢失了时区偏移参数: %s", localWatchedAt)
	}
}
