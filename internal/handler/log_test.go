package handler

import "testing"

func TestHashIPStableAndTruncated(t *testing.T) {
	a := hashIP("203.0.113.9")
	if a != hashIP("203.0.113.9") {
		t.Error("同一 IP 的哈希应当稳定")
	}
	// 8 字节 = 16 个十六进制字符
	if len(a) != 16 {
		t.Errorf("哈希长度应为 16，实际 %d", len(a))
	}
	if a == hashIP("203.0.113.10") {
		t.Error("不同 IP 不应哈希到同一个值")
	}
}
