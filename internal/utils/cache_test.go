package utils

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache[int](8, time.Minute)

	c.Set("a", 42)
	got, ok := c.Get("a")
	if !ok || got != 42 {
		t.Errorf("Get(a) = %v, %v", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("不存在的键不应命中")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string](8, 10*time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("过期的键不应命中")
	}
	if c.Len() != 0 {
		t.Errorf("过期读取后应被移除，Len = %d", c.Len())
	}
}

func TestTTLCacheEviction(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("超出容量后最旧的键应被淘汰")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("最新的键应保留")
	}
}
