package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSuccessEnvelope(t *testing.T) {
	w, resp := record(func(c *gin.Context) {
		Success(c, gin.H{"id": 1})
	})
	if w.Code != 200 || !resp.Success || resp.Code != 200 {
		t.Errorf("成功信封错误: status=%d resp=%+v", w.Code, resp)
	}
}

func TestConflictEnvelope(t *testing.T) {
	w, resp := record(func(c *gin.Context) {
		Conflict(c, "已在收藏中")
	})
	if w.Code != 409 || resp.Success || resp.Message != "已在收藏中" {
		t.Errorf("冲突信封错误: status=%d resp=%+v", w.Code, resp)
	}
}

func TestErrorDefaultMessages(t *testing.T) {
	_, resp := record(func(c *gin.Context) {
		Unauthorized(c, "")
	})
	if resp.Message == "" {
		t.Error("401 应有默认提示语")
	}

	w, resp := record(func(c *gin.Context) {
		NotFound(c, "")
	})
	if w.Code != 404 || resp.Message == "" {
		t.Errorf("404 信封错误: status=%d resp=%+v", w.Code, resp)
	}
}
