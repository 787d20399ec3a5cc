package model

import (
	"encoding/json"
	"testing"
	"time"
)

func intPtr(v int) *FlexInt {
	f := FlexInt(v)
	return &f
}

func TestValidateMovie(t *testing.T) {
	in := WatchEventInput{
		ContentType: ContentTypeMovie,
		ContentID:   intPtr(603),
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("合法的电影上报不应报错: %v", err)
	}
}

func TestValidateMissingContentID(t *testing.T) {
	in := WatchEventInput{ContentType: ContentTypeMovie}
	err := in.Validate()
	if err == nil {
		t.Fatal("缺少 content_id 应当报错")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("期望 ValidationError，实际 %T", err)
	}
	if ve.Field != "content_id" {
		t.Errorf("期望字段 content_id，实际 %s", ve.Field)
	}
}

func TestValidateBadContentType(t *testing.T) {
	in := WatchEventInput{ContentType: "anime", ContentID: intPtr(1)}
	if err := in.Validate(); err == nil {
		t.Fatal("未知的 content_type 应当报错")
	}
}

func TestValidateTVRequiresSeasonEpisode(t *testing.T) {
	in := WatchEventInput{
		ContentType: ContentTypeTV,
		ContentID:   intPtr(1399),
	}
	if err := in.Validate(); err == nil {
		t.Fatal("剧集缺少 season/episode 应当报错")
	}

	in.Season = intPtr(1)
	if err := in.Validate(); err == nil {
		t.Fatal("剧集缺少 episode 应当报错")
	}
}

func TestValidateEpisodeZeroIsLegal(t *testing.T) {
	// 特辑常用第 0 集，0 不能被当成缺失
	in := WatchEventInput{
		ContentType: ContentTypeTV,
		ContentID:   intPtr(1399),
		Season:      intPtr(0),
		Episode:     intPtr(0),
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("第 0 季第 0 集是合法的: %v", err)
	}
}

func TestValidateNegativeWatchedSeconds(t *testing.T) {
	in := WatchEventInput{
		ContentType:    ContentTypeMovie,
		ContentID:      intPtr(603),
		WatchedSeconds: -10,
	}
	if err := in.Validate(); err == nil {
		t.Fatal("负的 watched_seconds 应当报错")
	}
}

func TestFlexIntAcceptsStringAndNumber(t *testing.T) {
	var in WatchEventInput
	payload := `{"content_type":"tv","content_id":"1399","season":1,"episode":"3","watched_seconds":"120.5","total_seconds":3600}`
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if in.ContentID == nil || int(*in.ContentID) != 1399 {
		t.Errorf("content_id 解析错误: %v", in.ContentID)
	}
	if in.Episode == nil || int(*in.Episode) != 3 {
		t.Errorf("episode 解析错误: %v", in.Episode)
	}
	if float64(in.WatchedSeconds) != 120.5 {
		t.Errorf("watched_seconds 解析错误: %v", in.WatchedSeconds)
	}
}

func TestFlexIntRejectsGarbage(t *testing.T) {
	var f FlexInt
	if err := json.Unmarshal([]byte(`"abc"`), &f); err == nil {
		t.Fatal("非数字字符串应当报错")
	}
}

func TestFlexIntNullIsNoop(t *testing.T) {
	var in WatchEventInput
	payload := `{"content_type":"movie","content_id":603,"season":null}`
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if in.Season != nil {
		t.Errorf("null 字段应保持 nil，实际 %v", *in.Season)
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		watched float64
		total   float64
		want    float64
	}{
		{"常规", 1800, 3600, 50},
		{"两位小数", 1234, 3600, 34.28},
		{"超过时长截到 100", 4000, 3600, 100},
		{"时长未知返回 0", 100, 0, 0},
		{"负时长返回 0", 100, -1, 0},
		{"负观看截到 0", -5, 3600, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.watched, tt.total); got != tt.want {
				t.Errorf("Progress(%v, %v) = %v, 期望 %v", tt.watched, tt.total, got, tt.want)
			}
		})
	}
}

func TestEventBuildsTVFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in := WatchEventInput{
		ContentType:    ContentTypeTV,
		ContentID:      intPtr(1399),
		Season:         intPtr(1),
		Episode:        intPtr(0),
		TotalEpisodes:  intPtr(10),
		Title:          "权力的游戏",
		Genres:         []string{"剧情", "奇幻"},
		WatchedSeconds: 900,
		TotalSeconds:   3600,
	}
	ev := in.Event(7, now)

	if ev.UserID != 7 || ev.ContentID != 1399 {
		t.Errorf("基本字段错误: %+v", ev)
	}
	if ev.Season == nil || *ev.Season != 1 {
		t.Errorf("season 错误: %v", ev.Season)
	}
	if ev.Episode == nil || *ev.Episode != 0 {
		t.Errorf("episode 0 应当保留: %v", ev.Episode)
	}
	if ev.TotalEpisodes == nil || *ev.TotalEpisodes != 10 {
		t.Errorf("total_episodes 错误: %v", ev.TotalEpisodes)
	}
	if ev.ProgressPercent != 25 {
		t.Errorf("进度应为 25，实际 %v", ev.ProgressPercent)
	}
	if !ev.WatchedAt.Equal(now) {
		t.Errorf("watched_at 错误: %v", ev.WatchedAt)
	}
}

func TestEventMovieLeavesEpisodeNil(t *testing.T) {
	in := WatchEventInput{
		ContentType: ContentTypeMovie,
		ContentID:   intPtr(603),
		// 电影上报里夹带的 season 应被忽略
		Season: intPtr(2),
	}
	ev := in.Event(1, time.Now())
	if ev.Season != nil || ev.Episode != nil {
		t.Errorf("电影不应有 season/episode: %+v", ev)
	}
}
