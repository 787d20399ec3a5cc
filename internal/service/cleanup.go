package service

import (
	"log"
	"time"

	"github.com/user/cinelog/internal/repository"
)

// CleanupService 清理服务
type CleanupService struct {
	repos      *repository.Repositories
	retainDays int
}

// NewCleanupService 创建清理服务，retainDays 是访问日志保留天数
func NewCleanupService(repos *repository.Repositories, retainDays int) *CleanupService {
	return &CleanupService{repos: repos, retainDays: retainDays}
}

// Start 启动定时清理任务
func (s *CleanupService) Start() {
	ticker := time.NewTicker(24 * time.Hour)

	// 启动时先运行一次
	go s.runCleanup()

	go func() {
		for range ticker.C {
			s.runCleanup()
		}
	}()
}

func (s *CleanupService) runCleanup() {
	log.Println("[CleanupService] 开始清理过期数据...")

	affected, err := s.repos.AccessLog.DeleteOldLogs(s.retainDays)
	if err != nil {
		log.Printf("[CleanupService] 清理访问日志失败: %v", err)
	} else if affected > 0 {
		log.Printf("[CleanupService] 已清理 %d 条超过 %d 天的访问日志", affected, s.retainDays)
	}
}
