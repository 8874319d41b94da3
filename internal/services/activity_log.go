package services

import (
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tripmesh/backend/internal/models"
	"github.com/tripmesh/backend/pkg/logger"
	"gorm.io/gorm"
)

var activityDB *gorm.DB

// InitActivityLogger wires the package-level log writers to a database.
func InitActivityLogger(db *gorm.DB) {
	activityDB = db
}

func LogInfo(module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	writeActivity("info", module, action, message, userID, ip, userAgent, extra)
}

func LogWarning(module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	writeActivity("warning", module, action, message, userID, ip, userAgent, extra)
}

func LogError(module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	writeActivity("error", module, action, message, userID, ip, userAgent, extra)
}

func writeActivity(level, module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	if activityDB == nil {
		return
	}

	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	entry := &models.ActivityLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		Extra:     extraStr,
		CreatedAt: time.Now(),
	}
	activityDB.Create(entry)
}

type ActivityLogService struct {
	db *gorm.DB
}

func NewActivityLogService(db *gorm.DB) *ActivityLogService {
	return &ActivityLogService{db: db}
}

type ActivityLogListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Level    string `form:"level"`
	Module   string `form:"module"`
	Search   string `form:"search"`
}

type ActivityLogListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.ActivityLog `json:"items"`
}

func (s *ActivityLogService) List(req *ActivityLogListRequest) (*ActivityLogListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var logs []models.ActivityLog
	var total int64

	query := s.db.Model(&models.ActivityLog{})

	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}
	if req.Search != "" {
		query = query.Where("message LIKE ?", "%"+req.Search+"%")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return &ActivityLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}

// CleanupOldLogs deletes entries older than retentionDays.
// Returns the number of deleted records.
func (s *ActivityLogService) CleanupOldLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// PurgeExpiredRefreshTokens deletes refresh tokens that expired or were
// revoked more than retentionDays ago.
func (s *ActivityLogService) PurgeExpiredRefreshTokens(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", cutoff, cutoff).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

var cleanupCron *cron.Cron

// StartCleanupScheduler prunes old activity logs and stale refresh tokens
// every night at 03:30.
func StartCleanupScheduler(db *gorm.DB, retentionDays int) {
	service := NewActivityLogService(db)

	cleanupCron = cron.New()
	_, err := cleanupCron.AddFunc("30 3 * * *", func() {
		runCleanup(service, retentionDays)
	})
	if err != nil {
		logger.Errorf("[Cleanup] Failed to schedule cleanup job: %v", err)
		return
	}

	cleanupCron.Start()

	// Also run once at startup
	go runCleanup(service, retentionDays)
}

// StopCleanupScheduler stops the nightly cleanup job.
func StopCleanupScheduler() {
	if cleanupCron != nil {
		cleanupCron.Stop()
	}
}

func runCleanup(service *ActivityLogService, retentionDays int) {
	deleted, err := service.CleanupOldLogs(retentionDays)
	if err != nil {
		logger.Errorf("[Cleanup] Failed to cleanup activity logs: %v", err)
	} else if deleted > 0 {
		logger.Infof("[Cleanup] Removed %d activity logs older than %d days", deleted, retentionDays)
	}

	purged, err := service.PurgeExpiredRefreshTokens(retentionDays)
	if err != nil {
		logger.Errorf("[Cleanup] Failed to purge refresh tokens: %v", err)
	} else if purged > 0 {
		logger.Infof("[Cleanup] Purged %d stale refresh tokens", purged)
	}
}
