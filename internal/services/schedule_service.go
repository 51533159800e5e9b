package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/models"
)

// scheduleService reads lessons and homework for the bot's informational commands.
type scheduleService struct {
	db *gorm.DB
}

// NewScheduleService creates a new ScheduleServicer.
func NewScheduleService(db *gorm.DB) ScheduleServicer {
	return &scheduleService{db: db}
}

// LessonsForDay returns the lessons of the user's group on the calendar day of `day`.
func (s *scheduleService) LessonsForDay(userID string, day time.Time) ([]models.Lesson, error) {
	groupID, err := s.groupOf(userID)
	if err != nil {
		return nil, err
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var lessons []models.Lesson
	if err := s.db.Where("group_id = ? AND starts_at >= ? AND starts_at < ?", groupID, start.UTC(), end.UTC()).
		Order("starts_at ASC").
		Find(&lessons).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return lessons, nil
}

// UpcomingHomework returns homework of the user's group due in [from, from+within).
func (s *scheduleService) UpcomingHomework(userID string, from time.Time, within time.Duration) ([]models.Homework, error) {
	groupID, err := s.groupOf(userID)
	if err != nil {
		return nil, err
	}

	var homework []models.Homework
	if err := s.db.Where("group_id = ? AND due_at >= ? AND due_at < ?", groupID, from.UTC(), from.Add(within).UTC()).
		Order("due_at ASC").
		Find(&homework).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return homework, nil
}

func (s *scheduleService) groupOf(userID string) (string, error) {
	var user models.User
	if err := s.db.Select("id", "group_id").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if user.GroupID == nil {
		return "", apperrors.ErrGroupNotFound
	}
	return *user.GroupID, nil
}
