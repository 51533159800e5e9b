package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PvUtrix/shked-sub003/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a student with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleStudent, nil)
}

// CreateTestUserWithEmail creates a student with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return createUser(t, db, email, models.RoleStudent, nil)
}

// CreateTestUserWithRole creates a user with the given role, optionally in a group.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.Role, group *models.Group) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return createUser(t, db, email, role, group)
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role, group *models.Group) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", nextID()),
		Role:      role,
		IsActive:  true,
	}
	if group != nil {
		user.GroupID = &group.ID
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGroup creates a study group with a unique name.
func CreateTestGroup(t *testing.T, db *gorm.DB) *models.Group {
	t.Helper()

	group := &models.Group{Name: fmt.Sprintf("ГР-%d", nextID())}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateTestMessengerAccount creates an unlinked messenger account.
func CreateTestMessengerAccount(t *testing.T, db *gorm.DB, platform models.Platform) *models.MessengerAccount {
	t.Helper()

	n := nextID()
	account := &models.MessengerAccount{
		Platform:             platform,
		ExternalID:           100000 + n,
		ChatID:               100000 + n,
		FirstName:            fmt.Sprintf("Chat%d", n),
		IsActive:             true,
		NotificationsEnabled: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test messenger account: %v", err)
	}
	return account
}

// CreateTestLinkedAccount creates a messenger account linked to the given user.
func CreateTestLinkedAccount(t *testing.T, db *gorm.DB, platform models.Platform, userID string) *models.MessengerAccount {
	t.Helper()

	account := CreateTestMessengerAccount(t, db, platform)
	now := time.Now().UTC()
	if err := db.Model(account).Updates(map[string]interface{}{"owner_id": userID, "linked_at": now}).Error; err != nil {
		t.Fatalf("failed to link test messenger account: %v", err)
	}
	account.OwnerID = &userID
	account.LinkedAt = &now
	return account
}

// CreateTestLinkToken stores a link token for the user expiring at expiresAt.
func CreateTestLinkToken(t *testing.T, db *gorm.DB, userID, token string, expiresAt time.Time) *models.LinkToken {
	t.Helper()

	lt := &models.LinkToken{
		UserID:    userID,
		Purpose:   models.LinkPurposeMessenger,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	}
	if err := db.Create(lt).Error; err != nil {
		t.Fatalf("failed to create test link token: %v", err)
	}
	return lt
}

// CreateTestLesson creates a lesson for the group starting at startsAt.
func CreateTestLesson(t *testing.T, db *gorm.DB, groupID string, startsAt time.Time) *models.Lesson {
	t.Helper()

	lesson := &models.Lesson{
		GroupID:  groupID,
		Subject:  fmt.Sprintf("Предмет %d", nextID()),
		Teacher:  "Иванов И.И.",
		Room:     "301",
		StartsAt: startsAt.UTC(),
		EndsAt:   startsAt.Add(90 * time.Minute).UTC(),
	}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("failed to create test lesson: %v", err)
	}
	return lesson
}

// CreateTestHomework creates a homework assignment due at dueAt.
func CreateTestHomework(t *testing.T, db *gorm.DB, groupID string, dueAt time.Time) *models.Homework {
	t.Helper()

	hw := &models.Homework{
		GroupID: groupID,
		Subject: "Математика",
		Title:   fmt.Sprintf("Задание %d", nextID()),
		DueAt:   dueAt.UTC(),
	}
	if err := db.Create(hw).Error; err != nil {
		t.Fatalf("failed to create test homework: %v", err)
	}
	return hw
}
