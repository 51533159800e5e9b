package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PvUtrix/shked-sub003/internal/logger"
	"github.com/PvUtrix/shked-sub003/internal/models"
	"github.com/PvUtrix/shked-sub003/internal/pagination"
	"github.com/PvUtrix/shked-sub003/internal/services"
	"github.com/PvUtrix/shked-sub003/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn     func(email, password, firstName, lastName string) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id string) (*models.User, error)
	verifyPasswordFn func(user *models.User, password string) bool
	recordLoginFn    func(userID string) error
	getGroupFn       func(identifier string) (*models.Group, error)
}

func (m *mockUserService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, firstName, lastName)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) RecordLogin(userID string) error {
	if m.recordLoginFn != nil {
		return m.recordLoginFn(userID)
	}
	return nil
}

func (m *mockUserService) GetGroup(identifier string) (*models.Group, error) {
	if m.getGroupFn != nil {
		return m.getGroupFn(identifier)
	}
	return &models.Group{}, nil
}

type mockLinkService struct {
	issueTokenFn func(userID string) (*models.LinkToken, error)
	statusFn     func(userID, token string) (*services.LinkStatus, error)
	redeemFn     func(platform models.Platform, externalID int64, token string) (*models.MessengerAccount, error)
}

func (m *mockLinkService) IssueToken(userID string) (*models.LinkToken, error) {
	if m.issueTokenFn != nil {
		return m.issueTokenFn(userID)
	}
	return &models.LinkToken{UserID: userID, Token: "ABC234", ExpiresAt: time.Now().Add(15 * time.Minute)}, nil
}

func (m *mockLinkService) Status(userID, token string) (*services.LinkStatus, error) {
	if m.statusFn != nil {
		return m.statusFn(userID, token)
	}
	return &services.LinkStatus{Accounts: []models.MessengerAccount{}}, nil
}

func (m *mockLinkService) Redeem(platform models.Platform, externalID int64, token string) (*models.MessengerAccount, error) {
	if m.redeemFn != nil {
		return m.redeemFn(platform, externalID, token)
	}
	return &models.MessengerAccount{}, nil
}

type mockMessengerService struct {
	upsertProfileFn      func(platform models.Platform, externalID, chatID int64, profile services.Profile) error
	recordActivityFn     func(platform models.Platform, externalID int64) error
	findByExternalIDFn   func(platform models.Platform, externalID int64) (*models.MessengerAccount, error)
	findByWebAccountFn   func(userID string, platform models.Platform) (*models.MessengerAccount, error)
	listByWebAccountFn   func(userID string) ([]models.MessengerAccount, error)
	linkAccountFn        func(platform models.Platform, externalID int64, userID string) (*models.MessengerAccount, error)
	unlinkFn             func(platform models.Platform, externalID int64) error
	unlinkByWebAccountFn func(userID string, platform models.Platform) error
	setNotificationsFn   func(platform models.Platform, externalID int64, enabled bool) error
	listRecipientsFn     func(filter services.RecipientFilter) ([]models.MessengerAccount, error)
	listAccountsFn       func(page pagination.PageRequest) (*pagination.PageResponse[models.MessengerAccount], error)
}

func (m *mockMessengerService) UpsertProfile(platform models.Platform, externalID, chatID int64, profile services.Profile) error {
	if m.upsertProfileFn != nil {
		return m.upsertProfileFn(platform, externalID, chatID, profile)
	}
	return nil
}

func (m *mockMessengerService) RecordActivity(platform models.Platform, externalID int64) error {
	if m.recordActivityFn != nil {
		return m.recordActivityFn(platform, externalID)
	}
	return nil
}

func (m *mockMessengerService) FindByExternalID(platform models.Platform, externalID int64) (*models.MessengerAccount, error) {
	if m.findByExternalIDFn != nil {
		return m.findByExternalIDFn(platform, externalID)
	}
	return &models.MessengerAccount{Platform: platform, ExternalID: externalID}, nil
}

func (m *mockMessengerService) FindByWebAccount(userID string, platform models.Platform) (*models.MessengerAccount, error) {
	if m.findByWebAccountFn != nil {
		return m.findByWebAccountFn(userID, platform)
	}
	return &models.MessengerAccount{}, nil
}

func (m *mockMessengerService) ListByWebAccount(userID string) ([]models.MessengerAccount, error) {
	if m.listByWebAccountFn != nil {
		return m.listByWebAccountFn(userID)
	}
	return nil, nil
}

func (m *mockMessengerService) LinkAccount(platform models.Platform, externalID int64, userID string) (*models.MessengerAccount, error) {
	if m.linkAccountFn != nil {
		return m.linkAccountFn(platform, externalID, userID)
	}
	return &models.MessengerAccount{}, nil
}

func (m *mockMessengerService) Unlink(platform models.Platform, externalID int64) error {
	if m.unlinkFn != nil {
		return m.unlinkFn(platform, externalID)
	}
	return nil
}

func (m *mockMessengerService) UnlinkByWebAccount(userID string, platform models.Platform) error {
	if m.unlinkByWebAccountFn != nil {
		return m.unlinkByWebAccountFn(userID, platform)
	}
	return nil
}

func (m *mockMessengerService) SetNotifications(platform models.Platform, externalID int64, enabled bool) error {
	if m.setNotificationsFn != nil {
		return m.setNotificationsFn(platform, externalID, enabled)
	}
	return nil
}

func (m *mockMessengerService) ListRecipients(filter services.RecipientFilter) ([]models.MessengerAccount, error) {
	if m.listRecipientsFn != nil {
		return m.listRecipientsFn(filter)
	}
	return nil, nil
}

func (m *mockMessengerService) ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.MessengerAccount], error) {
	if m.listAccountsFn != nil {
		return m.listAccountsFn(page)
	}
	resp := pagination.NewPageResponse[models.MessengerAccount](nil, 1, 20, 0)
	return &resp, nil
}

type mockNotificationService struct {
	sendToUserFn     func(ctx context.Context, userID, text string) bool
	sendToExternalFn func(ctx context.Context, platform models.Platform, externalID int64, text string) bool
	broadcastAllFn   func(ctx context.Context, text string, role models.Role) services.DeliveryResult
	broadcastGroupFn func(ctx context.Context, group, text string) (services.DeliveryResult, error)
}

func (m *mockNotificationService) SendToUser(ctx context.Context, userID, text string) bool {
	if m.sendToUserFn != nil {
		return m.sendToUserFn(ctx, userID, text)
	}
	return true
}

func (m *mockNotificationService) SendToExternal(ctx context.Context, platform models.Platform, externalID int64, text string) bool {
	if m.sendToExternalFn != nil {
		return m.sendToExternalFn(ctx, platform, externalID, text)
	}
	return true
}

func (m *mockNotificationService) BroadcastAll(ctx context.Context, text string, role models.Role) services.DeliveryResult {
	if m.broadcastAllFn != nil {
		return m.broadcastAllFn(ctx, text, role)
	}
	return services.DeliveryResult{}
}

func (m *mockNotificationService) BroadcastGroup(ctx context.Context, group, text string) (services.DeliveryResult, error) {
	if m.broadcastGroupFn != nil {
		return m.broadcastGroupFn(ctx, group, text)
	}
	return services.DeliveryResult{}, nil
}

type mockAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (m *mockAuditService) Log(_, action, _, _, _ string, _ map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
}

// fakeSender records outbound messages and callback answers.
type fakeSender struct {
	platform models.Platform
	err      error

	mu       sync.Mutex
	messages []sentMessage
	answered []string
}

type sentMessage struct {
	ChatID int64
	Text   string
}

func (f *fakeSender) Platform() models.Platform { return f.platform }

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeSender) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return sentMessage{}
	}
	return f.messages[len(f.messages)-1]
}

// fakeTelegramSender also answers callbacks, like the real Telegram client.
type fakeTelegramSender struct {
	fakeSender
}

func (f *fakeTelegramSender) AnswerCallback(_ context.Context, callbackID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, callbackID)
	return nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func injectUser(uid string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Set("role", role)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
