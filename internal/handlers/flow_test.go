package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PvUtrix/shked-sub003/internal/bot"
	"github.com/PvUtrix/shked-sub003/internal/messenger"
	"github.com/PvUtrix/shked-sub003/internal/middleware"
	"github.com/PvUtrix/shked-sub003/internal/models"
	"github.com/PvUtrix/shked-sub003/internal/services"
	"github.com/PvUtrix/shked-sub003/internal/testutil"
)

const flowWebhookSecret = "flow-secret"

// flowApp is the full HTTP stack over an isolated SQLite database.
type flowApp struct {
	Router   *gin.Engine
	Telegram *fakeTelegramSender
	Max      *fakeSender
}

func setupFlowApp(t *testing.T) (*flowApp, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	tg := &fakeTelegramSender{fakeSender{platform: models.PlatformTelegram}}
	mx := &fakeSender{platform: models.PlatformMax}
	senders := []messenger.Sender{tg, mx}

	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db, services.DefaultTokenTTL)
	registry := services.NewMessengerService(db)
	linkService := services.NewLinkService(db, tokenService, registry)
	notifier := services.NewNotificationService(registry, userService, senders, services.DefaultNotificationOptions)
	auditService := services.NewAuditService(db)

	botRouter := bot.NewRouter()
	bot.RegisterAllCommands(botRouter, bot.Deps{
		Links:    linkService,
		Registry: registry,
		Schedule: services.NewScheduleService(db),
		Users:    userService,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	Routes{
		Auth:                  NewAuthHandler(userService, auditService),
		Messenger:             NewMessengerHandler(linkService, registry, auditService),
		Notification:          NewNotificationHandler(notifier, registry, auditService),
		Webhook:               NewWebhookHandler(registry, botRouter, senders...),
		TelegramWebhookSecret: flowWebhookSecret,
	}.Register(router)

	return &flowApp{Router: router, Telegram: tg, Max: mx}, db
}

func (a *flowApp) do(method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

// telegramText posts a private-chat text message from the given Telegram user.
func (a *flowApp) telegramText(userID int64, text string) *httptest.ResponseRecorder {
	body := fmt.Sprintf(`{"update_id":%d,"message":{"message_id":1,"date":0,"chat":{"id":%d,"type":"private"},"from":{"id":%d,"is_bot":false,"first_name":"Студент"},"text":%q}}`,
		userID, userID, userID, text)
	return a.do("POST", "/api/v1/webhooks/telegram", "", body, middleware.TelegramSecretHeader, flowWebhookSecret)
}

func (a *flowApp) login(t *testing.T, email string) string {
	t.Helper()
	rec := a.do("POST", "/api/v1/auth/login", "", fmt.Sprintf(`{"email":%q,"password":"password123"}`, email))
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

func TestFlow_LinkAndBroadcast(t *testing.T) {
	app, db := setupFlowApp(t)

	// Student registers on the web.
	rec := app.do("POST", "/api/v1/auth/register", "",
		`{"email":"student@shked.test","password":"password123","first_name":"Мария","last_name":"Иванова"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	studentToken := parseJSON(t, rec)["token"].(string)

	// And asks for a link code.
	rec = app.do("GET", "/api/v1/messenger/link", studentToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("issue link token: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	linkToken := parseJSON(t, rec)["token"].(string)

	// First contact with the bot.
	const tgUser = int64(424242)
	rec = app.telegramText(tgUser, "/start")
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook /start: expected 200, got %d", rec.Code)
	}
	if got := app.Telegram.last().Text; !strings.Contains(got, "Добро пожаловать") {
		t.Errorf("expected welcome reply, got %q", got)
	}

	// Token is valid before redemption.
	rec = app.do("POST", "/api/v1/messenger/link", studentToken, fmt.Sprintf(`{"token":%q}`, linkToken))
	if status := parseJSON(t, rec); status["valid"] != true || status["linked"] != false {
		t.Fatalf("expected valid unlinked status, got %v", status)
	}

	// Redeem in lower case.
	app.telegramText(tgUser, "/link "+strings.ToLower(linkToken))
	if got := app.Telegram.last().Text; !strings.Contains(got, "Мария Иванова") {
		t.Fatalf("expected link success naming the owner, got %q", got)
	}

	// The code is spent and the account shows up on the web.
	rec = app.do("POST", "/api/v1/messenger/link", studentToken, fmt.Sprintf(`{"token":%q}`, linkToken))
	if status := parseJSON(t, rec); status["valid"] != false || status["linked"] != true {
		t.Errorf("expected consumed linked status, got %v", status)
	}
	rec = app.do("GET", "/api/v1/messenger/accounts", studentToken, "")
	accounts := parseJSON(t, rec)["accounts"].([]interface{})
	if len(accounts) != 1 {
		t.Fatalf("expected 1 linked account, got %d", len(accounts))
	}
	if accounts[0].(map[string]interface{})["external_id"] != float64(tgUser) {
		t.Errorf("unexpected account %v", accounts[0])
	}

	// Reusing the code from another messenger identity fails.
	app.telegramText(tgUser+1, "/link "+linkToken)
	if got := app.Telegram.last().Text; !strings.Contains(got, "недействителен") {
		t.Errorf("expected already-used reply, got %q", got)
	}

	// Students cannot broadcast.
	rec = app.do("POST", "/api/v1/admin/notifications", studentToken, `{"type":"broadcast_all","message":"hi"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("student broadcast: expected 403, got %d", rec.Code)
	}

	// Admin broadcast reaches the linked student only.
	admin := testutil.CreateTestUserWithRole(t, db, models.RoleAdmin, nil)
	adminToken := app.login(t, admin.Email)
	rec = app.do("POST", "/api/v1/admin/notifications", adminToken, `{"type":"broadcast_all","message":"Завтра пары отменены"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin broadcast: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["sent"] != float64(1) || result["total"] != float64(1) {
		t.Errorf("expected 1/1 delivered, got %v", result)
	}
	if got := app.Telegram.last(); got.ChatID != tgUser || got.Text != "Завтра пары отменены" {
		t.Errorf("unexpected broadcast delivery %+v", got)
	}

	// The registry knows both identities that talked to the bot.
	rec = app.do("GET", "/api/v1/admin/messenger/accounts", adminToken, "")
	if total := parseJSON(t, rec)["total_items"]; total != float64(2) {
		t.Errorf("expected 2 registry entries, got %v", total)
	}

	// Unlink from the web and the bot notices.
	rec = app.do("DELETE", "/api/v1/messenger/link/telegram", studentToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unlink: expected 200, got %d", rec.Code)
	}
	app.telegramText(tgUser, "/status")
	if got := app.Telegram.last().Text; !strings.Contains(got, "не привязан") {
		t.Errorf("expected not-linked status reply, got %q", got)
	}
}

func TestFlow_LinkAsFirstMessage(t *testing.T) {
	app, db := setupFlowApp(t)
	registry := services.NewMessengerService(db)

	rec := app.do("POST", "/api/v1/auth/register", "",
		`{"email":"first@shked.test","password":"password123","first_name":"Пётр","last_name":"Смирнов"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	webToken := parseJSON(t, rec)["token"].(string)
	rec = app.do("GET", "/api/v1/messenger/link", webToken, "")
	linkToken := parseJSON(t, rec)["token"].(string)

	// The bot has never heard from this identity.
	const tgUser = int64(515151)
	if _, err := registry.FindByExternalID(models.PlatformTelegram, tgUser); err == nil {
		t.Fatal("expected no registry record before first contact")
	}

	rec = app.telegramText(tgUser, "/link "+linkToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook /link: expected 200, got %d", rec.Code)
	}
	if got := app.Telegram.last().Text; !strings.HasPrefix(got, "Готово!") || !strings.Contains(got, "Пётр Смирнов") {
		t.Fatalf("expected link success on first contact, got %q", got)
	}

	account, err := registry.FindByExternalID(models.PlatformTelegram, tgUser)
	if err != nil {
		t.Fatalf("expected registry record after first contact: %v", err)
	}
	if !account.IsLinked() {
		t.Error("expected the new record to be linked")
	}
	if account.ChatID != tgUser || account.FirstName != "Студент" {
		t.Errorf("expected profile from the update, got %+v", account)
	}
	if account.MessageCount != 1 {
		t.Errorf("expected activity recorded once, got %d", account.MessageCount)
	}
}

func TestFlow_WebhookSecret(t *testing.T) {
	app, db := setupFlowApp(t)
	registry := services.NewMessengerService(db)

	body := `{"update_id":1,"message":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"},"from":{"id":1,"is_bot":false,"first_name":"X"},"text":"/start"}}`

	rec := app.do("POST", "/api/v1/webhooks/telegram", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", rec.Code)
	}
	rec = app.do("POST", "/api/v1/webhooks/telegram", "", body, middleware.TelegramSecretHeader, "wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong secret, got %d", rec.Code)
	}
	if len(app.Telegram.messages) != 0 {
		t.Error("rejected webhook must not reply")
	}

	// Max has no secret configured, so its endpoint refuses everything.
	rec = app.do("POST", "/api/v1/webhooks/max", "", `{"update_type":"bot_started","chat_id":9,"user":{"user_id":9,"name":"Y"}}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for unconfigured max webhook, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "WEBHOOK_NOT_CONFIGURED")
	if len(app.Max.messages) != 0 {
		t.Error("unconfigured webhook must not reply")
	}
	if _, err := registry.FindByExternalID(models.PlatformMax, 9); err == nil {
		t.Error("unconfigured webhook must not touch the registry")
	}
}

func TestFlow_HealthAndAuth(t *testing.T) {
	app, _ := setupFlowApp(t)

	rec := app.do("GET", "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}

	rec = app.do("GET", "/api/v1/messenger/link", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}
