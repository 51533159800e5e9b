package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/PvUtrix/shked-sub003/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func setupWebhookRouter(secret string) *gin.Engine {
	r := gin.New()
	r.Use(WebhookSecretMiddleware(TelegramSecretHeader, secret))
	r.POST("/hook", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doWebhookRequest(r *gin.Engine, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hook", http.NoBody)
	if secret != "" {
		req.Header.Set(TelegramSecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func TestWebhookSecretMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		configured    string
		sent          string
		wantStatus    int
		wantErrorCode string
	}{
		{
			name:       "matching_secret",
			configured: "s3cret",
			sent:       "s3cret",
			wantStatus: http.StatusOK,
		},
		{
			name:          "wrong_secret",
			configured:    "s3cret",
			sent:          "guess",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_WEBHOOK_SECRET",
		},
		{
			name:          "missing_secret",
			configured:    "s3cret",
			sent:          "",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_WEBHOOK_SECRET",
		},
		{
			name:          "prefix_rejected",
			configured:    "s3cret",
			sent:          "s3c",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_WEBHOOK_SECRET",
		},
		{
			name:          "not_configured",
			configured:    "",
			sent:          "",
			wantStatus:    http.StatusServiceUnavailable,
			wantErrorCode: "WEBHOOK_NOT_CONFIGURED",
		},
		{
			name:          "not_configured_ignores_header",
			configured:    "",
			sent:          "anything",
			wantStatus:    http.StatusServiceUnavailable,
			wantErrorCode: "WEBHOOK_NOT_CONFIGURED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doWebhookRequest(setupWebhookRouter(tt.configured), tt.sent)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			body := parseBody(t, rec)
			if tt.wantErrorCode != "" {
				errObj, ok := body["error"].(map[string]interface{})
				if !ok {
					t.Fatal("expected error object in response")
				}
				if code, _ := errObj["code"].(string); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
				return
			}
			if ok, _ := body["ok"].(bool); !ok {
				t.Error("expected handler to be reached")
			}
		})
	}
}
