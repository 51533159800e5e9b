package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PvUtrix/shked-sub003/internal/models"
	"github.com/PvUtrix/shked-sub003/internal/testutil"
	"github.com/PvUtrix/shked-sub003/internal/validator"
)

func newTestTokenService(t *testing.T) (*tokenService, *models.User, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewTokenService(db, 0).(*tokenService)
	user := testutil.CreateTestUser(t, db)
	return svc, user, func() { testutil.TeardownTestDB(t, db) }
}

func TestIssueToken(t *testing.T) {
	t.Run("shape_and_ttl", func(t *testing.T) {
		svc, user, done := newTestTokenService(t)
		defer done()

		now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return now }

		lt, err := svc.Issue(user.ID)
		testutil.AssertNoError(t, err)

		if !validator.IsBareLinkToken(lt.Token) {
			t.Errorf("expected 6 characters of the token alphabet with a digit, got %q", lt.Token)
		}
		if !lt.ExpiresAt.Equal(now.Add(15 * time.Minute)) {
			t.Errorf("expected expiry %v, got %v", now.Add(15*time.Minute), lt.ExpiresAt)
		}
		if lt.IsConsumed() {
			t.Error("expected fresh token to be unconsumed")
		}
	})

	t.Run("latest_issue_wins", func(t *testing.T) {
		svc, user, done := newTestTokenService(t)
		defer done()

		first, err := svc.Issue(user.ID)
		testutil.AssertNoError(t, err)
		second, err := svc.Issue(user.ID)
		testutil.AssertNoError(t, err)

		if first.Token != second.Token && svc.Validate(user.ID, first.Token) {
			t.Error("expected the earlier token to stop validating")
		}
		if !svc.Validate(user.ID, second.Token) {
			t.Error("expected the latest token to validate")
		}

		var count int64
		svc.db.Model(&models.LinkToken{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 outstanding token, got %d", count)
		}
	})

	t.Run("empty_user", func(t *testing.T) {
		svc, _, done := newTestTokenService(t)
		defer done()

		_, err := svc.Issue("")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestValidateToken(t *testing.T) {
	svc, user, done := newTestTokenService(t)
	defer done()
	other := testutil.CreateTestUser(t, svc.db)

	lt, err := svc.Issue(user.ID)
	testutil.AssertNoError(t, err)

	tests := []struct {
		name   string
		userID string
		token  string
		want   bool
	}{
		{"matching", user.ID, lt.Token, true},
		{"lower_case", user.ID, "  " + strings.ToLower(lt.Token) + " ", true},
		{"other_user", other.ID, lt.Token, false},
		{"unknown_token", user.ID, "ZZZZZZ", false},
		{"empty", user.ID, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Validate(tt.userID, tt.token); got != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestConsumeToken(t *testing.T) {
	t.Run("exactly_once", func(t *testing.T) {
		svc, user, done := newTestTokenService(t)
		defer done()

		lt, err := svc.Issue(user.ID)
		testutil.AssertNoError(t, err)

		if !svc.Validate(user.ID, lt.Token) {
			t.Fatal("expected token to validate before consume")
		}
		if !svc.Consume(user.ID, lt.Token) {
			t.Fatal("expected first consume to succeed")
		}
		if svc.Consume(user.ID, lt.Token) {
			t.Error("expected second consume to fail")
		}
		if svc.Validate(user.ID, lt.Token) {
			t.Error("expected consumed token to no longer validate")
		}
	})

	t.Run("after_ttl", func(t *testing.T) {
		svc, user, done := newTestTokenService(t)
		defer done()

		now := time.Now().UTC()
		svc.now = func() time.Time { return now }
		lt, err := svc.Issue(user.ID)
		testutil.AssertNoError(t, err)

		svc.now = func() time.Time { return now.Add(15 * time.Minute) }
		if svc.Validate(user.ID, lt.Token) {
			t.Error("expected token to be invalid at expiry")
		}
		if svc.Consume(user.ID, lt.Token) {
			t.Error("expected consume to fail after TTL")
		}
	})

	t.Run("concurrent_redemptions", func(t *testing.T) {
		svc, user, done := newTestTokenService(t)
		defer done()

		lt, err := svc.Issue(user.ID)
		testutil.AssertNoError(t, err)

		const attempts = 10
		var wg sync.WaitGroup
		var mu sync.Mutex
		start := make(chan struct{})
		wins := 0
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if svc.Consume(user.ID, lt.Token) {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		close(start)
		wg.Wait()

		if wins > 1 {
			t.Fatalf("expected at most 1 successful consume, got %d", wins)
		}
		// A consume that lost to a table lock leaves the token spendable once.
		if svc.Consume(user.ID, lt.Token) {
			if wins == 1 {
				t.Fatal("token consumed twice")
			}
			wins++
		}
		if wins != 1 {
			t.Errorf("expected exactly 1 successful consume, got %d", wins)
		}
	})
}

func TestLookupToken(t *testing.T) {
	svc, user, done := newTestTokenService(t)
	defer done()

	now := time.Now().UTC()
	testutil.CreateTestLinkToken(t, svc.db, user.ID, "LIVE22", now.Add(10*time.Minute))
	testutil.CreateTestLinkToken(t, svc.db, user.ID, "OLD333", now.Add(-time.Minute))
	used := testutil.CreateTestLinkToken(t, svc.db, user.ID, "USED44", now.Add(-time.Minute))
	svc.db.Model(used).Update("consumed_at", now.Add(-2*time.Minute))

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{"live", "live22", ""},
		{"expired", "OLD333", "TOKEN_EXPIRED"},
		{"used_reported_before_expiry", "USED44", "TOKEN_ALREADY_USED"},
		{"unknown", "NOPE55", "TOKEN_NOT_FOUND"},
		{"blank", "   ", "TOKEN_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lt, err := svc.Lookup(tt.token)
			if tt.wantCode != "" {
				testutil.AssertAppError(t, err, tt.wantCode)
				return
			}
			testutil.AssertNoError(t, err)
			if lt.UserID != user.ID {
				t.Errorf("expected owner %s, got %s", user.ID, lt.UserID)
			}
		})
	}
}

func TestPurgeExpired(t *testing.T) {
	svc, user, done := newTestTokenService(t)
	defer done()

	now := time.Now().UTC()
	testutil.CreateTestLinkToken(t, svc.db, user.ID, "KEEP22", now.Add(10*time.Minute))
	testutil.CreateTestLinkToken(t, svc.db, user.ID, "GONE33", now.Add(-time.Minute))
	used := testutil.CreateTestLinkToken(t, svc.db, user.ID, "GONE44", now.Add(10*time.Minute))
	svc.db.Model(used).Update("consumed_at", now.Add(-time.Minute))

	purged, err := svc.PurgeExpired(now)
	testutil.AssertNoError(t, err)
	if purged != 2 {
		t.Errorf("expected 2 purged tokens, got %d", purged)
	}

	var remaining []models.LinkToken
	svc.db.Unscoped().Find(&remaining)
	if len(remaining) != 1 || remaining[0].Token != "KEEP22" {
		t.Errorf("expected only KEEP22 to remain, got %+v", remaining)
	}
}
