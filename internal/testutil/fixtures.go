package testutil

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mari/awards-voting/internal/domain"
	"gorm.io/gorm"
)

// SeedUser inserts a user and returns it.
func SeedUser(t *testing.T, db *gorm.DB, email string, isAdmin bool) *domain.User {
	t.Helper()

	now := time.Now()
	user := &domain.User{
		ID:        uuid.New(),
		Email:     domain.NormalizeEmail(email),
		IsAdmin:   isAdmin,
		CreatedAt: now,
		LastLogin: &now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// SeedCategory inserts a category with the given number of nominees.
func SeedCategory(t *testing.T, db *gorm.DB, name string, nomineeCount int) *domain.Category {
	t.Helper()

	category := &domain.Category{
		ID:   uuid.New(),
		Name: name,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	for i := 0; i < nomineeCount; i++ {
		nominee := &domain.Nominee{
			ID:         uuid.New(),
			CategoryID: category.ID,
			Name:       name + " nominee " + strconv.Itoa(i+1),
		}
		if err := db.Create(nominee).Error; err != nil {
			t.Fatalf("failed to seed nominee: %v", err)
		}
		category.Nominees = append(category.Nominees, *nominee)
	}
	return category
}

// OpenVoting flips the settings so the admission gate passes.
func OpenVoting(t *testing.T, db *gorm.DB) {
	t.Helper()

	setting := &domain.Setting{
		Key:       domain.SettingVotingOpen,
		Value:     "true",
		UpdatedAt: time.Now(),
	}
	if err := db.Save(setting).Error; err != nil {
		t.Fatalf("failed to open voting: %v", err)
	}
}

// CapturedEmail is one delivery recorded by the CapturingSender.
type CapturedEmail struct {
	To            string
	Code          string
	Link          string
	CategoryCount int
}

// CapturingSender records deliveries instead of sending them. Deliveries are
// pushed to buffered channels because production code dispatches them from a
// goroutine; tests receive with a timeout via the Wait helpers.
type CapturingSender struct {
	OTPs          chan CapturedEmail
	Links         chan CapturedEmail
	Confirmations chan CapturedEmail
}

func NewCapturingSender() *CapturingSender {
	return &CapturingSender{
		OTPs:          make(chan CapturedEmail, 16),
		Links:         make(chan CapturedEmail, 16),
		Confirmations: make(chan CapturedEmail, 16),
	}
}

func (s *CapturingSender) SendOTP(ctx context.Context, to, code string) error {
	s.OTPs <- CapturedEmail{To: to, Code: code}
	return nil
}

func (s *CapturingSender) SendMagicLink(ctx context.Context, to, link string) error {
	s.Links <- CapturedEmail{To: to, Link: link}
	return nil
}

func (s *CapturingSender) SendVoteConfirmation(ctx context.Context, to string, categoryCount int) error {
	s.Confirmations <- CapturedEmail{To: to, CategoryCount: categoryCount}
	return nil
}

// WaitOTP blocks until an OTP delivery is captured or the timeout lapses.
func (s *CapturingSender) WaitOTP(t *testing.T) CapturedEmail {
	t.Helper()
	return waitCapture(t, s.OTPs, "otp")
}

func (s *CapturingSender) WaitLink(t *testing.T) CapturedEmail {
	t.Helper()
	return waitCapture(t, s.Links, "magic link")
}

func (s *CapturingSender) WaitConfirmation(t *testing.T) CapturedEmail {
	t.Helper()
	return waitCapture(t, s.Confirmations, "confirmation")
}

func waitCapture(t *testing.T, ch chan CapturedEmail, kind string) CapturedEmail {
	t.Helper()
	select {
	case captured := <-ch:
		return captured
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s delivery", kind)
		return CapturedEmail{}
	}
}
