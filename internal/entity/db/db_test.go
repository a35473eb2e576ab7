package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBudgetUtilization(t *testing.T) {
	assert.Equal(t, 0.0, BudgetUtilization(500, 0))
	assert.Equal(t, 0.0, BudgetUtilization(0, 0))
	assert.Equal(t, 25.0, BudgetUtilization(250, 1000))
	assert.InDelta(t, 133.33, BudgetUtilization(400, 300), 0.01)
}

func TestProjectAfterFindComputesUtilization(t *testing.T) {
	p := &Project{BudgetAmount: 1000, SpentAmount: 250}
	assert.NoError(t, p.AfterFind(nil))
	assert.Equal(t, 25.0, p.BudgetUtilization)
}

func TestGateOpen(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		want    bool
	}{
		{"member unapproved", Account{Role: RoleMember}, false},
		{"member approved", Account{Role: RoleMember, IsApproved: true}, true},
		{"donor unapproved", Account{Role: RoleDonor, IsVerified: true}, false},
		{"donor approved", Account{Role: RoleDonor, IsApproved: true}, true},
		{"official unverified", Account{Role: RoleCountyOfficial, IsApproved: true}, false},
		{"official verified", Account{Role: RoleCountyOfficial, IsVerified: true}, true},
		{"admin without flags", Account{Role: RoleAdmin}, true},
		{"super admin without flags", Account{Role: RoleSuperAdmin}, true},
		{"public", Account{Role: RolePublic}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := tt.account
			assert.Equal(t, tt.want, acc.GateOpen())
		})
	}
}

func TestEventCapacityAndDeadline(t *testing.T) {
	max := 2
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(-time.Hour)

	e := &Event{MaxParticipants: &max, RegisteredCount: 1}
	assert.False(t, e.IsFull())
	e.RegisteredCount = 2
	assert.True(t, e.IsFull())

	unlimited := &Event{RegisteredCount: 1000}
	assert.False(t, unlimited.IsFull())

	e.RegistrationDeadline = &deadline
	assert.True(t, e.DeadlinePassed(now))
	assert.False(t, e.DeadlinePassed(deadline.Add(-time.Minute)))
}

func TestGalleryAfterFindDerivesEmbed(t *testing.T) {
	item := &GalleryItem{MediaType: MediaVideo, URL: "https://youtu.be/dQw4w9WgXcQ"}
	assert.NoError(t, item.AfterFind(nil))
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", item.EmbedURL)

	image := &GalleryItem{MediaType: MediaImage, URL: "https://youtu.be/dQw4w9WgXcQ"}
	assert.NoError(t, image.AfterFind(nil))
	assert.Empty(t, image.EmbedURL)
}

func TestCSVHelpers(t *testing.T) {
	m := &MemberProfile{Skills: "carpentry, ,  first aid", Interests: ""}
	assert.Equal(t, []string{"carpentry", "first aid"}, m.SkillList())
	assert.Equal(t, []string{}, m.InterestList())
}
