package service

import (
	"bytes"
	"context"
	"testing"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPledgeAndComplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)
	donor := access.FromAccount(env.account(t, "donor", db.RoleDonor, true), "")

	_, err := env.svc.Funding.Pledge(ctx, access.Anonymous(), dto.DonationCreateRequest{Amount: 100, PaymentMethod: db.PaymentMpesa})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.svc.Funding.Pledge(ctx, donor, dto.DonationCreateRequest{Amount: 0, PaymentMethod: "barter"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "amount")
	assert.Contains(t, verr.Fields, "payment_method")

	_, err = env.svc.Funding.Pledge(ctx, donor, dto.DonationCreateRequest{Amount: 50, PaymentMethod: db.PaymentCash, DonorEmail: "donor at home"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "enter a valid email address", verr.Fields["donor_email"])

	pledge, err := env.svc.Funding.Pledge(ctx, donor, dto.DonationCreateRequest{Amount: 2500, PaymentMethod: db.PaymentMpesa, IsAnonymous: true})
	require.NoError(t, err)
	assert.Equal(t, db.DonationPending, pledge.Status)
	assert.Equal(t, "KES", pledge.Currency)
	assert.Equal(t, "donor@example.org", pledge.DonorEmail)
	assert.NotEmpty(t, pledge.Reference)
	assert.Zero(t, env.auditCount(t, db.AuditCreate, pledge.ID))

	// Pending donations stay out of public listings.
	public, _, err := env.svc.Funding.Donations.List(ctx, access.Anonymous(), common.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, public)

	_, err = env.svc.Funding.MarkCompleted(ctx, donor, pledge.ID, dto.MarkCompletedRequest{})
	assert.ErrorIs(t, err, ErrForbidden)

	done, err := env.svc.Funding.MarkCompleted(ctx, staff, pledge.ID, dto.MarkCompletedRequest{TransactionID: "QX12345"})
	require.NoError(t, err)
	assert.Equal(t, db.DonationCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	require.NotNil(t, done.TransactionID)
	assert.Equal(t, "QX12345", *done.TransactionID)
	assert.EqualValues(t, 1, env.auditCount(t, db.AuditUpdate, pledge.ID))

	public, _, err = env.svc.Funding.Donations.List(ctx, access.Anonymous(), common.ListQuery{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	projected := PublicDonations(public)
	assert.Equal(t, "Anonymous", projected[0].DonorName)

	stats, err := env.svc.Funding.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalDonations)
	assert.InDelta(t, 2500, stats.TotalAmount, 0.001)
}

func TestContactMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	visitor := access.Anonymous()
	visitor.IP = "196.201.214.10"

	_, err := env.svc.Contact.Submit(ctx, visitor, dto.ContactRequest{Name: "Jane", Email: "not-an-email", Subject: "Hi", Message: "Hello"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	msg, err := env.svc.Contact.Submit(ctx, visitor, dto.ContactRequest{
		Name:    "Jane",
		Email:   "jane@example.org",
		Subject: "Volunteering",
		Message: "<b>Count me in</b>",
	})
	require.NoError(t, err)
	assert.Equal(t, db.MessageNew, msg.Status)
	assert.Equal(t, "196.201.214.10", msg.SourceIP)
	assert.NotContains(t, msg.Message, "<b>")

	_, _, err = env.svc.Contact.List(ctx, env.member(t, "kamau"), common.ListQuery{})
	assert.ErrorIs(t, err, ErrForbidden)

	staff := env.staff(t)
	_, err = env.svc.Contact.SetStatus(ctx, staff, msg.ID, "spam")
	require.ErrorAs(t, err, &verr)

	read, err := env.svc.Contact.SetStatus(ctx, staff, msg.ID, db.MessageRead)
	require.NoError(t, err)
	assert.Equal(t, db.MessageRead, read.Status)

	items, meta, err := env.svc.Contact.List(ctx, staff, common.ListQuery{Filters: map[string]string{"status": db.MessageRead}})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.EqualValues(t, 1, meta.Total)

	require.NoError(t, env.svc.Contact.Delete(ctx, staff, msg.ID))
	assert.EqualValues(t, 1, env.auditCount(t, db.AuditDelete, msg.ID))
}

func TestGalleryUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)
	png := []byte("\x89PNG\r\n\x1a\nimage")

	_, err := env.svc.Gallery.Upload(ctx, env.member(t, "kamau"), &db.GalleryItem{Title: "Launch"}, "launch.png", bytes.NewReader(png))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.Gallery.Upload(ctx, staff, &db.GalleryItem{Title: "Launch"}, "launch.mp4", bytes.NewReader(png))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "file")

	item, err := env.svc.Gallery.Upload(ctx, staff, &db.GalleryItem{Title: "Launch", Tags: " youth,, water ", IsPublic: true}, "launch.png", bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, db.MediaImage, item.MediaType)
	assert.Equal(t, "youth, water", item.Tags)
	assert.Contains(t, item.File, "gallery/")
	assert.Equal(t, "/media/"+item.File, item.FileURL)

	seen, err := env.svc.Gallery.Items.Get(ctx, access.Anonymous(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.FileURL, seen.FileURL)

	require.NoError(t, env.svc.Gallery.Delete(ctx, staff, item.ID))
	_, err = env.svc.Gallery.Items.Get(ctx, staff, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchResult(t *testing.T) {
	tests := []struct {
		name         string
		ours, theirs *int
		want         string
	}{
		{"unplayed", nil, nil, db.ResultPending},
		{"half known", intPtr(2), nil, db.ResultPending},
		{"win", intPtr(3), intPtr(1), db.ResultWin},
		{"loss", intPtr(0), intPtr(2), db.ResultLoss},
		{"draw", intPtr(1), intPtr(1), db.ResultDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchResult(tt.ours, tt.theirs); got != tt.want {
				t.Errorf("MatchResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTeamRoster(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)
	kamau := env.member(t, "kamau")
	profile, err := env.svc.Members.Me(ctx, kamau)
	require.NoError(t, err)

	program, err := env.svc.Sports.Programs.Create(ctx, staff, []byte(`{"name":"Football","sport_type":"football","is_active":true}`))
	require.NoError(t, err)
	team, err := env.svc.Sports.Teams.CreateRecord(ctx, staff, &db.Team{Name: "Gatundu Stars", SportProgramID: program.ID, IsActive: true})
	require.NoError(t, err)

	_, err = env.svc.Sports.AddTeamMember(ctx, staff, team.ID, dto.AddTeamMemberRequest{MemberID: profile.ID, JerseyNumber: intPtr(120)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "jersey_number")

	added, err := env.svc.Sports.AddTeamMember(ctx, staff, team.ID, dto.AddTeamMemberRequest{MemberID: profile.ID, JerseyNumber: intPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, db.PositionPlayer, added.Position)

	_, err = env.svc.Sports.AddTeamMember(ctx, staff, team.ID, dto.AddTeamMemberRequest{MemberID: profile.ID})
	requireRule(t, err, RuleDuplicate)

	roster, err := env.svc.Sports.TeamMembers(ctx, access.Anonymous(), team.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)

	match, err := env.svc.Sports.Matches.CreateRecord(ctx, staff, &db.Match{
		TeamID:        team.ID,
		Opponent:      "Juja United",
		MatchDate:     team.CreatedAt,
		OurScore:      intPtr(2),
		OpponentScore: intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, db.ResultDraw, match.Result)
	assert.Equal(t, "friendly", match.MatchType)
}

func TestDashboardOverview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)
	env.account(t, "pending", db.RoleMember, false)
	env.event(t, staff, db.Event{Title: "Upcoming"})

	_, err := env.svc.Dashboard.Overview(ctx, env.member(t, "kamau"))
	assert.ErrorIs(t, err, ErrForbidden)

	overview, err := env.svc.Dashboard.Overview(ctx, staff)
	require.NoError(t, err)
	assert.EqualValues(t, 1, overview.PendingMembers)
	assert.EqualValues(t, 3, overview.TotalAccounts)
	assert.EqualValues(t, 1, overview.Events)
	assert.EqualValues(t, 1, overview.UpcomingEvents)
}
