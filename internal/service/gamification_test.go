package service

import (
	"context"
	"testing"

	"agcbo/internal/access"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankTotals(t *testing.T) {
	totals := []dto.MemberTotal{
		{MemberID: 4, TotalPoints: 30},
		{MemberID: 2, TotalPoints: 50},
		{MemberID: 9, TotalPoints: 30},
		{MemberID: 1, TotalPoints: -5},
	}
	rows := RankTotals(2026, 3, totals, map[uint]int64{9: 2})

	want := []struct {
		member uint
		rank   int
		badges int
	}{
		{2, 1, 0},
		{4, 2, 0},
		{9, 3, 2},
		{1, 4, 0},
	}
	require.Len(t, rows, len(want))
	for i, w := range want {
		if rows[i].MemberID != w.member || rows[i].Rank != w.rank || rows[i].BadgesCount != w.badges {
			t.Errorf("row %d = member %d rank %d badges %d, want %+v", i, rows[i].MemberID, rows[i].Rank, rows[i].BadgesCount, w)
		}
		if rows[i].Year != 2026 || rows[i].Month != 3 {
			t.Errorf("row %d has period %d-%d", i, rows[i].Year, rows[i].Month)
		}
	}
	assert.Equal(t, uint(4), totals[0].MemberID, "input must not be reordered")
}

func TestMyPointsWithoutProfileIsZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Gamification.MyPoints(ctx, access.Anonymous())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	points, err := env.svc.Gamification.MyPoints(ctx, env.member(t, "kamau"))
	require.NoError(t, err)
	assert.Zero(t, points.TotalPoints)
	assert.Empty(t, points.RecentTransactions)
}

func TestAwardPointsAndRebuildLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	staff := env.staff(t)

	kamau := env.member(t, "kamau")
	wanjiru := env.member(t, "wanjiru")
	kamauProfile, err := env.svc.Members.Me(ctx, kamau)
	require.NoError(t, err)
	wanjiruProfile, err := env.svc.Members.Me(ctx, wanjiru)
	require.NoError(t, err)

	_, err = env.svc.Gamification.Award(ctx, kamau, dto.AwardPointsRequest{MemberID: kamauProfile.ID, Points: 100})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.Gamification.Award(ctx, staff, dto.AwardPointsRequest{MemberID: kamauProfile.ID, Points: 40, TransactionType: db.PointsEventAttendance})
	require.NoError(t, err)
	penalty, err := env.svc.Gamification.Award(ctx, staff, dto.AwardPointsRequest{MemberID: kamauProfile.ID, Points: 15, TransactionType: db.PointsPenalty})
	require.NoError(t, err)
	assert.Equal(t, -15, penalty.Points)
	_, err = env.svc.Gamification.Award(ctx, staff, dto.AwardPointsRequest{MemberID: wanjiruProfile.ID, Points: 60})
	require.NoError(t, err)

	_, err = env.svc.Gamification.Award(ctx, staff, dto.AwardPointsRequest{MemberID: wanjiruProfile.ID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "points")

	mine, err := env.svc.Gamification.MyPoints(ctx, kamau)
	require.NoError(t, err)
	assert.EqualValues(t, 25, mine.TotalPoints)
	assert.Len(t, mine.RecentTransactions, 2)

	_, err = env.svc.Gamification.Rebuild(ctx, kamau, dto.LeaderboardRebuildRequest{})
	assert.ErrorIs(t, err, ErrForbidden)

	board, err := env.svc.Gamification.Rebuild(ctx, staff, dto.LeaderboardRebuildRequest{})
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, wanjiruProfile.ID, board[0].MemberID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 60, board[0].TotalPoints)
	assert.Equal(t, kamauProfile.ID, board[1].MemberID)
	assert.Equal(t, 25, board[1].TotalPoints)

	current, err := env.svc.Gamification.Current(ctx, kamau)
	require.NoError(t, err)
	assert.Len(t, current, 2)

	_, err = env.svc.Gamification.Current(ctx, access.Anonymous())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = env.svc.Gamification.Leaderboard(ctx, kamau, 2026, 13)
	require.ErrorAs(t, err, &verr)

	// Members only see their own transactions through the catalogue.
	own, err := env.svc.Gamification.Points.Get(ctx, wanjiru, penalty.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, own)
}
