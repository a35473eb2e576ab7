package api

import (
	"net/http"
	"strconv"

	"agcbo/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) AddTeamMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	member, err := h.svc.Sports.AddTeamMember(ctx, CurrentViewer(c), id, req)
	if err != nil {
		respondError(c, err, "failed to add team member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *HTTPHandler) TeamRoster(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	roster, err := h.svc.Sports.TeamMembers(ctx, CurrentViewer(c), id)
	if err != nil {
		respondError(c, err, "failed to load team roster")
		return
	}
	c.JSON(http.StatusOK, roster)
}

// AwardPoints grants or deducts points. Staff only.
func (h *HTTPHandler) AwardPoints(c *gin.Context) {
	var req dto.AwardPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	tx, err := h.svc.Gamification.Award(ctx, CurrentViewer(c), req)
	if err != nil {
		respondError(c, err, "failed to award points")
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *HTTPHandler) MyPoints(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	points, err := h.svc.Gamification.MyPoints(ctx, CurrentViewer(c))
	if err != nil {
		respondError(c, err, "failed to load points")
		return
	}
	c.JSON(http.StatusOK, points)
}

// Leaderboard returns a month's ranking, the current month by default.
func (h *HTTPHandler) Leaderboard(c *gin.Context) {
	year, errYear := optionalInt(c.Query("year"))
	month, errMonth := optionalInt(c.Query("month"))
	if errYear != nil || errMonth != nil {
		BadRequest(c, ErrCodeInvalidRequest, "year and month must be numbers")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.svc.Gamification.Leaderboard(ctx, CurrentViewer(c), year, month)
	if err != nil {
		respondError(c, err, "failed to load leaderboard")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *HTTPHandler) CurrentLeaderboard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.svc.Gamification.Current(ctx, CurrentViewer(c))
	if err != nil {
		respondError(c, err, "failed to load leaderboard")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *HTTPHandler) RebuildLeaderboard(c *gin.Context) {
	var req dto.LeaderboardRebuildRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			InvalidPayload(c, nil)
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.svc.Gamification.Rebuild(ctx, CurrentViewer(c), req)
	if err != nil {
		respondError(c, err, "failed to rebuild leaderboard")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func optionalInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
