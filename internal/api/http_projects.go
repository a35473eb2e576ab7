package api

import (
	"net/http"

	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/service"

	"github.com/gin-gonic/gin"
)

// AddProjectMember adds or re-roles a member on a project.
func (h *HTTPHandler) AddProjectMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddProjectMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	member, created, err := h.svc.Projects.AddMember(ctx, CurrentViewer(c), id, req)
	if err != nil {
		respondError(c, err, "failed to add project member")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, member)
}

func (h *HTTPHandler) ProjectMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	members, err := h.svc.Projects.Members(ctx, CurrentViewer(c), id)
	if err != nil {
		respondError(c, err, "failed to load project members")
		return
	}
	c.JSON(http.StatusOK, members)
}

// ListDonations shows staff every donation; everyone else sees completed
// donations with anonymous donors masked.
func (h *HTTPHandler) ListDonations(c *gin.Context) {
	q, err := listQuery(c)
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	viewer := CurrentViewer(c)
	items, meta, err := h.svc.Funding.Donations.List(ctx, viewer, q)
	if err != nil {
		respondError(c, err, "failed to list donations")
		return
	}
	if viewer.IsStaff() {
		c.JSON(http.StatusOK, dto.Page[db.Donation]{Items: items, Meta: meta})
		return
	}
	c.JSON(http.StatusOK, dto.Page[dto.PublicDonation]{Items: service.PublicDonations(items), Meta: meta})
}

func (h *HTTPHandler) GetDonation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	viewer := CurrentViewer(c)
	donation, err := h.svc.Funding.Donations.Get(ctx, viewer, id)
	if err != nil {
		respondError(c, err, "failed to load donation")
		return
	}
	if viewer.IsStaff() {
		c.JSON(http.StatusOK, donation)
		return
	}
	c.JSON(http.StatusOK, dto.NewPublicDonation(donation))
}

// CreateDonation records a pending pledge for the caller.
func (h *HTTPHandler) CreateDonation(c *gin.Context) {
	var req dto.DonationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c, nil)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	donation, err := h.svc.Funding.Pledge(ctx, CurrentViewer(c), req)
	if err != nil {
		respondError(c, err, "failed to record donation")
		return
	}
	c.JSON(http.StatusCreated, donation)
}

func (h *HTTPHandler) MarkDonationCompleted(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MarkCompletedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			InvalidPayload(c, nil)
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	donation, err := h.svc.Funding.MarkCompleted(ctx, CurrentViewer(c), id, req)
	if err != nil {
		respondError(c, err, "failed to complete donation")
		return
	}
	c.JSON(http.StatusOK, donation)
}

func (h *HTTPHandler) DonationStats(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.svc.Funding.Stats(ctx)
	if err != nil {
		respondError(c, err, "failed to load donation stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
