package converter

import (
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
)

// AccountToSummary projects an account onto its client view.
func AccountToSummary(a *db.Account) *dto.AccountSummary {
	if a == nil {
		return nil
	}
	summary := &dto.AccountSummary{
		ID:               a.ID,
		Username:         a.Username,
		Email:            a.Email,
		FirstName:        a.FirstName,
		LastName:         a.LastName,
		FullName:         a.FullName(),
		PhoneNumber:      a.PhoneNumber,
		Role:             a.Role,
		IsActive:         a.IsActive,
		IsApproved:       a.IsApproved,
		IsVerified:       a.IsVerified,
		WardID:           a.WardID,
		Department:       a.Department,
		OrganizationName: a.OrganizationName,
		LastLoginAt:      a.LastLoginAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if a.Ward != nil {
		summary.WardName = a.Ward.Name
		if a.Ward.Constituency != nil {
			summary.ConstituencyName = a.Ward.Constituency.Name
		}
	}
	return summary
}

// AccountsToSummaries converts a slice, skipping nil entries.
func AccountsToSummaries(accounts []db.Account) []dto.AccountSummary {
	out := make([]dto.AccountSummary, 0, len(accounts))
	for i := range accounts {
		out = append(out, *AccountToSummary(&accounts[i]))
	}
	return out
}
