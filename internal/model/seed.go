package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agcbo/internal/auth"
	"agcbo/internal/entity/db"

	"gorm.io/gorm"
)

type constituencySeed struct {
	Name  string
	Wards []string
}

// kiambuGeography lists Kiambu County's constituencies and wards in display order.
var kiambuGeography = []constituencySeed{
	{"Gatundu North", []string{"Gituamba", "Githobokoni", "Chania", "Mang'u"}},
	{"Gatundu South", []string{"Kiamwangi", "Kiganjo", "Ndarugo", "Ngenda"}},
	{"Githunguri", []string{"Githunguri", "Githiga", "Ikinu", "Ngewa", "Komothai"}},
	{"Juja", []string{"Murera", "Theta", "Juja", "Witeithie", "Kalimoni"}},
	{"Kabete", []string{"Gitaru", "Muguga", "Nyathuna", "Kabete", "Uthiru"}},
	{"Kiambaa", []string{"Cianda", "Karuri", "Ndenderu", "Muchatha", "Kihara"}},
	{"Kiambu", []string{"Ting'ang'a", "Ndumberi", "Riabai", "Township"}},
	{"Kikuyu", []string{"Karai", "Nachu", "Sigona", "Kikuyu", "Kinoo"}},
	{"Lari", []string{"Kinale", "Kijabe", "Nyanduma", "Kamburu", "Lari/Kirenga"}},
	{"Limuru", []string{"Bibirioni", "Limuru Central", "Ndeiya", "Limuru East", "Ngecha/Tigoni"}},
	{"Ruiru", []string{"Gitothua", "Biashara", "Gatongora", "Kahawa/Sukari", "Kahawa Wendani", "Kiuu", "Mwiki", "Mwihoko"}},
	{"Thika Town", []string{"Township", "Kamenu", "Hospital", "Gatuanyaga", "Ngoliba"}},
}

// SeedGeography ensures the Kiambu constituencies and wards exist. Existing
// rows are left untouched.
func SeedGeography(ctx context.Context, repo GeographyRepository) error {
	if repo == nil {
		return nil
	}
	for i, seed := range kiambuGeography {
		constituency, err := repo.EnsureConstituency(ctx, seed.Name, i+1)
		if err != nil {
			return fmt.Errorf("seed constituency %s: %w", seed.Name, err)
		}
		for j, ward := range seed.Wards {
			if _, err := repo.EnsureWard(ctx, constituency.ID, ward, j+1); err != nil {
				return fmt.Errorf("seed ward %s/%s: %w", seed.Name, ward, err)
			}
		}
	}
	return nil
}

// SeedReference creates the default counties and project categories when
// their tables are empty.
func SeedReference(ctx context.Context, tables *Tables) error {
	if tables == nil {
		return nil
	}
	if n, err := tables.Counties.Count(ctx, nil); err != nil {
		return err
	} else if n == 0 {
		for _, county := range []db.County{
			{Name: "Kiambu", Code: "001"},
			{Name: "Nairobi", Code: "002"},
			{Name: "Nakuru", Code: "003"},
		} {
			item := county
			if err := tables.Counties.Create(ctx, &item); err != nil {
				return fmt.Errorf("seed county %s: %w", county.Name, err)
			}
		}
	}
	if n, err := tables.ProjectCategories.Count(ctx, nil); err != nil {
		return err
	} else if n == 0 {
		for _, category := range []db.ProjectCategory{
			{Name: "Youth Empowerment", Slug: "youth-empowerment", Color: "#0d4f3c"},
			{Name: "Agriculture", Slug: "agriculture", Color: "#14b8a6"},
			{Name: "Environment", Slug: "environment", Color: "#0ea5e9"},
			{Name: "Education", Slug: "education", Color: "#fbbf24"},
			{Name: "Health", Slug: "health", Color: "#dc2626"},
		} {
			item := category
			if err := tables.ProjectCategories.Create(ctx, &item); err != nil {
				return fmt.Errorf("seed category %s: %w", category.Name, err)
			}
		}
	}
	return nil
}

// EnsureSuperAdmin creates the bootstrap super admin when the username is
// free. It reports whether an account was created.
func EnsureSuperAdmin(ctx context.Context, repo AccountRepository, username, email, password string) (bool, error) {
	if repo == nil {
		return false, nil
	}
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}

	_, err := repo.GetAccountByLogin(ctx, username)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	account := &db.Account{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         db.RoleSuperAdmin,
		IsActive:     true,
		IsApproved:   true,
		IsVerified:   true,
	}
	if err := repo.CreateAccount(ctx, account); err != nil {
		return false, err
	}
	return true, nil
}
