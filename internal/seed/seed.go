package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/internal/auth/password"
	clinicdomain "github.com/smallbiznis/clinicdesk/internal/clinic/domain"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"gorm.io/gorm"
)

const (
	defaultClinicName = "Main Clinic"
	defaultAdminName  = "Administrator"
)

var ErrMissingAdminCredentials = errors.New("bootstrap admin email and password are required")

// EnsureDefaultClinic seeds the first clinic so a fresh install has one to sign into.
func EnsureDefaultClinic(db *gorm.DB, cfg config.BootstrapConfig) (clinicdomain.Clinic, error) {
	if db == nil {
		return clinicdomain.Clinic{}, errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return clinicdomain.Clinic{}, err
	}

	ctx := context.Background()
	var clinic clinicdomain.Clinic
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clinic, err = ensureClinicTx(ctx, tx, node, cfg.ClinicName)
		return err
	})
	return clinic, err
}

// EnsureDefaultClinicAndAdmin seeds the default clinic plus an admin account.
// It is a no-op for the admin when the email is already registered.
func EnsureDefaultClinicAndAdmin(db *gorm.DB, cfg config.BootstrapConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return ErrMissingAdminCredentials
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clinic, err := ensureClinicTx(ctx, tx, node, cfg.ClinicName)
		if err != nil {
			return err
		}

		var user authdomain.User
		err = tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(cfg.AdminPassword)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(cfg.AdminName)
		if name == "" {
			name = defaultAdminName
		}
		now := time.Now().UTC()
		user = authdomain.User{
			ID:           node.Generate(),
			ClinicID:     clinic.ID,
			Name:         name,
			Email:        email,
			PasswordHash: hashed,
			Role:         authdomain.RoleAdmin,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}

func ensureClinicTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name string) (clinicdomain.Clinic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultClinicName
	}
	clinicSlug := slug.Make(name)

	var clinic clinicdomain.Clinic
	err := tx.WithContext(ctx).Where("slug = ?", clinicSlug).First(&clinic).Error
	if err == nil {
		return clinic, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return clinic, err
	}
	now := time.Now().UTC()
	clinic = clinicdomain.Clinic{
		ID:        node.Generate(),
		Name:      name,
		Slug:      clinicSlug,
		Currency:  "INR",
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&clinic).Error; err != nil {
		return clinic, err
	}
	return clinic, nil
}
