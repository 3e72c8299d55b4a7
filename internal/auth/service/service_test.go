package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/internal/auth/repository"
	"github.com/smallbiznis/clinicdesk/internal/auth/token"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testClinicID = snowflake.ID(1001)

func newTestService(t *testing.T) (authdomain.Service, authdomain.Repository) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&authdomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := repository.New(dbConn)
	svc := New(Params{
		Log:    zap.NewNop(),
		Repo:   repo,
		Tokens: token.NewIssuerWithClock("test-secret", time.Hour, time.Now),
		GenID:  node,
	})
	return svc, repo
}

func bootstrapCtx() context.Context {
	return context.Background()
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(bootstrapCtx(), authdomain.CreateUserRequest{
		ClinicID: testClinicID,
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct-password",
		Role:     authdomain.RoleAdmin,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLoginAuthenticateRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.CreateUser(bootstrapCtx(), authdomain.CreateUserRequest{
		ClinicID: testClinicID,
		Name:     "Dr Rao",
		Email:    "Rao@Example.com",
		Password: "stethoscope",
		Role:     authdomain.RoleDoctor,
	})
	require.NoError(t, err)
	assert.Equal(t, "rao@example.com", user.Email)

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "rao@example.com",
		Password: "stethoscope",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.NotNil(t, result.User.LastLoginAt)

	claims, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, testClinicID, claims.ClinicID)
	assert.Equal(t, authdomain.RoleDoctor, claims.Role)
}

func TestInactiveUserCannotAuthenticate(t *testing.T) {
	svc, repo := newTestService(t)

	user, err := svc.CreateUser(bootstrapCtx(), authdomain.CreateUserRequest{
		ClinicID: testClinicID,
		Name:     "Front Desk",
		Email:    "desk@example.com",
		Password: "reception-pass",
		Role:     authdomain.RoleReceptionist,
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{Email: "desk@example.com", Password: "reception-pass"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateFields(context.Background(), user.ID, map[string]any{"active": false}))

	_, err = svc.Authenticate(context.Background(), result.Token)
	assert.ErrorIs(t, err, authdomain.ErrInvalidSession)

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{Email: "desk@example.com", Password: "reception-pass"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService(t)
	base := authdomain.CreateUserRequest{
		ClinicID: testClinicID,
		Name:     "Acct",
		Email:    "acct@example.com",
		Password: "ledger-pass",
		Role:     authdomain.RoleAccountant,
	}

	weak := base
	weak.Password = "short"
	_, err := svc.CreateUser(bootstrapCtx(), weak)
	assert.ErrorIs(t, err, authdomain.ErrWeakPassword)

	badRole := base
	badRole.Role = "janitor"
	_, err = svc.CreateUser(bootstrapCtx(), badRole)
	assert.ErrorIs(t, err, authdomain.ErrInvalidRole)

	_, err = svc.CreateUser(bootstrapCtx(), base)
	require.NoError(t, err)
	_, err = svc.CreateUser(bootstrapCtx(), base)
	assert.ErrorIs(t, err, authdomain.ErrUserExists)
}

func TestCreateUserUsesActorClinic(t *testing.T) {
	svc, _ := newTestService(t)

	admin, err := svc.CreateUser(bootstrapCtx(), authdomain.CreateUserRequest{
		ClinicID: testClinicID, Name: "Admin", Email: "admin@example.com", Password: "admin-pass", Role: authdomain.RoleAdmin,
	})
	require.NoError(t, err)

	ctx := cliniccontext.WithClinicID(context.Background(), testClinicID)
	ctx = cliniccontext.WithActor(ctx, cliniccontext.Actor{UserID: admin.ID, Role: authdomain.RoleAdmin})

	user, err := svc.CreateUser(ctx, authdomain.CreateUserRequest{
		ClinicID: snowflake.ID(9999), Name: "Nurse", Email: "n@example.com", Password: "nurse-pass", Role: authdomain.RoleReceptionist,
	})
	require.NoError(t, err)
	assert.Equal(t, testClinicID, user.ClinicID)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.CreateUser(bootstrapCtx(), authdomain.CreateUserRequest{
		ClinicID: testClinicID, Name: "Admin", Email: "admin@example.com", Password: "admin-pass", Role: authdomain.RoleAdmin,
	})
	require.NoError(t, err)

	ctx := cliniccontext.WithActor(context.Background(), cliniccontext.Actor{UserID: user.ID, Role: user.Role})

	err = svc.ChangePassword(ctx, authdomain.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-password"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, authdomain.ChangePasswordRequest{CurrentPassword: "admin-pass", NewPassword: "new-password"}))

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{Email: "admin@example.com", Password: "new-password"})
	assert.NoError(t, err)
}
