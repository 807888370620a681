package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-news-cms/internal/config"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
	"github.com/pribylovaa/go-news-cms/mocks"
)

func testCfg() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "unit-secret",
			AccessTokenTTL: 30 * time.Second,
			SessionTTL:     24 * time.Hour,
			Issuer:         "news-cms",
			Audience:       []string{"news-cms"},
		},
		Limits: config.LimitsConfig{
			MaxLimit: 500,
		},
	}
}

func newSvc(t *testing.T) (*Service, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	svc := New(st, testCfg())
	return svc, st, ctrl
}

func mustHashPW(t *testing.T, pw string) string {
	t.Helper()
	h, err := hashPassword(pw)
	require.NoError(t, err)
	return h
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FirstName: "Ivan",
		LastName:  "Petrov",
		Email:     "Ivan@Example.com",
		Password:  "secret123",
	}
}

func TestRegister_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	st.EXPECT().UserByEmail(gomock.Any(), "ivan@example.com").Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *models.User) error {
			require.NotEqual(t, uuid.Nil, u.ID)
			require.Equal(t, "ivan@example.com", u.Email)
			require.True(t, checkPassword(u.PasswordHash, "secret123"))
			return nil
		})
	st.EXPECT().SaveSession(gomock.Any(), gomock.Any()).Return(nil)

	user, pair, err := svc.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	require.Equal(t, "Ivan", user.FirstName)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.SessionToken)
	require.WithinDuration(t, time.Now().Add(svc.cfg.Auth.AccessTokenTTL), pair.AccessExpiresAt, 2*time.Second)
}

func TestRegister_ValidationFailed(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	in := validRegisterInput()
	in.FirstName = ""
	in.Password = "short"

	_, _, err := svc.Register(context.Background(), in)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidArgument)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "first_name")
	require.Contains(t, verr.Fields, "password")
	require.NotContains(t, verr.Fields, "email")
}

func TestRegister_EmailTaken_OnLookup(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "ivan@example.com").
		Return(&models.User{ID: uuid.New(), Email: "ivan@example.com"}, nil)

	_, _, err := svc.Register(context.Background(), validRegisterInput())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_EmailTaken_OnSaveRace(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Гонка: между проверкой и вставкой email занял кто-то другой,
	// уникальный индекс возвращает ErrAlreadyExists.
	st.EXPECT().UserByEmail(gomock.Any(), "ivan@example.com").Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)

	_, _, err := svc.Register(context.Background(), validRegisterInput())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_StorageLookupError_Propagated(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "ivan@example.com").Return(nil, errors.New("db down"))

	_, _, err := svc.Register(context.Background(), validRegisterInput())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInternal)
}

func TestLogin_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	stored := &models.User{
		ID:           uuid.New(),
		Email:        "ivan@example.com",
		PasswordHash: mustHashPW(t, "secret123"),
	}

	st.EXPECT().UserByEmail(gomock.Any(), "ivan@example.com").Return(stored, nil)
	st.EXPECT().SaveSession(gomock.Any(), gomock.Any()).Return(nil)

	user, pair, err := svc.Login(context.Background(), " Ivan@Example.com ", "secret123")
	require.NoError(t, err)
	require.Equal(t, stored.ID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.SessionToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	stored := &models.User{
		ID:           uuid.New(),
		Email:        "ivan@example.com",
		PasswordHash: mustHashPW(t, "secret123"),
	}

	st.EXPECT().UserByEmail(gomock.Any(), "ivan@example.com").Return(stored, nil)

	_, _, err := svc.Login(context.Background(), "ivan@example.com", "wrongpass")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "ghost@example.com").Return(nil, storage.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "secret123")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BadInput_NoStorageCalls(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Неразбираемый email и пустой пароль отсекаются до похода в БД.
	_, _, err := svc.Login(context.Background(), "not-an-email", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "ivan@example.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	token := "session-token"

	st.EXPECT().RevokeSession(gomock.Any(), hashToken(token)).Return(true, nil)

	require.NoError(t, svc.Logout(context.Background(), token))
}

func TestLogout_AlreadyRevoked(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().RevokeSession(gomock.Any(), gomock.Any()).Return(false, nil)

	err := svc.Logout(context.Background(), "session-token")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestLogout_UnknownToken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().RevokeSession(gomock.Any(), gomock.Any()).Return(false, storage.ErrNotFound)

	err := svc.Logout(context.Background(), "session-token")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestActorFromSession_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	token := "session-token"
	uid := uuid.New()

	st.EXPECT().SessionByHash(gomock.Any(), hashToken(token)).Return(&models.Session{
		TokenHash: hashToken(token),
		UserID:    uid,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}, nil)
	st.EXPECT().UserByID(gomock.Any(), uid).Return(&models.User{ID: uid}, nil)

	actor, err := svc.ActorFromSession(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, uid, actor.ID)
}

func TestActorFromSession_DeletedUser(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	token := "session-token"
	uid := uuid.New()

	// Сессия ещё жива в кэше/БД, но пользователь уже удалён:
	// аутентификация должна отваливаться сразу.
	st.EXPECT().SessionByHash(gomock.Any(), gomock.Any()).Return(&models.Session{
		UserID:    uid,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}, nil)
	st.EXPECT().UserByID(gomock.Any(), uid).Return(nil, storage.ErrNotFound)

	_, err := svc.ActorFromSession(context.Background(), token)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestActorFromSession_RevokedAndExpired(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SessionByHash(gomock.Any(), gomock.Any()).Return(&models.Session{
		UserID:    uuid.New(),
		Revoked:   true,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}, nil)

	_, err := svc.ActorFromSession(context.Background(), "tok-1")
	require.ErrorIs(t, err, ErrTokenRevoked)

	st.EXPECT().SessionByHash(gomock.Any(), gomock.Any()).Return(&models.Session{
		UserID:    uuid.New(),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}, nil)

	_, err = svc.ActorFromSession(context.Background(), "tok-2")
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestActorFromAccessToken_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	token, err := svc.generateAccessToken(context.Background(), uid, "ivan@example.com", time.Now().UTC())
	require.NoError(t, err)

	st.EXPECT().UserByID(gomock.Any(), uid).Return(&models.User{ID: uid, Email: "ivan@example.com"}, nil)

	actor, err := svc.ActorFromAccessToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, uid, actor.ID)
}

func TestActorFromAccessToken_Expired(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Токен выпущен час назад с TTL 30s; leeway 5s уже не спасает.
	token, err := svc.generateAccessToken(context.Background(), uuid.New(), "ivan@example.com",
		time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)

	_, err = svc.ActorFromAccessToken(context.Background(), token)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTokenExpired)
}
