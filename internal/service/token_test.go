package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
	"github.com/pribylovaa/go-news-cms/mocks"
)

func TestHashToken_Deterministic(t *testing.T) {
	t.Parallel()

	require.Equal(t, hashToken("abc"), hashToken("abc"))
	require.NotEqual(t, hashToken("abc"), hashToken("abd"))
	require.NotEmpty(t, hashToken(""))
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	token, err := svc.generateAccessToken(context.Background(), uid, "ivan@example.com", time.Now().UTC())
	require.NoError(t, err)

	gotID, gotEmail, err := svc.validateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, uid, gotID)
	require.Equal(t, "ivan@example.com", gotEmail)
}

func TestAccessToken_WrongSecretRejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	other := gomock.NewController(t)
	defer other.Finish()

	otherCfg := testCfg()
	otherCfg.Auth.JWTSecret = "another-secret"
	otherSvc := New(mocks.NewMockStorage(other), otherCfg)

	token, err := otherSvc.generateAccessToken(context.Background(), uuid.New(), "x@example.com", time.Now().UTC())
	require.NoError(t, err)

	_, _, err = svc.validateAccessToken(token)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_GarbageRejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, _, err := svc.validateAccessToken("not.a.jwt")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateSessionToken_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()

	st.EXPECT().SaveSession(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sess *models.Session) error {
			require.Equal(t, uid, sess.UserID)
			require.False(t, sess.Revoked)
			require.True(t, sess.ExpiresAt.After(sess.CreatedAt))
			return nil
		})

	plain, err := svc.generateSessionToken(context.Background(), uid)
	require.NoError(t, err)
	require.NotEmpty(t, plain)
}

func TestGenerateSessionToken_CollisionRetries(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	gomock.InOrder(
		st.EXPECT().SaveSession(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists),
		st.EXPECT().SaveSession(gomock.Any(), gomock.Any()).Return(nil),
	)

	plain, err := svc.generateSessionToken(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NotEmpty(t, plain)
}

func TestGenerateSessionToken_CollisionExceeded(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SaveSession(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists).Times(5)

	_, err := svc.generateSessionToken(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSessionCollision)
}

func TestValidateSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()

	var savedHash string
	st.EXPECT().SaveSession(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sess *models.Session) error {
			savedHash = sess.TokenHash
			return nil
		})

	plain, err := svc.generateSessionToken(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, savedHash, hashToken(plain))

	st.EXPECT().SessionByHash(gomock.Any(), savedHash).Return(&models.Session{
		TokenHash: savedHash,
		UserID:    uid,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}, nil)

	session, err := svc.validateSessionToken(context.Background(), plain)
	require.NoError(t, err)
	require.Equal(t, uid, session.UserID)
}

func TestValidateSessionToken_Unknown(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SessionByHash(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)

	_, err := svc.validateSessionToken(context.Background(), "ghost")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}
