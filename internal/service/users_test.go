package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-news-cms/internal/cache"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
)

// stubSessionCache — управляемая реализация cache.SessionCache,
// фиксирующая помеченные revoked хэши.
type stubSessionCache struct {
	revoked []string
}

func (c *stubSessionCache) Get(context.Context, string) (*cache.SessionEntry, bool, error) {
	return nil, false, nil
}

func (c *stubSessionCache) Set(context.Context, string, *cache.SessionEntry, time.Duration) error {
	return nil
}

func (c *stubSessionCache) MarkRevoked(_ context.Context, hashes ...string) error {
	c.revoked = append(c.revoked, hashes...)
	return nil
}

func (c *stubSessionCache) Close() error { return nil }

func TestUserByID_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	st.EXPECT().UserByID(gomock.Any(), uid).Return(&models.User{ID: uid}, nil)

	user, err := svc.UserByID(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, uid, user.ID)
}

func TestUserByID_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByID(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)

	_, err := svc.UserByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserByID_NilID_NoStorageCall(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.UserByID(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrNotFound)
}

// Без явного лимита листинг читает таблицу целиком (Limit 0 в сторадж),
// явный лимит ограничивается MaxLimit сверху.
func TestListUsers_FullReadAndMaxLimit(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().ListUsers(gomock.Any(), models.ListOptions{Limit: 0}).Return([]models.User{}, nil)
	_, err := svc.ListUsers(context.Background(), models.ListOptions{})
	require.NoError(t, err)

	st.EXPECT().ListUsers(gomock.Any(), models.ListOptions{Limit: 500}).Return([]models.User{}, nil)
	_, err = svc.ListUsers(context.Background(), models.ListOptions{Limit: 10000})
	require.NoError(t, err)
}

func TestUpdateUser_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.UpdateUser(context.Background(), nil, uuid.New(), UpdateUserInput{})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateUser_ValidationFailed_NoStorageCalls(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New()}

	_, err := svc.UpdateUser(context.Background(), actor, actor.ID, UpdateUserInput{
		Email: ptr("broken"),
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidArgument)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "email")
}

func TestUpdateUser_NotFoundBeforeForbidden(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New()}
	target := uuid.New()

	st.EXPECT().UserByID(gomock.Any(), target).Return(nil, storage.ErrNotFound)

	_, err := svc.UpdateUser(context.Background(), actor, target, UpdateUserInput{FirstName: ptr("X")})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_Forbidden(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New()}
	target := &models.User{ID: uuid.New()}

	st.EXPECT().UserByID(gomock.Any(), target.ID).Return(target, nil)

	_, err := svc.UpdateUser(context.Background(), actor, target.ID, UpdateUserInput{FirstName: ptr("X")})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateUser_EmailTakenByOther(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New(), Email: "old@example.com"}

	st.EXPECT().UserByID(gomock.Any(), actor.ID).Return(actor, nil)
	st.EXPECT().UserByEmail(gomock.Any(), "new@example.com").
		Return(&models.User{ID: uuid.New(), Email: "new@example.com"}, nil)

	_, err := svc.UpdateUser(context.Background(), actor, actor.ID, UpdateUserInput{
		Email: ptr("new@example.com"),
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateUser_EmailUnchanged_SelfMatchAllowed(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New(), Email: "same@example.com"}

	st.EXPECT().UserByID(gomock.Any(), actor.ID).Return(actor, nil)
	// Поиск по email возвращает самого владельца - это не конфликт.
	st.EXPECT().UserByEmail(gomock.Any(), "same@example.com").Return(actor, nil)
	st.EXPECT().UpdateUser(gomock.Any(), actor.ID, gomock.Any()).Return(actor, nil)

	_, err := svc.UpdateUser(context.Background(), actor, actor.ID, UpdateUserInput{
		Email: ptr("Same@Example.com"),
	})
	require.NoError(t, err)
}

func TestUpdateUser_OK_PasswordRehashed(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New(), Email: "ivan@example.com"}

	st.EXPECT().UserByID(gomock.Any(), actor.ID).Return(actor, nil)
	st.EXPECT().UpdateUser(gomock.Any(), actor.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, upd storage.UserUpdate) (*models.User, error) {
			require.Nil(t, upd.FirstName)
			require.Nil(t, upd.Email)
			require.NotNil(t, upd.PasswordHash)
			require.True(t, checkPassword(*upd.PasswordHash, "newsecret"))
			return actor, nil
		})

	_, err := svc.UpdateUser(context.Background(), actor, actor.ID, UpdateUserInput{
		Password: ptr("newsecret"),
	})
	require.NoError(t, err)
}

func TestUpdateUser_EmailRaceMapsToTaken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New(), Email: "old@example.com"}

	st.EXPECT().UserByID(gomock.Any(), actor.ID).Return(actor, nil)
	st.EXPECT().UserByEmail(gomock.Any(), "new@example.com").Return(nil, storage.ErrNotFound)
	st.EXPECT().UpdateUser(gomock.Any(), actor.ID, gomock.Any()).Return(nil, storage.ErrAlreadyExists)

	_, err := svc.UpdateUser(context.Background(), actor, actor.ID, UpdateUserInput{
		Email: ptr("new@example.com"),
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestDeleteUser_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	err := svc.DeleteUser(context.Background(), nil, uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestDeleteUser_Forbidden(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New()}
	target := &models.User{ID: uuid.New()}

	st.EXPECT().UserByID(gomock.Any(), target.ID).Return(target, nil)

	err := svc.DeleteUser(context.Background(), actor, target.ID)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDeleteUser_OK_Cascade(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New()}

	st.EXPECT().UserByID(gomock.Any(), actor.ID).Return(actor, nil)
	st.EXPECT().RevokeUserSessions(gomock.Any(), actor.ID).Return([]string{"h1"}, nil)
	st.EXPECT().DeleteUserCascade(gomock.Any(), actor.ID).Return(nil)

	require.NoError(t, svc.DeleteUser(context.Background(), actor, actor.ID))
}

// Удаление аккаунта сначала отзывает сессии, затем помечает их
// закэшированные записи revoked, и только потом запускает каскад.
func TestDeleteUser_RevokesCachedSessions(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	sc := &stubSessionCache{}
	svc.SetSessionCache(sc)

	actor := &models.User{ID: uuid.New()}

	st.EXPECT().UserByID(gomock.Any(), actor.ID).Return(actor, nil)
	st.EXPECT().RevokeUserSessions(gomock.Any(), actor.ID).Return([]string{"h1", "h2"}, nil)
	st.EXPECT().DeleteUserCascade(gomock.Any(), actor.ID).Return(nil)

	require.NoError(t, svc.DeleteUser(context.Background(), actor, actor.ID))
	require.Equal(t, []string{"h1", "h2"}, sc.revoked)
}

func TestDeleteUser_RevokeSessionsError(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New()}

	st.EXPECT().UserByID(gomock.Any(), actor.ID).Return(actor, nil)
	st.EXPECT().RevokeUserSessions(gomock.Any(), actor.ID).Return(nil, errors.New("db down"))

	err := svc.DeleteUser(context.Background(), actor, actor.ID)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInternal)
}

func TestDeleteUser_StorageError(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	actor := &models.User{ID: uuid.New()}

	st.EXPECT().UserByID(gomock.Any(), actor.ID).Return(actor, nil)
	st.EXPECT().RevokeUserSessions(gomock.Any(), actor.ID).Return(nil, nil)
	st.EXPECT().DeleteUserCascade(gomock.Any(), actor.ID).Return(errors.New("db down"))

	err := svc.DeleteUser(context.Background(), actor, actor.ID)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInternal)
}
