package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateUser_Create(t *testing.T) {
	t.Parallel()

	errs := ValidateUser(UserPayload{
		FirstName: ptr("Ivan"),
		LastName:  ptr("Petrov"),
		Email:     ptr("ivan@example.com"),
		Password:  ptr("secret123"),
	}, ModeCreate)
	require.Empty(t, errs)

	errs = ValidateUser(UserPayload{}, ModeCreate)
	require.Len(t, errs, 4)
	require.Equal(t, "Invalid first name (1-50 characters)", errs["first_name"])
	require.Equal(t, "Invalid last name (1-50 characters)", errs["last_name"])
	require.Equal(t, "Invalid email format", errs["email"])
	require.Equal(t, "Password too short (min 6 characters)", errs["password"])
}

func TestValidateUser_LengthBounds(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ы", 51)
	errs := ValidateUser(UserPayload{
		FirstName: ptr(long),
		LastName:  ptr(strings.Repeat("я", 50)),
		Email:     ptr("ivan@example.com"),
		Password:  ptr("secret"),
	}, ModeCreate)
	require.Contains(t, errs, "first_name")
	require.NotContains(t, errs, "last_name")
	require.NotContains(t, errs, "password")
}

func TestValidateUser_UpdateSkipsAbsentFields(t *testing.T) {
	t.Parallel()

	// nil-поля не проверяются, переданная пустая строка - ошибка.
	errs := ValidateUser(UserPayload{}, ModeUpdate)
	require.Empty(t, errs)

	errs = ValidateUser(UserPayload{FirstName: ptr("")}, ModeUpdate)
	require.Contains(t, errs, "first_name")
	require.Len(t, errs, 1)
}

func TestValidateNews(t *testing.T) {
	t.Parallel()

	errs := ValidateNews(NewsPayload{Title: ptr("t"), Content: ptr("c")}, ModeCreate)
	require.Empty(t, errs)

	errs = ValidateNews(NewsPayload{Title: ptr(strings.Repeat("a", 101)), Content: ptr("")}, ModeCreate)
	require.Equal(t, "Invalid title (1-100 characters)", errs["title"])
	require.Equal(t, "Content is required", errs["content"])

	errs = ValidateNews(NewsPayload{}, ModeUpdate)
	require.Empty(t, errs)
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"first.last@sub.example.org",
		"user+tag@example.io",
	}
	for _, v := range valid {
		require.True(t, validEmail(v), v)
	}

	invalid := []string{
		"",
		"plain",
		"no-at.example.com",
		"user@localhost",
		"Name <user@example.com>",
		"user@@example.com",
	}
	for _, v := range invalid {
		require.False(t, validEmail(v), v)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	require.Equal(t, "user@example.com", normalizeEmail("  User@Example.COM  "))
}
