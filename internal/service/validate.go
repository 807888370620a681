package service

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Mode — режим валидации payload-а.
type Mode int

const (
	// ModeCreate — все поля обязательны.
	ModeCreate Mode = iota
	// ModeUpdate — проверяются только переданные (non-nil) поля;
	// отсутствующее поле пропускается, пустая строка — ошибка "required".
	ModeUpdate
)

// UserPayload — сырые поля пользователя для валидации.
// nil означает «поле не передано» (имеет смысл только в ModeUpdate).
type UserPayload struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// NewsPayload — сырые поля новости для валидации.
type NewsPayload struct {
	Title   *string
	Content *string
}

// ValidateUser проверяет payload пользователя.
// Возвращает карту поле->сообщение; пустая карта означает «валидно».
// Побочных эффектов нет.
func ValidateUser(p UserPayload, mode Mode) map[string]string {
	errs := make(map[string]string)

	if mode == ModeCreate || p.FirstName != nil {
		if v := deref(p.FirstName); v == "" || utf8.RuneCountInString(v) > 50 {
			errs["first_name"] = "Invalid first name (1-50 characters)"
		}
	}

	if mode == ModeCreate || p.LastName != nil {
		if v := deref(p.LastName); v == "" || utf8.RuneCountInString(v) > 50 {
			errs["last_name"] = "Invalid last name (1-50 characters)"
		}
	}

	if mode == ModeCreate || p.Email != nil {
		if v := deref(p.Email); v == "" || !validEmail(v) {
			errs["email"] = "Invalid email format"
		}
	}

	if mode == ModeCreate || p.Password != nil {
		if v := deref(p.Password); utf8.RuneCountInString(v) < 6 {
			errs["password"] = "Password too short (min 6 characters)"
		}
	}

	return errs
}

// ValidateNews проверяет payload новости.
func ValidateNews(p NewsPayload, mode Mode) map[string]string {
	errs := make(map[string]string)

	if mode == ModeCreate || p.Title != nil {
		if v := deref(p.Title); v == "" || utf8.RuneCountInString(v) > 100 {
			errs["title"] = "Invalid title (1-100 characters)"
		}
	}

	if mode == ModeCreate || p.Content != nil {
		if deref(p.Content) == "" {
			errs["content"] = "Content is required"
		}
	}

	return errs
}

// validEmail проверяет базовый формат local@domain.tld:
// разбираемый адрес, в домене есть точка.
func validEmail(raw string) bool {
	email := strings.TrimSpace(raw)
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]

	return strings.Contains(domain, ".")
}

// normalizeEmail обрезает пробелы снаружи и приводит адрес к нижнему регистру.
func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}

func ptr(s string) *string { return &s }
