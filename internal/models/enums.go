package models

import (
	"fmt"
	"strings"
)

// Role is the authorization role of a user
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

// NovelStatus is the storage value of a novel's publication status
type NovelStatus string

const (
	StatusOngoing   NovelStatus = "ongoing"
	StatusCompleted NovelStatus = "completed"
	StatusHiatus    NovelStatus = "hiatus"
	StatusCancelled NovelStatus = "cancelled"
)

// Language is the storage value of a novel's language
type Language string

const (
	LanguageEnglish   Language = "english"
	LanguageUrdu      Language = "urdu"
	LanguageBilingual Language = "bilingual"
)

var (
	roles     = []Role{RoleAdmin, RoleAuthor, RoleReader}
	statuses  = []NovelStatus{StatusOngoing, StatusCompleted, StatusHiatus, StatusCancelled}
	languages = []Language{LanguageEnglish, LanguageUrdu, LanguageBilingual}
)

// ParseRole converts a wire token (ADMIN) or storage value (admin) to a Role
func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ParseNovelStatus converts a wire token (COMPLETED) to its storage value
func ParseNovelStatus(s string) (NovelStatus, error) {
	for _, st := range statuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown novel status %q", s)
}

// ParseLanguage converts a wire token (URDU) to its storage value
func ParseLanguage(s string) (Language, error) {
	for _, l := range languages {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// Wire returns the upper-case token exposed by the API
func (r Role) Wire() string { return strings.ToUpper(string(r)) }

// Wire returns the upper-case token exposed by the API
func (s NovelStatus) Wire() string { return strings.ToUpper(string(s)) }

// Wire returns the upper-case token exposed by the API
func (l Language) Wire() string { return strings.ToUpper(string(l)) }

// Roles returns every known role
func Roles() []Role { return append([]Role(nil), roles...) }

// NovelStatuses returns every known status
func NovelStatuses() []NovelStatus { return append([]NovelStatus(nil), statuses...) }

// Languages returns every known language
func Languages() []Language { return append([]Language(nil), languages...) }
