package models

import "time"

// Mutation inputs. Optional fields are pointers: nil means "not supplied".
// Enumerated values (Role, Status, Language) carry the API's upper-case
// tokens and are normalized by the services.

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     *string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Name   *string
	Bio    *string
	Avatar *string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

type CreateAuthorInput struct {
	Name        string
	Bio         string
	Avatar      *string
	Website     *string
	SocialLinks *SocialLinks
	BirthDate   *time.Time
	Nationality *string
}

type UpdateAuthorInput struct {
	Name        *string
	Bio         *string
	Avatar      *string
	Website     *string
	SocialLinks *SocialLinks
	BirthDate   *time.Time
	Nationality *string
	IsActive    *bool
}

type CreateCategoryInput struct {
	Name        string
	Description string
	Slug        string
	Icon        *string
	Color       *string
}

type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Slug        *string
	Icon        *string
	Color       *string
	IsActive    *bool
}

type CreateTagInput struct {
	Name        string
	Description *string
	Slug        string
	Color       *string
}

type UpdateTagInput struct {
	Name        *string
	Description *string
	Slug        *string
	Color       *string
	IsActive    *bool
}

type CreateNovelInput struct {
	Title           string
	TitleUrdu       *string
	Description     string
	DescriptionUrdu *string
	AuthorID        string
	CategoryID      string
	TagIDs          []string
	CoverImage      *string
	Status          *string
	Language        *string
	TotalChapters   *int
}

type UpdateNovelInput struct {
	Title           *string
	TitleUrdu       *string
	Description     *string
	DescriptionUrdu *string
	AuthorID        *string
	CategoryID      *string
	TagIDs          []string
	CoverImage      *string
	Status          *string
	Language        *string
	TotalChapters   *int
}

type CreateChapterInput struct {
	NovelID       string
	Title         string
	TitleUrdu     *string
	Content       string
	ContentUrdu   *string
	ChapterNumber int
}

type UpdateChapterInput struct {
	Title         *string
	TitleUrdu     *string
	Content       *string
	ContentUrdu   *string
	ChapterNumber *int
}

type CreateReviewInput struct {
	NovelID string
	Rating  int
	Title   *string
	Comment *string
}

type UpdateReviewInput struct {
	Rating  *int
	Title   *string
	Comment *string
}

type ModerateReviewInput struct {
	IsApproved bool
	Reason     *string
}

type AddBookmarkInput struct {
	NovelID   string
	ChapterID string
	Note      *string
}

type UpdateReadingProgressInput struct {
	NovelID   string
	ChapterID string
}
