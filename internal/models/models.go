package models

import "time"

// User represents a registered account
type User struct {
	ID                       string     `json:"id"`
	Name                     string     `json:"name"`
	Email                    string     `json:"email"`
	PasswordHash             string     `json:"passwordHash"`
	Role                     Role       `json:"role"`
	Avatar                   string     `json:"avatar,omitempty"`
	Bio                      string     `json:"bio,omitempty"`
	IsActive                 bool       `json:"isActive"`
	IsEmailVerified          bool       `json:"isEmailVerified"`
	EmailVerificationToken   string     `json:"emailVerificationToken,omitempty"`
	EmailVerificationExpires *time.Time `json:"emailVerificationExpires,omitempty"`
	PasswordResetToken       string     `json:"passwordResetToken,omitempty"`
	PasswordResetExpires     *time.Time `json:"passwordResetExpires,omitempty"`
	LastLogin                *time.Time `json:"lastLogin,omitempty"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

// SocialLinks holds an author's public profiles
type SocialLinks struct {
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Author represents a novel author profile
type Author struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Bio         string       `json:"bio"`
	Avatar      string       `json:"avatar,omitempty"`
	Website     string       `json:"website,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
	BirthDate   *time.Time   `json:"birthDate,omitempty"`
	Nationality string       `json:"nationality,omitempty"`
	IsActive    bool         `json:"isActive"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Category groups novels by genre
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Tag is a free-form label attached to novels
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Slug        string    `json:"slug"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Novel is the central catalogue entity.
// TotalViews, TotalFavorites, PublishedChapters, AverageRating and TotalRatings
// are denormalized counters maintained by child mutations.
type Novel struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	TitleUrdu         string      `json:"titleUrdu,omitempty"`
	Description       string      `json:"description"`
	DescriptionUrdu   string      `json:"descriptionUrdu,omitempty"`
	AuthorID          string      `json:"authorId"`
	CategoryID        string      `json:"categoryId"`
	TagIDs            []string    `json:"tagIds"`
	CoverImage        string      `json:"coverImage,omitempty"`
	Status            NovelStatus `json:"status"`
	Language          Language    `json:"language"`
	TotalChapters     int         `json:"totalChapters"`
	PublishedChapters int         `json:"publishedChapters"`
	AverageRating     float64     `json:"averageRating"`
	TotalRatings      int         `json:"totalRatings"`
	TotalViews        int         `json:"totalViews"`
	TotalFavorites    int         `json:"totalFavorites"`
	IsPublished       bool        `json:"isPublished"`
	PublishedAt       *time.Time  `json:"publishedAt,omitempty"`
	LastUpdated       time.Time   `json:"lastUpdated"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Chapter is a single installment of a novel
type Chapter struct {
	ID             string     `json:"id"`
	NovelID        string     `json:"novelId"`
	Title          string     `json:"title"`
	TitleUrdu      string     `json:"titleUrdu,omitempty"`
	Content        string     `json:"content"`
	ContentUrdu    string     `json:"contentUrdu,omitempty"`
	ChapterNumber  int        `json:"chapterNumber"`
	WordCount      int        `json:"wordCount"`
	ReadingTime    int        `json:"readingTime"`
	IsPublished    bool       `json:"isPublished"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	TotalViews     int        `json:"totalViews"`
	TotalBookmarks int        `json:"totalBookmarks"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Review is a user's rating of a novel. New reviews are visible
// (IsApproved=true) and unmoderated until an admin moderates them.
type Review struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	NovelID          string     `json:"novelId"`
	Rating           int        `json:"rating"`
	Title            string     `json:"title,omitempty"`
	Comment          string     `json:"comment,omitempty"`
	HelpfulVotes     int        `json:"helpfulVotes"`
	TotalVotes       int        `json:"totalVotes"`
	IsApproved       bool       `json:"isApproved"`
	IsModerated      bool       `json:"isModerated"`
	ModeratedBy      string     `json:"moderatedBy,omitempty"`
	ModeratedAt      *time.Time `json:"moderatedAt,omitempty"`
	ModerationReason string     `json:"moderationReason,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// HelpfulPercentage returns the rounded share of helpful votes
func (r *Review) HelpfulPercentage() int {
	if r.TotalVotes == 0 {
		return 0
	}
	return int(float64(r.HelpfulVotes)/float64(r.TotalVotes)*100 + 0.5)
}

// Favorite marks a novel as favorited by a user
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	NovelID   string    `json:"novelId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bookmark marks a chapter within a novel
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	NovelID   string    `json:"novelId"`
	ChapterID string    `json:"chapterId"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReadingProgress tracks where a user is in a novel
type ReadingProgress struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	NovelID           string     `json:"novelId"`
	CurrentChapterID  string     `json:"currentChapterId"`
	LastReadAt        time.Time  `json:"lastReadAt"`
	IsCompleted       bool       `json:"isCompleted"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	TotalChaptersRead int        `json:"totalChaptersRead"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// PaginationInfo is the metadata half of every listing envelope
type PaginationInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Page is the pagination envelope returned by listing operations
type Page[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// AuthPayload is returned after successful authentication
type AuthPayload struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	User         *UserSession `json:"user"`
}

// UserSession is the public view of the authenticated user
type UserSession struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            Role   `json:"role"`
	Avatar          string `json:"avatar,omitempty"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

// NewUserSession strips credentials from a user
func NewUserSession(u *User) *UserSession {
	return &UserSession{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		Avatar:          u.Avatar,
		IsEmailVerified: u.IsEmailVerified,
	}
}

// UserStats contains admin user statistics
type UserStats struct {
	TotalUsers        int `json:"totalUsers"`
	ActiveUsers       int `json:"activeUsers"`
	NewUsersThisMonth int `json:"newUsersThisMonth"`
	VerifiedUsers     int `json:"verifiedUsers"`
}

// NovelStats contains admin catalogue statistics
type NovelStats struct {
	TotalNovels     int `json:"totalNovels"`
	PublishedNovels int `json:"publishedNovels"`
	TotalChapters   int `json:"totalChapters"`
	TotalViews      int `json:"totalViews"`
	TotalFavorites  int `json:"totalFavorites"`
}

// Stats contains document store pool statistics
type Stats struct {
	Driver        string `json:"driver"`
	PoolSize      int    `json:"poolSize"`
	Available     int    `json:"available"`
	InUse         int    `json:"inUse"`
	TotalRequests int    `json:"totalRequests"`
}

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Store     bool   `json:"store"`
}
