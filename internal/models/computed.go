package models

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and collapses every run of non-alphanumerics to a dash
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func (u *User) ProfileURL() string     { return "/users/" + u.ID }
func (a *Author) ProfileURL() string   { return "/authors/" + a.ID }
func (c *Category) URL() string        { return "/categories/" + c.Slug }
func (t *Tag) URL() string             { return "/tags/" + t.Slug }
func (n *Novel) URL() string           { return "/novels/" + n.ID }
func (n *Novel) Slug() string          { return Slugify(n.Title) }
func (f *Favorite) URL() string        { return fmt.Sprintf("/users/%s/favorites/%s", f.UserID, f.NovelID) }
func (b *Bookmark) URL() string        { return fmt.Sprintf("/users/%s/bookmarks/%s", b.UserID, b.ChapterID) }
func (p *ReadingProgress) URL() string { return fmt.Sprintf("/users/%s/progress/%s", p.UserID, p.NovelID) }

func (c *Chapter) URL() string {
	return fmt.Sprintf("/novels/%s/chapters/%d", c.NovelID, c.ChapterNumber)
}

func (r *Review) URL() string {
	return fmt.Sprintf("/novels/%s/reviews/%s", r.NovelID, r.ID)
}

// CompletionPercentage is publishedChapters/totalChapters rounded, 0 when the total is unknown
func (n *Novel) CompletionPercentage() int {
	if n.TotalChapters == 0 {
		return 0
	}
	return int(math.Round(float64(n.PublishedChapters) / float64(n.TotalChapters) * 100))
}

// WordsPerMinute is the reading speed used to estimate chapter reading time
const WordsPerMinute = 200

// SetContent stores content and derives word count and reading time from it
func (c *Chapter) SetContent(content string) {
	c.Content = content
	c.WordCount = len(strings.Fields(content))
	c.ReadingTime = int(math.Ceil(float64(c.WordCount) / WordsPerMinute))
}
