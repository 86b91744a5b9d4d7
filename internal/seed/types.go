package seed

// Spec defines the documents to create on first start
type Spec struct {
	// Users to create. Admin accounts can only be created this way.
	Users []UserSpec `json:"users,omitempty"`

	// Authors to create, matched by name
	Authors []AuthorSpec `json:"authors,omitempty"`

	// Categories to create, matched by slug
	Categories []CategorySpec `json:"categories,omitempty"`

	// Tags to create, matched by slug
	Tags []TagSpec `json:"tags,omitempty"`
}

// UserSpec defines an account
type UserSpec struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AuthorSpec defines an author profile
type AuthorSpec struct {
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Nationality string `json:"nationality,omitempty"`
}

// CategorySpec defines a category
type CategorySpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
}

// TagSpec defines a tag
type TagSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Color       string `json:"color,omitempty"`
}
