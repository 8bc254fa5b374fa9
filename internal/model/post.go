package model

import "time"

// UnknownAuthorName is shown when a post's author no longer resolves.
const UnknownAuthorName = "Unknown"

// Post is a blog entry. AuthorID is a weak reference to User.ID.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"author_id"`
	Excerpt   string    `json:"excerpt"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostUpdate lists the post fields an author may change. Excerpt must be
// set whenever Body is.
type PostUpdate struct {
	Title   *string
	Body    *string
	Excerpt *string
}

// IsEmpty reports whether the update changes nothing.
func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Body == nil
}

// Apply copies the set fields onto post.
func (u PostUpdate) Apply(post *Post) {
	if u.Title != nil {
		post.Title = *u.Title
	}
	if u.Body != nil {
		post.Body = *u.Body
	}
	if u.Excerpt != nil {
		post.Excerpt = *u.Excerpt
	}
}

// AuthoredPost is a post joined with its author, if the author still exists.
type AuthoredPost struct {
	Post
	Author *User
}

// AuthorName returns the author's display name or UnknownAuthorName.
func (p AuthoredPost) AuthorName() string {
	if p.Author == nil {
		return UnknownAuthorName
	}
	return p.Author.Name
}

// AuthorAvatarURL returns the author's avatar URL, or nil.
func (p AuthoredPost) AuthorAvatarURL() *string {
	if p.Author == nil {
		return nil
	}
	return p.Author.AvatarURL
}
