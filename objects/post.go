package objects

import (
	"reflect"
	"time"
)

const (
	PostStatusPublished   = "published"
	PostStatusUnpublished = "unpublished"

	EntryTypePost = "post"
	EntryTypePage = "page"
)

// Post is a blog entry, identified by its permalink.
type Post struct {
	Permalink string   `json:"permalink" bson:"permalink,omitempty"`
	Title     string   `json:"title" bson:"title,omitempty" binding:"required"`
	Content   string   `json:"content" bson:"content,omitempty"`
	Tags      []string `json:"tags" bson:"tags,omitempty"`
	Status    string   `json:"status" bson:"status,omitempty" binding:"omitempty,oneof=published unpublished"`
	EntryType string   `json:"entry_type" bson:"entry_type,omitempty" binding:"omitempty,oneof=post page"`

	AuthorUserID   string `json:"author_user_id" bson:"author_user_id,omitempty"`
	AuthorNickname string `json:"author_nickname" bson:"author_nickname,omitempty"`

	Date              time.Time `json:"date" bson:"date,omitempty"`
	LastModifiedDate  time.Time `json:"last_modified_date" bson:"last_modified_date,omitempty"`
	LastCommentedDate time.Time `json:"last_commented_date,omitempty" bson:"last_commented_date,omitempty"`
	MonthYear         string    `json:"month_year" bson:"month_year,omitempty"`
	CommentCount      int       `json:"comment_count" bson:"comment_count"`
}

func (p Post) GetID() string {
	return p.Permalink
}

func (p Post) IsNil() bool {
	return reflect.ValueOf(p).IsZero()
}

func (p Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// RelativePermalink prefixes posts, but not pages, with their year and month.
func (p Post) RelativePermalink() string {

	if p.EntryType == EntryTypePage {
		return p.Permalink
	}

	return p.Date.Format("2006/01/") + p.Permalink
}

// PageCountShard persists a page view counter.
type PageCountShard struct {
	Name  string `json:"name" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

func (p PageCountShard) GetID() string {
	return p.Name
}
