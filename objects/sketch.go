package objects

import (
	"reflect"
	"slices"
	"time"
)

// Sketch is the canonical record of a sketch, keyed by its ordering key.
type Sketch struct {
	Key            string   `json:"key" bson:"_id"`
	RandomID       string   `json:"random_id" bson:"random_id"`
	Title          string   `json:"title" bson:"title"`
	SanitizedTitle string   `json:"sanitized_title" bson:"sanitized_title"`
	Description    string   `json:"description" bson:"description"`
	SourceCode     string   `json:"source_code" bson:"source_code"`
	Tags           []string `json:"tags" bson:"tags"`

	Published         bool `json:"published" bson:"published"`
	SuspiciousContent bool `json:"suspicious_content" bson:"suspicious_content"`

	AuthorUserID   string `json:"author_user_id" bson:"author_user_id"`
	AuthorToken    string `json:"author_token" bson:"author_token"`
	AuthorNickname string `json:"author_nickname" bson:"author_nickname"`
	AuthorEmail    string `json:"-" bson:"author_email,omitempty"`

	ParentRandomID       string   `json:"parent_random_id,omitempty" bson:"parent_random_id,omitempty"`
	OldestParentRandomID string   `json:"oldest_parent_random_id" bson:"oldest_parent_random_id"`
	ParentIDList         []string `json:"parent_id_list" bson:"parent_id_list"`
	ParentNicknameList   []string `json:"parent_nickname_list" bson:"parent_nickname_list"`

	Created time.Time `json:"created" bson:"created"`
	Updated time.Time `json:"updated" bson:"updated"`
}

func (s Sketch) GetID() string {
	return s.Key
}

func (s Sketch) IsNil() bool {
	return reflect.ValueOf(s).IsZero()
}

// Permalink is the path of the sketch page.
func (s Sketch) Permalink() string {
	return "/view/" + s.RandomID + "/" + s.SanitizedTitle
}

// Summary is the listing row of the sketch filed under key.
func (s Sketch) Summary(key string) SketchSummary {

	return SketchSummary{
		Key:               key,
		RandomID:          s.RandomID,
		Title:             s.Title,
		SanitizedTitle:    s.SanitizedTitle,
		Tags:              s.Tags,
		AuthorNickname:    s.AuthorNickname,
		AuthorToken:       s.AuthorToken,
		Published:         s.Published,
		SuspiciousContent: s.SuspiciousContent,
		Created:           s.Created,
	}
}

// AddContributor records the author of the sketch being copied. A contributor already in the list
// is not repeated.
func (s *Sketch) AddContributor(userID, nickname string) {

	if slices.Contains(s.ParentIDList, userID) {
		return
	}

	s.ParentIDList = append(slices.Clone(s.ParentIDList), userID)
	s.ParentNicknameList = append(slices.Clone(s.ParentNicknameList), nickname)
}

// SketchSummary is a row of the gallery, author and my-sketches listings. Its key decides the
// listing order.
type SketchSummary struct {
	Key            string   `json:"key" bson:"_id"`
	RandomID       string   `json:"random_id" bson:"random_id"`
	Title          string   `json:"title" bson:"title"`
	SanitizedTitle string   `json:"sanitized_title" bson:"sanitized_title"`
	Tags           []string `json:"tags" bson:"tags"`
	AuthorNickname string   `json:"author_nickname" bson:"author_nickname"`
	AuthorToken    string   `json:"author_token" bson:"author_token"`

	Published         bool      `json:"published" bson:"published"`
	SuspiciousContent bool      `json:"suspicious_content" bson:"suspicious_content"`
	Created           time.Time `json:"created" bson:"created"`
}

func (s SketchSummary) GetID() string {
	return s.Key
}

// DeletedSketch remembers removed sketches so that thumbnails and caches can be cleaned later.
type DeletedSketch struct {
	RandomID  string    `json:"random_id" bson:"_id"`
	SketchKey string    `json:"sketch_key" bson:"sketch_key"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	Visited   bool      `json:"visited" bson:"visited"`
	Deleted   time.Time `json:"deleted" bson:"deleted"`
}

func (d DeletedSketch) GetID() string {
	return d.RandomID
}
