package objects

import "time"

type Comment struct {
	Key            string `json:"key" bson:"_id"`
	SketchRandomID string `json:"sketch_random_id" bson:"sketch_random_id"`
	Body           string `json:"body" bson:"body"`

	AuthorUserID   string `json:"author_user_id" bson:"author_user_id"`
	AuthorToken    string `json:"author_token" bson:"author_token"`
	AuthorNickname string `json:"author_nickname" bson:"author_nickname"`
	AuthorEmail    string `json:"-" bson:"author_email,omitempty"`

	// SketchAuthorUserID lets the sketch author delete comments without loading the sketch.
	SketchAuthorUserID string `json:"sketch_author_user_id" bson:"sketch_author_user_id"`

	Created time.Time `json:"created" bson:"created"`
}

func (c Comment) GetID() string {
	return c.Key
}
