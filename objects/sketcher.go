package objects

import "reflect"

// Sketcher is the public profile of a user.
type Sketcher struct {
	UserID      string   `json:"user_id" bson:"user_id,omitempty" binding:"required,numeric"`
	Name        string   `json:"name" bson:"name,omitempty" binding:"required"`
	ProfileText string   `json:"profile_text" bson:"profile_text,omitempty"`
	Location    string   `json:"location" bson:"location,omitempty"`
	URLs        []string `json:"urls" bson:"urls,omitempty" binding:"max=4,dive,url"`
}

func (s Sketcher) GetID() string {
	return s.UserID
}

func (s Sketcher) IsNil() bool {
	return reflect.ValueOf(s).IsZero()
}
