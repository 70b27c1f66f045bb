package sketches

import (
	"math/rand"
	"strings"
	"time"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/filter"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/keys"
	"github.com/supakorn-kn/go-sketchpatch/objects"
)

// SketchInput is what the sketch editor submits.
type SketchInput struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	SourceCode  string `json:"source_code" form:"source_code" binding:"required"`
	Tags        string `json:"tags" form:"tags"`
	Published   bool   `json:"published" form:"published"`
}

// ShouldPublish decides the published flag: content under review never is, anonymous sketches
// always are, everyone else chooses.
func ShouldPublish(suspicious, anonymous, requested bool) bool {

	switch {
	case suspicious:
		return false
	case anonymous:
		return true
	default:
		return requested
	}
}

// NewSketch builds the record of a sketch submitted by author at now. It does not store it.
func NewSketch(input SketchInput, author identity.User, now time.Time) (objects.Sketch, error) {

	randomID, err := keys.NewRandomID()
	if err != nil {
		return objects.Sketch{}, err
	}

	now = now.UTC().Truncate(time.Millisecond)

	sketch := objects.Sketch{
		Key:      keys.NewSketchKey(now, rand.New(rand.NewSource(now.UnixNano()))),
		RandomID: randomID,

		AuthorUserID:   author.ID,
		AuthorToken:    author.Token(),
		AuthorNickname: author.DisplayName(),
		AuthorEmail:    author.Email,

		OldestParentRandomID: randomID,
		ParentIDList:         []string{},
		ParentNicknameList:   []string{},

		Created: now,
		Updated: now,
	}

	if err := applyInput(&sketch, input); err != nil {
		return objects.Sketch{}, err
	}

	return sketch, nil
}

// applyInput copies the editable fields of input onto sketch and recomputes the review and publish
// flags against the sketch's author.
func applyInput(sketch *objects.Sketch, input SketchInput) error {

	source := strings.TrimSpace(input.SourceCode)
	if source == "" {
		return serverError.ValidationFailedError.New("source_code is required")
	}

	description := strings.TrimSpace(input.Description)
	if filter.TooManyLinks(source, description) {
		return serverError.TooManyLinksError.New()
	}

	title := strings.TrimSpace(input.Title)
	suspicious := filter.NeedsReview(title, input.Tags, source, description)

	sketch.Title = title
	sketch.SanitizedTitle = filter.SanitizeTitle(title)
	sketch.Description = filter.StripHTML(description)
	sketch.SourceCode = source
	sketch.Tags = filter.SplitTags(input.Tags)
	sketch.SuspiciousContent = suspicious
	sketch.Published = ShouldPublish(suspicious, sketch.AuthorUserID == "", input.Published)

	return nil
}

// contributorID is how an author appears in a sketch's lineage.
func contributorID(sketch objects.Sketch) string {

	if sketch.AuthorUserID == "" {
		return keys.AnonymousToken
	}

	return sketch.AuthorUserID
}

// fork turns child into a copy of parent: it keeps the lineage of parent and adds parent's author
// to the contributors.
func fork(child *objects.Sketch, parent objects.Sketch) {

	child.ParentRandomID = parent.RandomID

	child.OldestParentRandomID = parent.OldestParentRandomID
	if child.OldestParentRandomID == "" {
		child.OldestParentRandomID = parent.RandomID
	}

	child.ParentIDList = parent.ParentIDList
	child.ParentNicknameList = parent.ParentNicknameList
	child.AddContributor(contributorID(parent), parent.AuthorNickname)
}
