package comments

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/keys"
	"github.com/supakorn-kn/go-sketchpatch/mongodb/mongotest"
	"github.com/supakorn-kn/go-sketchpatch/objects"
)

var (
	sketchAuthor = identity.User{ID: "11", Nickname: "ada"}
	commenter    = identity.User{ID: "12", Nickname: "bob"}
	stranger     = identity.User{ID: "13", Nickname: "eve"}
)

func mockSketch() objects.Sketch {

	randomID, _ := keys.NewRandomID()
	return objects.Sketch{RandomID: randomID, AuthorUserID: sketchAuthor.ID}
}

func TestNewComment(t *testing.T) {

	sketch := mockSketch()
	now := time.Date(2010, 2, 3, 4, 5, 6, 0, time.UTC)

	comment, err := NewComment(sketch, CommentInput{Body: " <i>nice</i> <img src=x> "}, commenter, now)
	require.NoError(t, err)
	require.Equal(t, "<i>nice</i> ", comment.Body)
	require.Equal(t, sketch.RandomID, comment.SketchRandomID)
	require.Equal(t, sketchAuthor.ID, comment.SketchAuthorUserID)

	scope, err := keys.BoundsForComments(sketch.RandomID)
	require.NoError(t, err)
	require.True(t, scope.Contains(comment.Key))

	_, err = NewComment(sketch, CommentInput{Body: "   "}, commenter, now)
	require.True(t, errors.IsError(err, errors.ValidationFailedError))

	_, err = NewComment(sketch, CommentInput{Body: "buy viagra here"}, commenter, now)
	require.True(t, errors.IsError(err, errors.ProfanityDetectedError))
}

func TestCanDelete(t *testing.T) {

	comment := objects.Comment{AuthorUserID: commenter.ID, SketchAuthorUserID: sketchAuthor.ID}

	require.True(t, CanDelete(commenter, comment))
	require.True(t, CanDelete(sketchAuthor, comment))
	require.True(t, CanDelete(identity.User{ID: "99", Admin: true}, comment))
	require.False(t, CanDelete(stranger, comment))
	require.False(t, CanDelete(identity.Anonymous(), objects.Comment{}))
}

type CommentsModelTestSuite struct {
	suite.Suite
	ctx   context.Context
	model *CommentsModel
	clock time.Time
}

func (s *CommentsModelTestSuite) SetupSuite() {

	s.ctx = context.Background()
	conn := mongotest.Connect(s.T())

	model, err := NewCommentsModel(s.ctx, conn)
	s.Require().NoError(err, "Setup Comment model failed")

	s.clock = time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	model.now = func() time.Time {
		s.clock = s.clock.Add(time.Second)
		return s.clock
	}

	s.model = model
}

func (s *CommentsModelTestSuite) TestComments() {

	sketch := mockSketch()
	other := mockSketch()

	var added []objects.Comment
	for i := 0; i < 4; i++ {

		comment, err := s.model.Add(s.ctx, sketch, CommentInput{Body: gofakeit.LoremIpsumSentence(5)}, commenter)
		s.Require().NoError(err)
		added = append(added, comment)
	}

	_, err := s.model.Add(s.ctx, other, CommentInput{Body: "elsewhere"}, commenter)
	s.Require().NoError(err)

	s.Run("Should page through the comments of one sketch newest first", func() {

		page, err := s.model.ForSketch(s.ctx, sketch.RandomID, "", 3)
		s.Require().NoError(err)
		s.Require().Len(page.Items, 3)
		s.Require().Equal(added[3].Key, page.Items[0].Key)
		s.Require().True(page.HasNext())

		rest, err := s.model.ForSketch(s.ctx, sketch.RandomID, page.Next, 3)
		s.Require().NoError(err)
		s.Require().Len(rest.Items, 1)
		s.Require().Equal(added[0].Key, rest.Items[0].Key)
	})

	s.Run("Should return the latest comments", func() {

		latest, err := s.model.Latest(s.ctx, sketch.RandomID, 2)
		s.Require().NoError(err)
		s.Require().Equal([]objects.Comment{added[3], added[2]}, latest)
	})

	s.Run("Should only let allowed users delete", func() {

		err := s.model.Delete(s.ctx, added[0].Key, stranger)
		s.Require().True(errors.IsError(err, errors.PermissionDeniedError))

		s.Require().NoError(s.model.Delete(s.ctx, added[0].Key, sketchAuthor))

		err = s.model.Delete(s.ctx, added[0].Key, sketchAuthor)
		s.Require().True(errors.IsError(err, errors.ObjectIDNotFoundError))
	})

	s.Run("Should remove every comment of a sketch and nothing else", func() {

		removed, err := s.model.DeleteForSketch(s.ctx, sketch.RandomID)
		s.Require().NoError(err)
		s.Require().EqualValues(3, removed)

		page, err := s.model.ForSketch(s.ctx, other.RandomID, "", 10)
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
	})
}

func TestCommentsModel(t *testing.T) {
	suite.Run(t, new(CommentsModelTestSuite))
}
