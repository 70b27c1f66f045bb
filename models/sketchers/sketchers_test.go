package sketchers

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/models"
	"github.com/supakorn-kn/go-sketchpatch/mongodb/mongotest"
	"github.com/supakorn-kn/go-sketchpatch/objects"
)

type SketchersModelTestSuite struct {
	suite.Suite
	ctx              context.Context
	model            *SketchersModel
	insertedSketcher objects.Sketcher
}

func (s *SketchersModelTestSuite) SetupSuite() {

	s.ctx = context.Background()
	conn := mongotest.Connect(s.T())

	newModel, err := NewSketchersModel(s.ctx, conn)
	s.Require().NoError(err, "Setup Sketcher model failed")

	s.model = newModel
}

func (s *SketchersModelTestSuite) BeforeTest(suiteName, testName string) {

	if testName == "TestInsert" || testName == "TestSearch" {
		return
	}

	s.insertedSketcher = mockSketcher()
	s.Require().NoError(s.model.Insert(s.ctx, s.insertedSketcher), "Setup test failed from inserting sketcher")
}

func (s *SketchersModelTestSuite) AfterTest(suiteName, testName string) {

	if testName == "TestSearch" || testName == "TestDelete" {
		return
	}

	s.Require().NoError(s.model.Delete(s.ctx, s.insertedSketcher.UserID), "Clearing test failed from deleting sketcher")
}

func (s *SketchersModelTestSuite) TestInsert() {

	s.Run("Should insert valid sketcher properly", func() {

		sketcher := mockSketcher()
		s.Require().NoError(s.model.Insert(s.ctx, sketcher), "Inserting Sketcher failed")

		actual, err := s.model.GetByID(s.ctx, sketcher.UserID)
		s.Require().NoError(err)
		s.Require().EqualValues(sketcher, actual, "Read data is not the same as inserted")

		s.insertedSketcher = sketcher
	})

	s.Run("Should throw error when insert sketcher with existed user_id", func() {

		newSketcher := mockSketcher()
		newSketcher.UserID = s.insertedSketcher.UserID

		err := s.model.Insert(s.ctx, newSketcher)
		s.Require().True(errors.IsError(err, errors.DataAlreadyInUsedError), "Should have thrown error")
	})

	s.Run("Should throw error when insert invalid sketcher data", func() {

		var testCases = map[string]func(*objects.Sketcher){
			"Use empty user ID":       func(v *objects.Sketcher) { v.UserID = "" },
			"Use non decimal user ID": func(v *objects.Sketcher) { v.UserID = "abc" },
			"Use empty name":          func(v *objects.Sketcher) { v.Name = " " },
			"Use too many urls": func(v *objects.Sketcher) {
				v.URLs = []string{"http://a.example", "http://b.example", "http://c.example", "http://d.example", "http://e.example"}
			},
		}

		for name, mutate := range testCases {

			s.Run(name, func() {

				invalidSketcher := mockSketcher()
				mutate(&invalidSketcher)

				err := s.model.Insert(s.ctx, invalidSketcher)
				s.Require().True(errors.IsError(err, errors.ValidationFailedError), "Should throw error")
			})
		}
	})
}

func (s *SketchersModelTestSuite) TestGetByID() {

	s.Run("Should get the sketcher by user_id properly", func() {

		actual, err := s.model.GetByID(s.ctx, s.insertedSketcher.UserID)
		s.Require().NoError(err, "Getting exist sketcher failed")
		s.Require().EqualValues(s.insertedSketcher, actual)
	})

	s.Run("Should throw the error when give non-exist user_id", func() {

		itemID := "1"

		actual, err := s.model.GetByID(s.ctx, itemID)
		s.Require().Empty(actual)
		s.Require().ErrorIs(errors.ObjectIDNotFoundError.New(itemID), err, "Should throw error")
	})
}

func (s *SketchersModelTestSuite) TestProfile() {

	s.Run("Should return the saved profile", func() {

		actual, err := s.model.Profile(s.ctx, s.insertedSketcher.UserID, "ignored@example.com")
		s.Require().NoError(err)
		s.Require().Equal(s.insertedSketcher, actual)
	})

	s.Run("Should name a missing profile after the email", func() {

		actual, err := s.model.Profile(s.ctx, "2", "ada.lovelace@example.com")
		s.Require().NoError(err)
		s.Require().Equal(objects.Sketcher{UserID: "2", Name: "ada.lovelace"}, actual)
	})
}

func (s *SketchersModelTestSuite) TestSearch() {

	sketcherA := objects.Sketcher{UserID: "900000000000000000001", Name: "Search_Sketcher A", Location: "Bangkok"}
	sketcherB := objects.Sketcher{UserID: "900000000000000000002", Name: "Search_Sketcher B", Location: "London"}
	sketcherC := objects.Sketcher{UserID: "900000000000000000003", Name: "Search_Sketcher C", Location: "Lisbon"}

	sketchers := []objects.Sketcher{sketcherA, sketcherB, sketcherC}
	for _, sketcher := range sketchers {
		s.Require().NoError(s.model.Insert(s.ctx, sketcher), "Insert sketchers before testing failed")
	}

	var initialLimit = s.model.SearchLenLimit
	s.model.SearchLenLimit = 2

	s.T().Cleanup(func() {

		s.model.SearchLenLimit = initialLimit
		for _, sketcher := range sketchers {
			s.NoError(s.model.Delete(s.ctx, sketcher.UserID), "Clearing inserted sketchers for searching failed")
		}
	})

	var testCases = map[string]struct {
		Expected models.PaginationData[objects.Sketcher]
		Option   SearchOptions
	}{
		"None (Page 2)": {
			Expected: models.PaginationData[objects.Sketcher]{Page: 2, TotalPages: 2, Count: 3, Data: sketchers[2:]},
			Option:   SearchOptions{CurrentPage: 2},
		},
		"User ID": {
			Expected: models.PaginationData[objects.Sketcher]{Page: 1, TotalPages: 1, Count: 1, Data: []objects.Sketcher{sketcherA}},
			Option:   SearchOptions{CurrentPage: 1, UserID: sketcherA.UserID},
		},
		"Name (Partial)": {
			Expected: models.PaginationData[objects.Sketcher]{Page: 1, TotalPages: 2, Count: 3, Data: sketchers[:2]},
			Option: SearchOptions{
				CurrentPage: 1,
				Name:        models.MatchOption{MatchType: models.PartialMatchType, Value: "_sketcher"},
			},
		},
		"Name (End with)": {
			Expected: models.PaginationData[objects.Sketcher]{Page: 1, TotalPages: 1, Count: 1, Data: []objects.Sketcher{sketcherC}},
			Option: SearchOptions{
				CurrentPage: 1,
				Name:        models.MatchOption{MatchType: models.EndWithMatchType, Value: "r c"},
			},
		},
		"Location (Start with)": {
			Expected: models.PaginationData[objects.Sketcher]{Page: 1, TotalPages: 1, Count: 2, Data: sketchers[1:]},
			Option: SearchOptions{
				CurrentPage: 1,
				Location:    models.MatchOption{MatchType: models.StartWithMatchType, Value: "l"},
			},
		},
	}

	for optionName, testCase := range testCases {

		s.Run(fmt.Sprintf("Search with option %s", optionName), func() {

			paginationData, err := s.model.Search(s.ctx, testCase.Option)
			s.Require().NoError(err, "Searching sketcher failed")
			s.Require().Equal(testCase.Expected, paginationData)
		})
	}

	s.Run("Should throw error when set current page as non-positive value", func() {

		result, err := s.model.Search(s.ctx, SearchOptions{CurrentPage: 0})
		s.Require().ErrorIs(errors.CurrentPageInvalidError.New(), err, "Should have returned error")
		s.Require().Empty(result)
	})

	s.Run("Should throw error when set invalid or unsupported match type", func() {

		result, err := s.model.Search(s.ctx, SearchOptions{
			CurrentPage: 1,
			Name:        models.MatchOption{MatchType: 255},
		})
		s.Require().Error(err, "Should have returned error")
		s.Require().Empty(result)
	})
}

func (s *SketchersModelTestSuite) TestUpdate() {

	s.Run("Should update partial data in sketcher properly", func() {

		var sketcherToUpdate = objects.Sketcher{
			UserID:   s.insertedSketcher.UserID,
			Location: gofakeit.City(),
		}

		s.Require().NoError(s.model.Update(s.ctx, sketcherToUpdate))

		expected := s.insertedSketcher
		expected.Location = sketcherToUpdate.Location
		s.insertedSketcher = expected

		actual, err := s.model.GetByID(s.ctx, expected.UserID)
		s.Require().NoError(err, "Getting updated sketcher failed")
		s.Require().EqualValues(expected, actual)
	})

	s.Run("Should throw error when update non-exist sketcher", func() {

		s.Require().Error(s.model.Update(s.ctx, mockSketcher()))
	})
}

func (s *SketchersModelTestSuite) TestDelete() {

	s.Run("Should delete exist sketcher properly", func() {

		s.Require().NoError(s.model.Delete(s.ctx, s.insertedSketcher.UserID))

		actual, err := s.model.GetByID(s.ctx, s.insertedSketcher.UserID)
		s.Require().Error(err, "Should throw error after getting deleted sketcher")
		s.Require().Empty(actual, "The sketcher should have been empty")
	})

	s.Run("Should throw error when delete non-exist sketcher", func() {

		s.Require().Error(s.model.Delete(s.ctx, "3"), "Delete non-exist sketcher should fail")
	})
}

func TestSketchersModel(t *testing.T) {
	suite.Run(t, new(SketchersModelTestSuite))
}

func TestValidate(t *testing.T) {

	require.NoError(t, Validate(mockSketcher()))
	require.Error(t, Validate(objects.Sketcher{UserID: "12", Name: ""}))
}

func mockSketcher() objects.Sketcher {

	return objects.Sketcher{
		UserID:      strconv.FormatUint(gofakeit.Uint64(), 10),
		Name:        gofakeit.Username(),
		ProfileText: gofakeit.Sentence(8),
		Location:    gofakeit.City(),
		URLs:        []string{gofakeit.URL()},
	}
}
