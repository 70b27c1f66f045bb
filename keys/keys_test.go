package keys

import (
	"math/big"
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/go-sketchpatch/errors"
)

type KeysTestSuite struct {
	suite.Suite
	rnd *rand.Rand
}

func (s *KeysTestSuite) SetupSuite() {
	s.rnd = rand.New(rand.NewSource(42))
}

func (s *KeysTestSuite) TestEncodeID() {

	s.Run("Should pad identifier to the given width", func() {

		actual, err := EncodeID(big.NewInt(42), 23)
		s.Require().NoError(err)
		s.Require().Equal("00000000000000000000042", actual)
		s.Require().Len(actual, 23)
	})

	s.Run("Should keep lexical order equal to numeric order", func() {

		ids := []int64{0, 9, 10, 99, 100, 12345, 999999}
		var encoded []string
		for _, id := range ids {
			e, err := EncodeID(big.NewInt(id), 8)
			s.Require().NoError(err)
			encoded = append(encoded, e)
		}

		s.Require().True(sort.StringsAreSorted(encoded))
	})

	s.Run("Should accept 21 digit platform ids", func() {

		id, ok := new(big.Int).SetString("185804764220139124118", 10)
		s.Require().True(ok)

		actual, err := EncodeID(id, IDWidth)
		s.Require().NoError(err)
		s.Require().Equal("00185804764220139124118", actual)

		decoded, err := DecodeID(actual)
		s.Require().NoError(err)
		s.Require().Zero(id.Cmp(decoded))
	})

	s.Run("Should fail loudly when identifier needs more digits than width", func() {

		_, err := EncodeID(big.NewInt(123456), 5)
		s.Require().Error(err)
		s.Require().True(errors.IsError(err, errors.KeyFormatError))
	})

	s.Run("Should reject negative identifier and non-positive width", func() {

		_, err := EncodeID(big.NewInt(-1), 5)
		s.Require().True(errors.IsError(err, errors.KeyFormatError))

		_, err = EncodeID(big.NewInt(1), 0)
		s.Require().True(errors.IsError(err, errors.KeyFormatError))
	})
}

func (s *KeysTestSuite) TestDecodeID() {

	for _, invalid := range []string{"", "12a4", "-12", " 1"} {
		_, err := DecodeID(invalid)
		s.Require().True(errors.IsError(err, errors.KeyFormatError), "input %q", invalid)
	}
}

func (s *KeysTestSuite) TestBaseConversion() {

	s.Run("Should round trip every base", func() {

		huge, _ := new(big.Int).SetString("185804764220139124118", 10)
		numbers := []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(61), big.NewInt(62), huge}
		for i := 0; i < 50; i++ {
			numbers = append(numbers, big.NewInt(s.rnd.Int63()))
		}

		for base := 2; base <= 62; base++ {
			for _, n := range numbers {

				encoded, err := ToBase(n, base)
				s.Require().NoError(err)

				decoded, err := FromBase(encoded, base)
				s.Require().NoError(err)
				s.Require().Zero(n.Cmp(decoded), "base %d number %s encoded %s", base, n, encoded)
			}
		}
	})

	s.Run("Should put most significant digit first", func() {

		actual, err := ToBase(big.NewInt(255), 16)
		s.Require().NoError(err)
		s.Require().Equal("FF", actual)

		actual, err = ToBase(big.NewInt(62), 62)
		s.Require().NoError(err)
		s.Require().Equal("10", actual)

		actual, err = ToBase(big.NewInt(61), 62)
		s.Require().NoError(err)
		s.Require().Equal("z", actual)
	})

	s.Run("Should reject base out of range", func() {

		for _, base := range []int{-1, 0, 1, 63} {

			_, err := ToBase(big.NewInt(10), base)
			s.Require().True(errors.IsError(err, errors.InvalidBaseError))

			_, err = FromBase("10", base)
			s.Require().True(errors.IsError(err, errors.InvalidBaseError))
		}
	})

	s.Run("Should reject digits outside of the base", func() {

		_, err := FromBase("12", 2)
		s.Require().True(errors.IsError(err, errors.InvalidBaseError))

		_, err = FromBase("", 10)
		s.Require().True(errors.IsError(err, errors.InvalidBaseError))

		_, err = FromBase("ab-c", 62)
		s.Require().True(errors.IsError(err, errors.InvalidBaseError))
	})
}

func (s *KeysTestSuite) TestOwnerToken() {

	id, _ := new(big.Int).SetString("185804764220139124118", 10)

	token := OwnerToken("davidedc", id)
	s.Require().True(strings.HasPrefix(token, "davidedc-"))

	parsed, err := ParseOwnerToken(token + "/justcorners.js")
	s.Require().NoError(err)
	s.Require().Zero(id.Cmp(parsed))

	parsed, err = ParseOwnerToken("some-dashed-nick-" + strings.TrimPrefix(token, "davidedc-"))
	s.Require().NoError(err)
	s.Require().Zero(id.Cmp(parsed))

	s.Require().Equal(AnonymousToken, OwnerToken("whoever", Anonymous()))

	s.Run("Should keep the token a single path segment whatever the nickname", func() {

		for _, nickname := range []string{"ada/lovelace", "what?now", "a#b%c", "ADA lovelace", "///", ""} {

			token := OwnerToken(nickname, id)
			s.Require().NotContains(token, "/", nickname)
			s.Require().NotContains(token, "?", nickname)
			s.Require().NotContains(token, "#", nickname)
			s.Require().NotContains(token, "%", nickname)

			parsed, err := ParseOwnerToken(token)
			s.Require().NoError(err, nickname)
			s.Require().Zero(id.Cmp(parsed), nickname)
		}

		s.Require().True(strings.HasPrefix(OwnerToken("ada/lovelace", id), "ada-lovelace-"))
		s.Require().True(strings.HasPrefix(OwnerToken("///", id), "sketcher-"))
	})

	parsed, err = ParseOwnerToken(AnonymousToken)
	s.Require().NoError(err)
	s.Require().Zero(parsed.Sign())
}

func (s *KeysTestSuite) TestBoundsForOwner() {

	s.Run("Should contain every key of the owner and nothing of the next owners", func() {

		for _, o := range []int64{0, 1, 9, 41, 999} {

			owner := big.NewInt(o)
			r, err := BoundsForOwner(owner, IDWidth)
			s.Require().NoError(err)

			for i := 0; i < 20; i++ {

				key, err := OwnedKey(owner, NewSketchKey(time.Now().Add(time.Duration(i)*time.Hour), s.rnd))
				s.Require().NoError(err)
				s.Require().True(r.Contains(key), "key %s should be in %+v", key, r)
			}

			for _, next := range []int64{o + 1, o + 2, o + 1000} {

				key, err := OwnedKey(big.NewInt(next), NewSketchKey(time.Now(), s.rnd))
				s.Require().NoError(err)
				s.Require().False(key < r.End, "key %s of owner %d should not sort below %s", key, next, r.End)
			}

			if o > 0 {
				key, err := OwnedKey(big.NewInt(o-1), NewSketchKey(time.Now(), s.rnd))
				s.Require().NoError(err)
				s.Require().False(r.Contains(key))
			}
		}
	})

	s.Run("Should fail when next owner does not fit the width", func() {

		_, err := BoundsForOwner(big.NewInt(999), 3)
		s.Require().True(errors.IsError(err, errors.KeyFormatError))
	})

	s.Run("Should group every anonymous contribution in one bucket", func() {

		anonymous, err := ParseOwnerID("")
		s.Require().NoError(err)

		r, err := BoundsForOwner(anonymous, IDWidth)
		s.Require().NoError(err)

		first, err := OwnedKey(anonymous, NewSketchKey(time.Now(), s.rnd))
		s.Require().NoError(err)
		second, err := OwnedKey(Anonymous(), NewSketchKey(time.Now().Add(time.Minute), s.rnd))
		s.Require().NoError(err)

		s.Require().True(r.Contains(first))
		s.Require().True(r.Contains(second))
		s.Require().Equal(first[:1+IDWidth], second[:1+IDWidth])
	})
}

func (s *KeysTestSuite) TestSketchKey() {

	now := time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

	older := NewSketchKey(now, s.rnd)
	newer := NewSketchKey(now.Add(time.Second), s.rnd)

	s.Require().Len(older, len(SketchSentinel))
	s.Require().Less(newer, older, "newer sketches sort first")
	s.Require().True(GalleryRange().Contains(newer))
	s.Require().Less(SketchSentinel, newer)
}

func (s *KeysTestSuite) TestCommentBounds() {

	randomID, err := NewRandomID()
	s.Require().NoError(err)
	s.Require().True(ValidRandomID(randomID))

	r, err := BoundsForComments(randomID)
	s.Require().NoError(err)

	key := CommentKey(randomID, NewSketchKey(time.Now(), s.rnd))
	s.Require().True(r.Contains(key))

	otherID, err := NewRandomID()
	s.Require().NoError(err)
	if otherID != randomID {
		s.Require().False(r.Contains(CommentKey(otherID, NewSketchKey(time.Now(), s.rnd))))
	}

	_, err = BoundsForComments("short")
	s.Require().True(errors.IsError(err, errors.KeyFormatError))
}

func TestKeysTestSuite(t *testing.T) {
	suite.Run(t, new(KeysTestSuite))
}

func TestRangeContains(t *testing.T) {

	r := Range{Start: "b", End: "d"}
	require.True(t, r.Contains("b"))
	require.True(t, r.Contains("c"))
	require.False(t, r.Contains("d"))
	require.False(t, r.Contains("a"))

	open := Range{Start: "b"}
	require.True(t, open.Contains("zzz"))
}
