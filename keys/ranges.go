package keys

import (
	"math/big"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
)

// Range bounds a key range query: Start <= key < End. An empty End leaves the range open.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

func (r Range) Contains(key string) bool {

	if key < r.Start {
		return false
	}

	return r.End == "" || key < r.End
}

// BoundsForOwner returns the range holding exactly the sketch rows filed under owner.
// The end key is the start key of owner+1, which is why it must still fit width.
func BoundsForOwner(owner *big.Int, width int) (Range, error) {

	start, err := EncodeID(owner, width)
	if err != nil {
		return Range{}, err
	}

	end, err := EncodeID(new(big.Int).Add(owner, big.NewInt(1)), width)
	if err != nil {
		return Range{}, err
	}

	return Range{
		Start: OwnerSign + start + SketchSentinel,
		End:   OwnerSign + end + SketchSentinel,
	}, nil
}

// BoundsForComments returns the range holding the comments of one sketch.
func BoundsForComments(sketchRandomID string) (Range, error) {

	if !ValidRandomID(sketchRandomID) {
		return Range{}, serverError.KeyFormatError.New(sketchRandomID, "not a sketch random id")
	}

	prefix := OwnerSign + sketchRandomID
	return Range{Start: prefix + SketchSentinel, End: prefix + sketchCeiling}, nil
}

// GalleryRange covers every sketch key, newest first.
func GalleryRange() Range {
	return Range{Start: SketchSentinel}
}
