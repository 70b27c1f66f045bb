package keys

import (
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"time"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// OwnerSign marks owner scoped keys so they never interleave with bare sketch keys.
	OwnerSign = "-"

	// AnonymousToken is the public token of the shared anonymous owner bucket.
	AnonymousToken = "anonymous"

	defaultTokenName = "sketcher"

	sketchPrefix = "sketch"
	randomIDLen  = 11
)

// SketchSentinel sorts before every key produced by NewSketchKey.
var SketchSentinel = sketchPrefix + strings.Repeat("0", 21)

// sketchCeiling sorts after every key produced by NewSketchKey.
var sketchCeiling = sketchPrefix + strings.Repeat("9", 21)

// countdownTo is the instant sketch keys count down to. Keys of newer sketches are smaller and
// therefore come first in ascending key order.
var countdownTo = time.Date(2128, time.July, 3, 12, 0, 0, 0, time.UTC)

// Anonymous is the owner id every contribution without a signed in user is filed under.
// All anonymous sketches intentionally share this single bucket.
func Anonymous() *big.Int {
	return big.NewInt(0)
}

// ParseOwnerID reads the decimal user id handed out by the identity layer.
func ParseOwnerID(userID string) (*big.Int, error) {

	if userID == "" {
		return Anonymous(), nil
	}

	return DecodeID(userID)
}

// OwnerToken is the public form of an owner used in URLs, e.g. "davidedc-2jaidlbSQRSE".
// The nickname is slugged so that the token stays a single path segment.
func OwnerToken(nickname string, id *big.Int) string {

	if id == nil || id.Sign() == 0 {
		return AnonymousToken
	}

	encoded, err := ToBase(id, 62)
	if err != nil {
		return AnonymousToken
	}

	name := slug.Make(nickname)
	if name == "" {
		name = defaultTokenName
	}

	return fmt.Sprintf("%s-%s", name, encoded)
}

// ParseOwnerToken reverses OwnerToken. The nickname part is informational and ignored.
func ParseOwnerToken(token string) (*big.Int, error) {

	token, _, _ = strings.Cut(token, "/")
	if token == AnonymousToken || token == "" {
		return Anonymous(), nil
	}

	encoded := token
	if i := strings.LastIndex(token, "-"); i >= 0 {
		encoded = token[i+1:]
	}

	return FromBase(encoded, 62)
}

// OwnerPrefix is the key prefix shared by every entity of owner.
func OwnerPrefix(owner *big.Int) (string, error) {

	encoded, err := EncodeID(owner, IDWidth)
	if err != nil {
		return "", err
	}

	return OwnerSign + encoded, nil
}

// OwnedKey files entityKey under owner.
func OwnedKey(owner *big.Int, entityKey string) (string, error) {

	prefix, err := OwnerPrefix(owner)
	if err != nil {
		return "", err
	}

	return prefix + entityKey, nil
}

// NewSketchKey generates the ordering key of a sketch created at now.
func NewSketchKey(now time.Time, rnd *rand.Rand) string {

	left := countdownTo.Sub(now)
	if left < 0 {
		left = 0
	}

	days := int64(left / (24 * time.Hour))
	left -= time.Duration(days) * 24 * time.Hour
	seconds := int64(left / time.Second)
	left -= time.Duration(seconds) * time.Second
	micros := int64(left / time.Microsecond)

	return fmt.Sprintf("%s%05d%05d%06d%05d", sketchPrefix, days, seconds, micros, rnd.Intn(100_000))
}

// CommentKey files a comment under the sketch it belongs to.
func CommentKey(sketchRandomID, commentSketchKey string) string {
	return OwnerSign + sketchRandomID + commentSketchKey
}

// NewRandomID generates the public id of a sketch.
func NewRandomID() (string, error) {
	return gonanoid.Generate(digits, randomIDLen)
}

// ValidRandomID reports whether id could have been produced by NewRandomID.
func ValidRandomID(id string) bool {

	if len(id) != randomIDLen {
		return false
	}

	return strings.Trim(id, digits) == ""
}
