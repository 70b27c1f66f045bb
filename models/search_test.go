package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/supakorn-kn/go-sketchpatch/errors"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCreateMatchBson(t *testing.T) {

	var testCases = map[string]struct {
		matchType MatchType
		expected  bson.D
	}{
		"Equal":      {matchType: EqualMatchType, expected: bson.D{{Key: "title", Value: "a.b"}}},
		"Partial":    {matchType: PartialMatchType, expected: bson.D{{Key: "title", Value: bson.M{"$regex": `a\.b`, "$options": "i"}}}},
		"Start with": {matchType: StartWithMatchType, expected: bson.D{{Key: "title", Value: bson.M{"$regex": `^a\.b`, "$options": "i"}}}},
		"End with":   {matchType: EndWithMatchType, expected: bson.D{{Key: "title", Value: bson.M{"$regex": `a\.b$`, "$options": "i"}}}},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {

			actual, err := CreateMatchBson("title", "a.b", tc.matchType)
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}

	_, err := CreateMatchBson("title", "x", 255)
	require.True(t, errors.IsError(err, errors.MatchTypeInvalidError))
}

func TestSearchPipelineBuilder(t *testing.T) {

	builder := NewSearchPipelineBuilder()
	require.NoError(t, builder.Match("name", "ada", EqualMatchType))
	require.Error(t, builder.Match("name", "ada", 99))

	builder.Skip(10)
	builder.Limit(5)
	builder.SortedBy([]SortData{{Key: "user_id", SortBy: SortASC}})

	pipeline := builder.BuildPipeline()
	require.Len(t, pipeline, 4)
	require.Equal(t, "$match", pipeline[0][0].Key)
	require.Equal(t, bson.D{{Key: "name", Value: "ada"}}, pipeline[0][0].Value)
	require.Equal(t, "$sort", pipeline[1][0].Key)
	require.Equal(t, "$facet", pipeline[2][0].Key)

	facet := pipeline[2][0].Value.(bson.D)
	require.Equal(t, bson.A{bson.D{{Key: "$skip", Value: 10}}, bson.D{{Key: "$limit", Value: 5}}}, facet[0].Value)
}
