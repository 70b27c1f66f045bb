package models

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/supakorn-kn/go-sketchpatch/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AggregatedResult[T any] struct {
	Count int `bson:"count"`
	Total int `bson:"total"`
	Data  []T `bson:"data"`
}

type BaseSearchOptions struct {
	CurrentPage int
	Pipeline    mongo.Pipeline
}

type MatchType uint8

const (
	EqualMatchType     MatchType = 0
	PartialMatchType   MatchType = 1
	StartWithMatchType MatchType = 2
	EndWithMatchType   MatchType = 3
)

type MatchOption struct {
	MatchType MatchType `json:"match_type" form:"match_type"`
	Value     string    `json:"value" form:"value"`
}

func (opt MatchOption) IsNil() bool {
	return reflect.ValueOf(opt).IsZero()
}

func CreateMatchBson(key string, value any, matchType MatchType) (bson.D, error) {

	switch matchType {

	case EqualMatchType:
		return EqualMatchBson(key, value), nil

	case PartialMatchType:
		return PartialMatchBson(key, value), nil

	case StartWithMatchType:
		return StartWithMatchBson(key, value), nil

	case EndWithMatchType:
		return EndWithMatchBson(key, value), nil

	default:
		return nil, errors.MatchTypeInvalidError.New(matchType)
	}
}

func quote(value any) string {
	return regexp.QuoteMeta(fmt.Sprint(value))
}

// EqualMatchBson creates BSON for equal search (Case-sensitive)
func EqualMatchBson(key string, value any) bson.D {
	return bson.D{{Key: key, Value: value}}
}

// PartialMatchBson creates BSON for partial search (Case-insensitive)
func PartialMatchBson(key string, value any) bson.D {
	return bson.D{{Key: key, Value: bson.M{"$regex": quote(value), "$options": "i"}}}
}

// StartWithMatchBson creates BSON for start with keyword search (Case-insensitive)
func StartWithMatchBson(key string, value any) bson.D {
	return bson.D{{Key: key, Value: bson.M{"$regex": "^" + quote(value), "$options": "i"}}}
}

// EndWithMatchBson creates BSON for end with keyword search (Case-insensitive)
func EndWithMatchBson(key string, value any) bson.D {
	return bson.D{{Key: key, Value: bson.M{"$regex": quote(value) + "$", "$options": "i"}}}
}

type SortOrder int

const (
	SortASC  SortOrder = 1
	SortDESC SortOrder = -1
)

type SortData struct {
	Key    string
	SortBy SortOrder
}

// SearchPipelineBuilder builds the aggregation used by BaseModel.Search: one page of data plus the
// total number of matches.
type SearchPipelineBuilder struct {
	match bson.D
	sort  bson.D
	skip  int
	limit int
}

func NewSearchPipelineBuilder() *SearchPipelineBuilder {
	return &SearchPipelineBuilder{match: bson.D{}}
}

func (b *SearchPipelineBuilder) Match(key string, value any, matchType MatchType) error {

	matchBson, err := CreateMatchBson(key, value, matchType)
	if err != nil {
		return err
	}

	b.match = append(b.match, matchBson...)
	return nil
}

func (b *SearchPipelineBuilder) Skip(n int) {
	b.skip = max(n, 0)
}

func (b *SearchPipelineBuilder) Limit(n int) {
	b.limit = n
}

func (b *SearchPipelineBuilder) SortedBy(sortData []SortData) {

	b.sort = bson.D{}
	for _, data := range sortData {
		b.sort = append(b.sort, bson.E{Key: data.Key, Value: data.SortBy})
	}
}

func (b *SearchPipelineBuilder) BuildPipeline() mongo.Pipeline {

	pipeline := mongo.Pipeline{{{Key: "$match", Value: b.match}}}
	if len(b.sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: b.sort}})
	}

	dataStages := bson.A{bson.D{{Key: "$skip", Value: b.skip}}}
	if b.limit > 0 {
		dataStages = append(dataStages, bson.D{{Key: "$limit", Value: b.limit}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$facet", Value: bson.D{
			{Key: "data", Value: dataStages},
			{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "total"}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "data", Value: 1},
			{Key: "count", Value: bson.D{{Key: "$size", Value: "$data"}}},
			{Key: "total", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$total.total", 0}}}, 0,
			}}}},
		}}},
	)

	return pipeline
}
