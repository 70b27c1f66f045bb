package models

import (
	"context"
	"errors"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Item interface {
	GetID() string
}

type PaginationData[Data Item] struct {
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	Count      int    `json:"count"`
	Data       []Data `json:"data"`
}

type BaseModel[T Item] struct {
	SearchLenLimit int

	Coll      *mongo.Collection
	ItemIDKey string
}

func (m *BaseModel[T]) Inject(coll *mongo.Collection, searchLenLimit int, itemIDKey string) error {

	if searchLenLimit < 1 {
		return serverError.CurrentPageInvalidError.New()
	}

	m.Coll = coll
	m.SearchLenLimit = searchLenLimit
	m.ItemIDKey = itemIDKey

	return nil
}

func (m BaseModel[T]) idFilter(itemID string) bson.D {
	return bson.D{{Key: m.ItemIDKey, Value: itemID}}
}

func (m BaseModel[T]) Insert(ctx context.Context, item T) error {

	_, err := m.Coll.InsertOne(ctx, item)
	if err != nil {

		if mongo.IsDuplicateKeyError(err) {
			return serverError.DuplicatedObjectIDError.New(item.GetID())
		}

		return err
	}

	return nil
}

// Upsert replaces the stored item with the same id, inserting it when missing.
func (m BaseModel[T]) Upsert(ctx context.Context, item T) error {

	_, err := m.Coll.ReplaceOne(ctx, m.idFilter(item.GetID()), item, options.Replace().SetUpsert(true))
	return err
}

func (m BaseModel[T]) GetByID(ctx context.Context, itemID string) (item T, err error) {

	result := m.Coll.FindOne(ctx, m.idFilter(itemID))

	err = result.Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = serverError.ObjectIDNotFoundError.New(itemID)
		return
	}

	return
}

func (m BaseModel[T]) FindOne(ctx context.Context, filter bson.D) (item T, err error) {

	err = m.Coll.FindOne(ctx, filter).Decode(&item)
	return
}

func (m BaseModel[T]) Search(ctx context.Context, opt BaseSearchOptions) (paginationData PaginationData[T], paginateErr error) {

	var currentPage = opt.CurrentPage
	if currentPage < 1 {
		paginateErr = serverError.CurrentPageInvalidError.New()
		return
	}

	var cur *mongo.Cursor
	cur, paginateErr = m.Coll.Aggregate(ctx, opt.Pipeline)
	if paginateErr != nil {
		return
	}

	var aggResultList []AggregatedResult[T]
	paginateErr = cur.All(ctx, &aggResultList)
	if paginateErr != nil {
		return
	}

	var aggResult AggregatedResult[T]
	if len(aggResultList) > 0 {
		aggResult = aggResultList[0]
	}

	totalPages := aggResult.Total / m.SearchLenLimit
	if aggResult.Total%m.SearchLenLimit > 0 {
		totalPages++
	}

	data := aggResult.Data
	if data == nil {
		data = make([]T, 0)
	}

	paginationData = PaginationData[T]{
		Page:       currentPage,
		TotalPages: totalPages,
		Count:      aggResult.Total,
		Data:       data,
	}

	return
}

// Update sets every field of item but its id. Fields left empty are kept when the item's bson
// tags use omitempty.
func (m BaseModel[T]) Update(ctx context.Context, item T) error {

	filter, err := CreateMatchBson(m.ItemIDKey, item.GetID(), EqualMatchType)
	if err != nil {
		return err
	}

	b, err := bson.Marshal(item)
	if err != nil {
		return err
	}

	var parsedBson bson.D
	err = bson.Unmarshal(b, &parsedBson)
	if err != nil {
		return err
	}

	var updateBson bson.D
	for _, keyValue := range parsedBson {

		if keyValue.Key != m.ItemIDKey {
			updateBson = append(updateBson, keyValue)
		}
	}

	result := m.Coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: updateBson}})
	if err := result.Err(); err != nil {

		if errors.Is(err, mongo.ErrNoDocuments) {
			return serverError.ObjectIDNotFoundError.New(item.GetID())
		}

		return err
	}

	return nil
}

func (m BaseModel[T]) Delete(ctx context.Context, itemID string) error {

	result := m.Coll.FindOneAndDelete(ctx, m.idFilter(itemID))
	if err := result.Err(); err != nil {

		if errors.Is(err, mongo.ErrNoDocuments) {
			return serverError.ObjectIDNotFoundError.New(itemID)
		}

		return err
	}

	return nil
}

// FetchRange reads up to limit items with start <= id < end in ascending id order.
// An empty end leaves the range open.
func (m BaseModel[T]) FetchRange(ctx context.Context, start, end string, limit int) ([]T, error) {

	bounds := bson.D{{Key: "$gte", Value: start}}
	if end != "" {
		bounds = append(bounds, bson.E{Key: "$lt", Value: end})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: m.ItemIDKey, Value: SortASC}}).
		SetLimit(int64(limit))

	cur, err := m.Coll.Find(ctx, bson.D{{Key: m.ItemIDKey, Value: bounds}}, opts)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// DeleteRange removes every item with start <= id < end.
func (m BaseModel[T]) DeleteRange(ctx context.Context, start, end string) (int64, error) {

	filter := bson.D{{Key: m.ItemIDKey, Value: bson.D{
		{Key: "$gte", Value: start},
		{Key: "$lt", Value: end},
	}}}

	result, err := m.Coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}

// Query is a filtered and sorted view of the collection that can be split in numbered pages.
func (m BaseModel[T]) Query(filter, sort bson.D, countCap int) Query[T] {
	return Query[T]{coll: m.Coll, filter: filter, sort: sort, countCap: countCap}
}
