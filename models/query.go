package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Query feeds paging.Paginator. Counting stops at countCap documents when the cap is positive.
type Query[T Item] struct {
	coll     *mongo.Collection
	filter   bson.D
	sort     bson.D
	countCap int
}

func (q Query[T]) matchAll() bson.D {

	if q.filter == nil {
		return bson.D{}
	}

	return q.filter
}

func (q Query[T]) Count(ctx context.Context) (int, error) {

	opts := options.Count()
	if q.countCap > 0 {
		opts.SetLimit(int64(q.countCap))
	}

	n, err := q.coll.CountDocuments(ctx, q.matchAll(), opts)
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

func (q Query[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {

	opts := options.Find().SetSkip(int64(offset)).SetLimit(int64(limit))
	if len(q.sort) > 0 {
		opts.SetSort(q.sort)
	}

	cur, err := q.coll.Find(ctx, q.matchAll(), opts)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}

	return items, nil
}
