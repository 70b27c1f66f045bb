package models

import (
	"context"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IndexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
}

// EnsureCollection creates the collection with a strict $jsonSchema validator, or updates the
// validator of an existing one. A nil schema skips validation.
func EnsureCollection(ctx context.Context, db *mongo.Database, collectionName string, schema bson.M) (*mongo.Collection, error) {

	collectionNameList, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	exists := slices.Contains(collectionNameList, collectionName)
	if schema == nil {

		if !exists {
			if err := db.CreateCollection(ctx, collectionName); err != nil {
				return nil, err
			}
		}

		return db.Collection(collectionName), nil
	}

	validator := bson.D{{Key: "$jsonSchema", Value: schema}}

	if exists {

		cmd := bson.D{
			{Key: "collMod", Value: collectionName},
			{Key: "validator", Value: validator},
			{Key: "validationLevel", Value: "strict"},
		}

		result := db.RunCommand(ctx, cmd, options.RunCmd())
		if err := result.Err(); err != nil {
			return nil, err
		}

		return db.Collection(collectionName), nil
	}

	collectionOptions := options.CreateCollection()
	collectionOptions.SetValidator(validator)
	collectionOptions.SetValidationLevel("strict")

	err = db.CreateCollection(ctx, collectionName, collectionOptions)
	if err != nil {
		return nil, err
	}

	return db.Collection(collectionName), nil
}

// EnsureIndexes creates the indexes of specs that the collection does not have yet, matched by name.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection, specs ...IndexSpec) error {

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return err
	}

	var indexes []bson.M
	err = cur.All(ctx, &indexes)
	if err != nil {
		return err
	}

	for _, spec := range specs {

		contains := slices.ContainsFunc(indexes, func(m primitive.M) bool {
			return m["name"] == spec.Name
		})

		if contains {
			continue
		}

		indexModel := mongo.IndexModel{
			Keys:    spec.Keys,
			Options: options.Index().SetName(spec.Name).SetUnique(spec.Unique),
		}

		if _, err := coll.Indexes().CreateOne(ctx, indexModel); err != nil {
			return err
		}
	}

	return nil
}
