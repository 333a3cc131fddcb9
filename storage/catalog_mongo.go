package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gardenexchange/backend/database/models"
)

const (
	itemsCollection    = "trading_items"
	countersCollection = "counters"
)

// MongoCatalogStore serves the item catalog out of MongoDB. Documents
// carry numeric _id values allocated from a counters collection so ids
// stay interchangeable with the relational serial ids.
type MongoCatalogStore struct {
	db *mongo.Database
}

var _ CatalogStore = (*MongoCatalogStore)(nil)

func NewMongoCatalogStore(db *mongo.Database) *MongoCatalogStore {
	return &MongoCatalogStore{db: db}
}

func (s *MongoCatalogStore) items() *mongo.Collection {
	return s.db.Collection(itemsCollection)
}

func (s *MongoCatalogStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: itemsCollection}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate item id: %w", err)
	}
	return counter.Seq, nil
}

func (s *MongoCatalogStore) GetAllTradingItems(ctx context.Context) ([]models.TradingItem, error) {
	cur, err := s.items().Find(ctx,
		bson.D{{Key: "tradeable", Value: true}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trading items: %w", err)
	}
	defer cur.Close(ctx)

	items := []models.TradingItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode trading items: %w", err)
	}
	return items, nil
}

func (s *MongoCatalogStore) GetTradingItem(ctx context.Context, id int64) (*models.TradingItem, error) {
	var item models.TradingItem
	err := s.items().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &NotFoundError{Entity: "trading_item", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trading item %d: %w", id, err)
	}
	return &item, nil
}

func (s *MongoCatalogStore) CreateTradingItem(ctx context.Context, item *models.TradingItem) error {
	id, err := s.nextID(ctx)
	if err != nil {
		return err
	}
	item.ID = id
	item.UpdatedAt = time.Now()

	if _, err := s.items().InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert trading item: %w", err)
	}
	return nil
}

// UpdateTradingItemValue rolls the current value into previousValue and
// sets the new one. Read-then-write; concurrent value updates to the
// same item are last-writer-wins, which the value-update process
// tolerates.
func (s *MongoCatalogStore) UpdateTradingItemValue(ctx context.Context, id int64, newValue int) (*models.TradingItem, error) {
	item, err := s.GetTradingItem(ctx, id)
	if err != nil {
		return nil, err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "previousValue", Value: item.CurrentValue},
		{Key: "currentValue", Value: newValue},
		{Key: "changePercent", Value: changePercent(item.CurrentValue, newValue)},
		{Key: "updatedAt", Value: time.Now()},
	}}}

	var updated models.TradingItem
	err = s.items().FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &NotFoundError{Entity: "trading_item", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update trading item %d: %w", id, err)
	}
	return &updated, nil
}

func (s *MongoCatalogStore) SearchTradingItems(ctx context.Context, query string, limit int) ([]models.TradingItem, error) {
	items, err := s.GetAllTradingItems(ctx)
	if err != nil {
		return nil, err
	}
	return rankItems(items, query, limit), nil
}

func (s *MongoCatalogStore) CatalogStats(ctx context.Context) (*CatalogStats, error) {
	total, err := s.items().CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to count trading items: %w", err)
	}
	return &CatalogStats{TotalItems: total}, nil
}

func (s *MongoCatalogStore) CurrentWeather(_ context.Context) (*Weather, error) {
	return &Weather{
		Current: "Sunny",
		Effect:  "+15% Crop Growth",
		Icon:    "☀️",
	}, nil
}
