package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"eventhub/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventDB struct {
	ID          int64     `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Category    string    `bson:"category"`
	Location    string    `bson:"location"`
	StartDate   time.Time `bson:"start_date"`
	EndDate     time.Time `bson:"end_date"`
	ImageURL    *string   `bson:"image_url,omitempty"`
	OrganizerID int64     `bson:"organizer_id"`
	Capacity    int       `bson:"capacity"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d eventDB) toModel() *domain.Event {
	return &domain.Event{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Category:    domain.Category(d.Category),
		Location:    d.Location,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		ImageURL:    d.ImageURL,
		OrganizerID: d.OrganizerID,
		Capacity:    d.Capacity,
		CreatedAt:   d.CreatedAt,
	}
}

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	id, err := s.nextID(ctx, eventsCollection)
	if err != nil {
		return err
	}
	doc := eventDB{
		ID:          id,
		Title:       e.Title,
		Description: e.Description,
		Category:    string(e.Category),
		Location:    e.Location,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		ImageURL:    e.ImageURL,
		OrganizerID: e.OrganizerID,
		Capacity:    e.Capacity,
		CreatedAt:   s.nowFunc(),
	}
	if _, err := s.events.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.ID = doc.ID
	e.CreatedAt = doc.CreatedAt
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	var doc eventDB
	if err := s.events.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toModel(), nil
}

// ListEvents pushes every filter dimension into the query except the weekend
// restriction, which is checked on the decoded documents.
func (s *Store) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"location": re},
		}
	}
	window, hasWindow := filter.Window(s.nowFunc())
	if hasWindow {
		query["start_date"] = bson.M{"$gte": window.From, "$lt": window.To}
	}
	if filter.OrganizerID != 0 {
		query["organizer_id"] = filter.OrganizerID
	}

	cursor, err := s.events.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []eventDB
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	events := make([]*domain.Event, 0, len(docs))
	for _, d := range docs {
		if hasWindow && !window.Contains(d.StartDate) {
			continue
		}
		events = append(events, d.toModel())
	}
	return events, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id int64, update domain.EventUpdate) (*domain.Event, error) {
	set := bson.D{}
	if update.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *update.Title})
	}
	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *update.Description})
	}
	if update.Category != nil {
		set = append(set, bson.E{Key: "category", Value: string(*update.Category)})
	}
	if update.Location != nil {
		set = append(set, bson.E{Key: "location", Value: *update.Location})
	}
	if update.StartDate != nil {
		set = append(set, bson.E{Key: "start_date", Value: *update.StartDate})
	}
	if update.EndDate != nil {
		set = append(set, bson.E{Key: "end_date", Value: *update.EndDate})
	}
	if update.ImageURL != nil && !update.ClearImageURL {
		set = append(set, bson.E{Key: "image_url", Value: *update.ImageURL})
	}
	if update.Capacity != nil {
		set = append(set, bson.E{Key: "capacity", Value: *update.Capacity})
	}
	change := bson.D{}
	if len(set) > 0 {
		change = append(change, bson.E{Key: "$set", Value: set})
	}
	if update.ClearImageURL {
		change = append(change, bson.E{Key: "$unset", Value: bson.D{{Key: "image_url", Value: ""}}})
	}
	if len(change) == 0 {
		return s.GetEvent(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc eventDB
	err := s.events.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		change,
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	return doc.toModel(), nil
}

func (s *Store) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	res, err := s.events.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
