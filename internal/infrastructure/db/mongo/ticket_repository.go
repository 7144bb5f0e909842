package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

const collectionTickets = "tickets"

type TicketRepository struct {
	col *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{col: db.Collection(collectionTickets)}
}

// Create inserts a new ticket document.
func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, t)
	return err
}

// FindByID retrieves one ticket.
func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Ticket
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns tickets matching filter ordered by created_at descending.
func (r *TicketRepository) List(ctx context.Context, filter ports.ListTicketsFilter) ([]*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, buildTicketFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tickets := make([]*domain.Ticket, 0)
	for cursor.Next(ctx) {
		var t domain.Ticket
		if err := cursor.Decode(&t); err != nil {
			return nil, err
		}
		tickets = append(tickets, &t)
	}
	return tickets, cursor.Err()
}

// Update applies a partial field write plus the updated-at timestamp.
func (r *TicketRepository) Update(ctx context.Context, id string, patch ports.TicketPatch) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":          patch.Title,
		"location":       patch.Location,
		"severity":       string(patch.Severity),
		"status":         string(patch.Status),
		"notes":          patch.Notes,
		"ticket_details": patch.TicketDetails,
		"quantity":       patch.Quantity,
		"updated_at":     patch.UpdatedAt,
	}}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// SetUnread flips the unread flag. Marking unread also records who sent the
// last message and when; clearing touches only the flag.
func (r *TicketRepository) SetUnread(ctx context.Context, id string, unread bool, lastMessageAt time.Time, lastMessageBy string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"has_unread_messages": unread}
	if unread {
		set["last_message_at"] = lastMessageAt.UTC()
		set["last_message_by"] = lastMessageBy
	}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// Count returns a server-side count of tickets matching filter.
func (r *TicketRepository) Count(ctx context.Context, filter ports.ListTicketsFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, buildTicketFilter(filter))
}

func buildTicketFilter(filter ports.ListTicketsFilter) bson.M {
	query := bson.M{}
	if filter.OwnerEmail != "" {
		query["owner_email"] = filter.OwnerEmail
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query["status"] = bson.M{"$in": statuses}
	}
	return query
}

// EnsureIndexes creates the indexes the list and count queries rely on.
func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_email", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
