package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arabemerge/helpdesk/internal/core/domain"
)

// Messages live in one top-level collection keyed by ticket_id; the
// compound (ticket_id, timestamp) index makes the per-thread ascending
// read a single index scan.
const collectionMessages = "ticket_messages"

type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(collectionMessages)}
}

// Append inserts a message. There is no update or delete: the thread is
// append-only.
func (r *MessageRepository) Append(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, m)
	return err
}

// ListByTicket returns the thread ordered by timestamp ascending.
func (r *MessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"ticket_id": ticketID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := make([]*domain.Message, 0)
	for cursor.Next(ctx) {
		var m domain.Message
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, cursor.Err()
}

// EnsureIndexes creates the thread read index.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ticket_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}
