package repository

import (
	"context"
	"time"

	"direct_chat_service/internal/chat/domain"
	"direct_chat_service/pkg/database"
	errprocess "direct_chat_service/pkg/err"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messageCollection = "chat_messages"

// MessageRepository definition chat message storage
type MessageRepository interface {
	InsertMessage(ctx context.Context, msg *domain.ChatMessage) error
	FindByRoom(ctx context.Context, roomID string) ([]domain.ChatMessage, error)
}

type messageRepository struct {
	col *mongo.Collection
}

// NewMessageRepository create message repository
func NewMessageRepository(db database.MongoDB) MessageRepository {
	return &messageRepository{col: db.Collection(messageCollection)}
}

// InsertMessage timestamp 由寫入端決定, client 端不可信
func (r *messageRepository) InsertMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.Timestamp = time.Now().UnixMilli()

	if _, err := r.col.InsertOne(ctx, msg); err != nil {
		return errprocess.Wrap(errprocess.ErrStoreWriteFailed, err)
	}
	return nil
}

// FindByRoom 依 timestamp 升冪, 同 timestamp 維持儲存順序
func (r *messageRepository) FindByRoom(ctx context.Context, roomID string) ([]domain.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, errprocess.Wrap(errprocess.ErrStoreQueryFailed, err)
	}
	defer cursor.Close(ctx)

	var msgs []domain.ChatMessage
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, errprocess.Wrap(errprocess.ErrStoreQueryFailed, err)
	}
	return msgs, nil
}
