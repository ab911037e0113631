package repository

import (
	"context"
	"time"

	"direct_chat_service/internal/chat/domain"
	"direct_chat_service/pkg/database"
	errprocess "direct_chat_service/pkg/err"
	"direct_chat_service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const roomCollection = "chat_rooms"

// RoomRepository definition chat room storage
type RoomRepository interface {
	CreateRoom(ctx context.Context, room *domain.ChatRoom) error
	FindByID(ctx context.Context, roomID string) (*domain.ChatRoom, error)
	FindDirectRoomsByMember(ctx context.Context, uid string) ([]domain.ChatRoom, error)
	UpdateSummary(ctx context.Context, roomID string, last domain.LastMessage) error
}

type roomRepository struct {
	col *mongo.Collection
}

// NewRoomRepository create room repository
func NewRoomRepository(db database.MongoDB) RoomRepository {
	return &roomRepository{col: db.Collection(roomCollection)}
}

// CreateRoom 寫入時才決定 created_at/updated_at
func (r *roomRepository) CreateRoom(ctx context.Context, room *domain.ChatRoom) error {
	now := time.Now().UnixMilli()
	room.CreatedAt = now
	room.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, room); err != nil {
		return errprocess.Wrap(errprocess.ErrStoreWriteFailed, err)
	}
	return nil
}

func (r *roomRepository) FindByID(ctx context.Context, roomID string) (*domain.ChatRoom, error) {
	var room domain.ChatRoom
	err := r.col.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errprocess.Wrap(errprocess.ErrStoreQueryFailed, err)
	}
	return &room, nil
}

// FindDirectRoomsByMember 依 updated_at 由新到舊
func (r *roomRepository) FindDirectRoomsByMember(ctx context.Context, uid string) ([]domain.ChatRoom, error) {
	filter := bson.M{
		"room_type":    domain.ChatRoomTypeDirect,
		"participants": uid,
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, errprocess.Wrap(errprocess.ErrStoreQueryFailed, err)
	}
	defer cursor.Close(ctx)

	var rooms []domain.ChatRoom
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, errprocess.Wrap(errprocess.ErrStoreQueryFailed, err)
	}
	return rooms, nil
}

// UpdateSummary 帶 updated_at <= timestamp 條件, 舊訊息不可回捲摘要
func (r *roomRepository) UpdateSummary(ctx context.Context, roomID string, last domain.LastMessage) error {
	filter := bson.M{
		"_id":        roomID,
		"updated_at": bson.M{"$lte": last.Timestamp},
	}
	update := bson.M{"$set": bson.M{
		"last_message": last,
		"updated_at":   last.Timestamp,
	}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return errprocess.Wrap(errprocess.ErrStoreWriteFailed, err)
	}
	if res.MatchedCount == 0 {
		logger.Log.Debug("room summary skipped, newer update already applied", zap.String("room_id", roomID))
	}
	return nil
}
