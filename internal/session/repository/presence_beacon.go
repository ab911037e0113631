package repository

import (
	"context"
	"encoding/json"
	"time"

	"direct_chat_service/internal/session/domain"
	"direct_chat_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PresenceBeacon 離線通知 (fire-and-forget)
// 頁面關閉時 client 無法可靠執行登出, 由 beacon 事件補寫離線狀態
// 不保證送達, caller 不等待結果
type PresenceBeacon interface {
	MarkOfflineAsync(uid string)
}

// KafkaWriter 寫入介面, 測試時可替換
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaPresenceBeacon struct {
	writer KafkaWriter
}

// NewKafkaPresenceBeacon create PresenceBeacon
func NewKafkaPresenceBeacon(writer KafkaWriter) PresenceBeacon {
	return &kafkaPresenceBeacon{writer: writer}
}

// MarkOfflineAsync 發布離線事件後立即返回, 失敗只記 log
func (b *kafkaPresenceBeacon) MarkOfflineAsync(uid string) {
	event := domain.PresenceEvent{
		UID:      uid,
		IsOnline: false,
		SentAt:   time.Now().UnixMilli(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorf("presence beacon marshal err:", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := b.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(uid),
			Value: data,
		}); err != nil {
			logger.Log.Error("presence beacon publish err", zap.String("uid", uid), zap.Error(err))
		}
	}()
}
