package app

import (
	"context"
	"encoding/json"

	"direct_chat_service/internal/session/domain"
	"direct_chat_service/internal/session/repository"
	"direct_chat_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaReader 讀取介面, 測試時可替換
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OfflineWorker 消費 presence beacon 事件, 補寫 profile 離線狀態
type OfflineWorker struct {
	reader      KafkaReader
	profileRepo repository.ProfileRepository
}

// NewOfflineWorker create OfflineWorker
func NewOfflineWorker(reader KafkaReader, profileRepo repository.ProfileRepository) *OfflineWorker {
	return &OfflineWorker{
		reader:      reader,
		profileRepo: profileRepo,
	}
}

// Run 持續消費直到 ctx 取消
// 單筆事件失敗只記 log, 不中斷 worker
func (w *OfflineWorker) Run(ctx context.Context) {
	for {
		msg, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Log.Info("offline worker stopped")
				return
			}
			logger.Log.Errorf("offline worker read err:", err)
			continue
		}

		var event domain.PresenceEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Log.Errorf("offline worker unmarshal err:", err)
			continue
		}
		if event.UID == "" || event.IsOnline {
			continue
		}

		if err := w.profileRepo.SetOffline(ctx, event.UID); err != nil {
			logger.Log.Error("offline worker set offline err", zap.String("uid", event.UID), zap.Error(err))
		}
	}
}
