package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"direct_chat_service/internal/session/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// scriptedReader 依序吐出預排的事件, 讀完阻塞到 ctx 取消
type scriptedReader struct {
	msgs chan kafka.Message
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

// 測試 worker 只處理離線事件, 壞資料跳過不中斷
func TestOfflineWorker_Run(t *testing.T) {
	uid := uuid.New().String()

	offline, _ := json.Marshal(domain.PresenceEvent{UID: uid, IsOnline: false})
	online, _ := json.Marshal(domain.PresenceEvent{UID: "other", IsOnline: true})

	reader := &scriptedReader{msgs: make(chan kafka.Message, 3)}
	reader.msgs <- kafka.Message{Value: []byte("not json")}
	reader.msgs <- kafka.Message{Value: online}
	reader.msgs <- kafka.Message{Value: offline}

	done := make(chan struct{})
	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("SetOffline", mock.Anything, uid).
		Run(func(mock.Arguments) { close(done) }).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewOfflineWorker(reader, mockProfiles)
	go worker.Run(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("offline event not processed")
	}

	mockProfiles.AssertNumberOfCalls(t, "SetOffline", 1)
	assert.True(t, mockProfiles.AssertExpectations(t))
}
