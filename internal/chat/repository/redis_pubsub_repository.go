package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"direct_chat_service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// Notifier definition room change fan-out
type Notifier interface {
	Publish(channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string, handler func(payload []byte)) (release func(), err error)
}

// RoomChannel redis channel name for room change events
func RoomChannel(roomID string) string {
	return fmt.Sprintf("chat:room:%s", roomID)
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish 將 message 序列化後，發布到指定 channel
func (r *RedisPubSub) Publish(channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channel, data).Err()
}

// Subscribe 訂閱 channel，收到訊息後呼叫 handler 處理
// release 只需呼叫一次, 之後 handler 不再被觸發
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(payload []byte)) (func(), error) {
	sub := r.client.Subscribe(r.ctx, channel)
	// 先確認訂閱成功, 避免漏掉早到的事件
	if _, err := sub.Receive(r.ctx); err != nil {
		sub.Close()
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		ch := sub.Channel()
		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(m.Payload))
			case <-subCtx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				sub.Close()
				return
			}
		}
	}()

	return cancel, nil
}
