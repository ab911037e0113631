package domain

// MessageType definition message type
type MessageType string

const (
	// MessageTypeText text message
	MessageTypeText MessageType = "text"
	// MessageTypeImage image message
	MessageTypeImage MessageType = "image"
	// MessageTypeFile file message
	MessageTypeFile MessageType = "file"
	// MessageTypeAudio audio message
	MessageTypeAudio MessageType = "audio"
	// MessageTypeVideo video message
	MessageTypeVideo MessageType = "video"
)

// ReplyRef 回覆引用
type ReplyRef struct {
	MessageID  string `bson:"message_id" json:"message_id"`
	Text       string `bson:"text" json:"text"`
	SenderName string `bson:"sender_name" json:"sender_name"`
}

// ChatMessage 表示一則聊天訊息
// Timestamp 由 store 在 commit 時指定 (unix milli), 不採 client 時鐘;
// 同 room 併發送出的訊息以到達 store 的先後排序
// EditedAt/Reactions/ReplyTo/ReadBy 欄位保留, 目前流程未使用
type ChatMessage struct {
	ID           string              `bson:"_id,omitempty" json:"id"`
	RoomID       string              `bson:"room_id" json:"room_id"`
	SenderID     string              `bson:"sender_id" json:"sender_id"`
	SenderName   string              `bson:"sender_name" json:"sender_name"` // 送出當下 denormalized, 改名不回寫
	SenderAvatar string              `bson:"sender_avatar,omitempty" json:"sender_avatar,omitempty"`
	Text         string              `bson:"text" json:"text"`
	Type         MessageType         `bson:"type" json:"type"`
	Timestamp    int64               `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
	EditedAt     int64               `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	Reactions    map[string][]string `bson:"reactions,omitempty" json:"reactions,omitempty"`
	ReplyTo      *ReplyRef           `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
	ReadBy       map[string]int64    `bson:"read_by,omitempty" json:"read_by,omitempty"`
}

// IsPending store 尚未確認 commit 的訊息
func (m *ChatMessage) IsPending() bool {
	return m.Timestamp == 0
}

// Sender 發送者快照, 寫入訊息時一併冗餘保存
type Sender struct {
	UID         string
	DisplayName string
	AvatarURL   string
}
