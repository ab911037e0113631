package domain

import "direct_chat_service/pkg"

// ChatRoomType definition chat room type
type ChatRoomType string

const (
	// ChatRoomTypeDirect definition chat room 1 on 1
	ChatRoomTypeDirect ChatRoomType = "direct"
	// ChatRoomTypeGroup definition chat room group
	ChatRoomTypeGroup ChatRoomType = "group"
)

// GeneralRoomID 共用廣播房間, 不落地 room 紀錄
const GeneralRoomID = "general"

// LastMessage room 內最新一則訊息的 denormalized 快取
// 由最後送出訊息的 client 覆寫, 與訊息本體非原子更新
type LastMessage struct {
	ID         string      `bson:"id" json:"id"`
	Text       string      `bson:"text" json:"text"`
	SenderID   string      `bson:"sender_id" json:"sender_id"`
	SenderName string      `bson:"sender_name" json:"sender_name"`
	Timestamp  int64       `bson:"timestamp" json:"timestamp"`
	Type       MessageType `bson:"type" json:"type"`
}

// ChatRoom definition chat room
// direct room 的 participants 恰為兩人, 順序不保證正規化,
// 兩種順序視為同一組
type ChatRoom struct {
	ID           string         `bson:"_id,omitempty" json:"id"`
	Name         string         `bson:"name,omitempty" json:"name,omitempty"`
	RoomType     ChatRoomType   `bson:"room_type" json:"room_type"`
	Participants []string       `bson:"participants,omitempty" json:"participants,omitempty"`
	CreatedBy    string         `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt    int64          `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt    int64          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	LastMessage  *LastMessage   `bson:"last_message,omitempty" json:"last_message,omitempty"`
	UnreadCount  map[string]int `bson:"unread_count,omitempty" json:"unread_count,omitempty"`
}

// HasParticipant check uid in participants
func (r *ChatRoom) HasParticipant(uid string) bool {
	return pkg.Contains(r.Participants, uid)
}

// OtherParticipant 回傳 direct room 另一位成員, 找不到回空字串
func (r *ChatRoom) OtherParticipant(uid string) string {
	for _, p := range r.Participants {
		if p != uid {
			return p
		}
	}
	return ""
}

// DirectRoomView 側欄列表用, 附上對方顯示名稱
type DirectRoomView struct {
	ChatRoom
	OtherName string `json:"other_name"`
}
