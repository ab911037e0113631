package domain

// Profile 應用自有 store 內的使用者紀錄, 與身分提供方的帳號分開
// _id 即 identity handle, 每個 identity 至多一筆
type Profile struct {
	UID         string `bson:"_id" json:"uid"`
	Email       string `bson:"email" json:"email"`
	DisplayName string `bson:"display_name" json:"display_name"`
	AvatarURL   string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	IsOnline    bool   `bson:"is_online" json:"is_online"`
	LastSeen    int64  `bson:"last_seen" json:"last_seen"`
	CreatedAt   int64  `bson:"created_at" json:"created_at"`
}

// ProfileSummary 目錄查詢結果
type ProfileSummary struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	IsOnline    bool   `json:"is_online"`
}

// ProfileUpdate 部分更新, nil 欄位不動
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// PresenceEvent 離線 beacon 事件 (fire-and-forget)
type PresenceEvent struct {
	UID      string `json:"uid"`
	IsOnline bool   `json:"is_online"`
	SentAt   int64  `json:"sent_at"`
}

// Summary Profile 轉目錄查詢結果
func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		UID:         p.UID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		IsOnline:    p.IsOnline,
	}
}
