package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"direct_chat_service/internal/session/domain"
	errprocess "direct_chat_service/pkg/err"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileRepository definition user profile store
// 時間戳一律在這層於寫入時指定 (store-commit time), 不接受 caller 的時鐘
type ProfileRepository interface {
	// EnsureProfile 認證成功時呼叫: 不存在則建立(上線), 存在則更新上線狀態與 last_seen
	EnsureProfile(ctx context.Context, uid, email, displayName, avatarURL string) (*domain.Profile, error)
	SetOffline(ctx context.Context, uid string) error
	UpdateProfile(ctx context.Context, uid string, update domain.ProfileUpdate) error
	FindByID(ctx context.Context, uid string) (*domain.Profile, error)
	// FindByEmail 精準比對, 查無資料回傳空集合而非錯誤
	FindByEmail(ctx context.Context, email string) ([]domain.Profile, error)
}

type profileRepository struct {
	coll *mongo.Collection
}

// NewMongoProfileRepository create a ProfileRepository
func NewMongoProfileRepository(db *mongo.Database) ProfileRepository {
	return &profileRepository{
		coll: db.Collection("users"),
	}
}

func (r *profileRepository) EnsureProfile(ctx context.Context, uid, email, displayName, avatarURL string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.coll.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile)
	now := time.Now().UnixMilli()

	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errprocess.Wrap(errprocess.ErrStoreQueryFailed, err)
		}

		// 首次認證, 建立新 profile
		if displayName == "" {
			displayName = strings.Split(email, "@")[0]
		}
		profile = domain.Profile{
			UID:         uid,
			Email:       strings.ToLower(email),
			DisplayName: displayName,
			AvatarURL:   avatarURL,
			IsOnline:    true,
			LastSeen:    now,
			CreatedAt:   now,
		}
		if _, err := r.coll.InsertOne(ctx, profile); err != nil {
			if isPermissionDenied(err) {
				return nil, errprocess.Wrap(errprocess.ErrProfileWriteDenied, err)
			}
			return nil, errprocess.Wrap(errprocess.ErrStoreWriteFailed, err)
		}
		return &profile, nil
	}

	// 已存在, 只更新上線旗標與 last_seen, 其餘欄位不動
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"is_online": true,
		"last_seen": now,
	}})
	if err != nil {
		if isPermissionDenied(err) {
			return nil, errprocess.Wrap(errprocess.ErrProfileWriteDenied, err)
		}
		return nil, errprocess.Wrap(errprocess.ErrStoreWriteFailed, err)
	}

	profile.IsOnline = true
	profile.LastSeen = now
	return &profile, nil
}

func (r *profileRepository) SetOffline(ctx context.Context, uid string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"is_online": false,
		"last_seen": time.Now().UnixMilli(),
	}})
	if err != nil {
		return errprocess.Wrap(errprocess.ErrStoreWriteFailed, err)
	}
	return nil
}

func (r *profileRepository) UpdateProfile(ctx context.Context, uid string, update domain.ProfileUpdate) error {
	set := bson.M{}
	if update.DisplayName != nil {
		set["display_name"] = *update.DisplayName
	}
	if update.AvatarURL != nil {
		set["avatar_url"] = *update.AvatarURL
	}
	if len(set) == 0 {
		return nil
	}

	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	if err != nil {
		return errprocess.Wrap(errprocess.ErrStoreWriteFailed, err)
	}
	return nil
}

func (r *profileRepository) FindByID(ctx context.Context, uid string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.coll.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errprocess.Wrap(errprocess.ErrStoreQueryFailed, err)
	}
	return &profile, nil
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) ([]domain.Profile, error) {
	cur, err := r.coll.Find(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return nil, errprocess.Wrap(errprocess.ErrStoreQueryFailed, err)
	}

	var profiles []domain.Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, errprocess.Wrap(errprocess.ErrStoreQueryFailed, err)
	}
	return profiles, nil
}

// isPermissionDenied mongo 回傳 Unauthorized(13) 視為權限拒絕
func isPermissionDenied(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code == 13
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 13 {
				return true
			}
		}
	}
	return false
}
