package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openvid/vidshare/internal/model"
)

// The memory stores below are mutex-guarded in-memory implementations of
// UserStore, VideoStore and CommentStore. They are selected with
// STORE_DRIVER=memory and back the handler tests; they honor the same
// atomicity contract as the Mongo implementations because every mutation
// happens under one lock.

// MemoryUserStore implements UserStore in memory.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*model.User)}
}

func (s *MemoryUserStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.SubscribedChannels == nil {
		u.SubscribedChannels = []string{}
	}
	cp := cloneUser(u)
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryUserStore) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	if upd.ChannelName != nil {
		u.ChannelName = *upd.ChannelName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.LogoURL != nil {
		u.LogoURL = *upd.LogoURL
	}
	if upd.LogoID != nil {
		u.LogoID = *upd.LogoID
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (s *MemoryUserStore) Subscribe(ctx context.Context, callerID, channelID string) error {
	if callerID == channelID {
		return ErrSelfSubscribe
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.users[channelID]
	if !ok {
		return ErrNotFound
	}
	caller, ok := s.users[callerID]
	if !ok {
		return ErrNotFound
	}
	if contains(caller.SubscribedChannels, channelID) {
		return nil
	}
	caller.SubscribedChannels = append(caller.SubscribedChannels, channelID)
	caller.UpdatedAt = time.Now().UTC()
	target.Subscribers++
	return nil
}

func (s *MemoryUserStore) PublicProfiles(ctx context.Context, ids []string) (map[string]model.PublicProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.PublicProfile, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u.Public()
		}
	}
	return out, nil
}

// MemoryVideoStore implements VideoStore in memory.
type MemoryVideoStore struct {
	mu     sync.RWMutex
	videos map[string]*model.Video
	seq    int64
	seqs   map[string]int64 // insertion order, tiebreak for equal timestamps
}

func NewMemoryVideoStore() *MemoryVideoStore {
	return &MemoryVideoStore{videos: make(map[string]*model.Video), seqs: make(map[string]int64)}
}

func (s *MemoryVideoStore) Create(ctx context.Context, v *model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Tags == nil {
		v.Tags = []string{}
	}
	v.LikedBy = []string{}
	v.DislikedBy = []string{}
	v.ViewedBy = []string{}
	cp := cloneVideo(v)
	s.videos[v.ID] = &cp
	s.seq++
	s.seqs[v.ID] = s.seq
	return nil
}

func (s *MemoryVideoStore) GetByID(ctx context.Context, id string) (model.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[id]
	if !ok {
		return model.Video{}, ErrNotFound
	}
	return cloneVideo(v), nil
}

func (s *MemoryVideoStore) ViewAndGet(ctx context.Context, id, viewerID string) (model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return model.Video{}, ErrNotFound
	}
	if !contains(v.ViewedBy, viewerID) {
		v.ViewedBy = append(v.ViewedBy, viewerID)
	}
	return cloneVideo(v), nil
}

func (s *MemoryVideoStore) List(ctx context.Context, f VideoFilter) ([]model.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Video{}
	for _, v := range s.videos {
		if f.Category != "" && v.Category != f.Category {
			continue
		}
		if f.Tag != "" && !contains(v.Tags, f.Tag) {
			continue
		}
		if f.OwnerID != "" && v.UserID != f.OwnerID {
			continue
		}
		out = append(out, cloneVideo(v))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seqs[out[i].ID] > s.seqs[out[j].ID]
	})
	return out, nil
}

func (s *MemoryVideoStore) UpdateMeta(ctx context.Context, id string, upd VideoUpdate) (model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return model.Video{}, ErrNotFound
	}
	if upd.Title != nil {
		v.Title = *upd.Title
	}
	if upd.Description != nil {
		v.Description = *upd.Description
	}
	if upd.Category != nil {
		v.Category = *upd.Category
	}
	if upd.Tags != nil {
		v.Tags = append([]string{}, (*upd.Tags)...)
	}
	if upd.ThumbnailURL != nil {
		v.ThumbnailURL = *upd.ThumbnailURL
	}
	if upd.ThumbnailID != nil {
		v.ThumbnailID = *upd.ThumbnailID
	}
	v.UpdatedAt = time.Now().UTC()
	return cloneVideo(v), nil
}

func (s *MemoryVideoStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *MemoryVideoStore) Like(ctx context.Context, id, userID string) (model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return model.Video{}, ErrNotFound
	}
	if !contains(v.LikedBy, userID) {
		v.LikedBy = append(v.LikedBy, userID)
	}
	v.DislikedBy = remove(v.DislikedBy, userID)
	return cloneVideo(v), nil
}

func (s *MemoryVideoStore) Dislike(ctx context.Context, id, userID string) (model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return model.Video{}, ErrNotFound
	}
	if !contains(v.DislikedBy, userID) {
		v.DislikedBy = append(v.DislikedBy, userID)
	}
	v.LikedBy = remove(v.LikedBy, userID)
	return cloneVideo(v), nil
}

// MemoryCommentStore implements CommentStore in memory.
type MemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[string]*model.Comment
	seq      int64
	seqs     map[string]int64
}

func NewMemoryCommentStore() *MemoryCommentStore {
	return &MemoryCommentStore{comments: make(map[string]*model.Comment), seqs: make(map[string]int64)}
}

func (s *MemoryCommentStore) Create(ctx context.Context, cm *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cm.ID == "" {
		cm.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cm.CreatedAt = now
	cm.UpdatedAt = now
	cp := *cm
	s.comments[cm.ID] = &cp
	s.seq++
	s.seqs[cm.ID] = s.seq
	return nil
}

func (s *MemoryCommentStore) GetByID(ctx context.Context, id string) (model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cm, ok := s.comments[id]
	if !ok {
		return model.Comment{}, ErrNotFound
	}
	return *cm, nil
}

func (s *MemoryCommentStore) UpdateText(ctx context.Context, id, text string) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm, ok := s.comments[id]
	if !ok {
		return model.Comment{}, ErrNotFound
	}
	cm.Text = text
	cm.UpdatedAt = time.Now().UTC()
	return *cm, nil
}

func (s *MemoryCommentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *MemoryCommentStore) ListByVideo(ctx context.Context, videoID string) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Comment{}
	for _, cm := range s.comments {
		if cm.VideoID == videoID {
			out = append(out, *cm)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seqs[out[i].ID] > s.seqs[out[j].ID]
	})
	return out, nil
}

// ----- helpers -----

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func remove(set []string, v string) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func cloneUser(u *model.User) model.User {
	cp := *u
	cp.SubscribedChannels = append([]string{}, u.SubscribedChannels...)
	return cp
}

func cloneVideo(v *model.Video) model.Video {
	cp := *v
	cp.Tags = append([]string{}, v.Tags...)
	cp.LikedBy = append([]string{}, v.LikedBy...)
	cp.DislikedBy = append([]string{}, v.DislikedBy...)
	cp.ViewedBy = append([]string{}, v.ViewedBy...)
	return cp
}
