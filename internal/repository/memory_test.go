package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/openvid/vidshare/internal/model"
)

func seedUser(t *testing.T, s *MemoryUserStore, channelName, email string) model.User {
	t.Helper()
	u := model.User{ChannelName: channelName, Email: email, Phone: "5550100", PasswordHash: "x"}
	if err := s.Create(context.Background(), &u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedVideo(t *testing.T, s *MemoryVideoStore, ownerID, title, category string, tags ...string) model.Video {
	t.Helper()
	v := model.Video{UserID: ownerID, Title: title, Category: category, Tags: tags}
	if err := s.Create(context.Background(), &v); err != nil {
		t.Fatalf("seed video %s: %v", title, err)
	}
	return v
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	s := NewMemoryUserStore()
	seedUser(t, s, "alice", "alice@example.com")

	dup := model.User{ChannelName: "other", Email: "ALICE@example.com", Phone: "1", PasswordHash: "x"}
	if err := s.Create(context.Background(), &dup); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserGetByEmailCaseInsensitive(t *testing.T) {
	s := NewMemoryUserStore()
	u := seedUser(t, s, "alice", "Alice@Example.com")

	got, err := s.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("got user %q, want %q", got.ID, u.ID)
	}
}

func TestSubscribeInvariants(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	alice := seedUser(t, s, "alice", "alice@example.com")
	bob := seedUser(t, s, "bob", "bob@example.com")

	if err := s.Subscribe(ctx, alice.ID, alice.ID); !errors.Is(err, ErrSelfSubscribe) {
		t.Fatalf("expected ErrSelfSubscribe, got %v", err)
	}
	if err := s.Subscribe(ctx, alice.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Subscribing twice adds the edge once and moves the counter once.
	for i := 0; i < 2; i++ {
		if err := s.Subscribe(ctx, alice.ID, bob.ID); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
	}
	aliceNow, _ := s.GetByID(ctx, alice.ID)
	bobNow, _ := s.GetByID(ctx, bob.ID)
	if len(aliceNow.SubscribedChannels) != 1 || aliceNow.SubscribedChannels[0] != bob.ID {
		t.Fatalf("edge set wrong: %v", aliceNow.SubscribedChannels)
	}
	if bobNow.Subscribers != 1 {
		t.Fatalf("counter must equal edge count, got %d", bobNow.Subscribers)
	}

	// A second subscriber moves the counter again.
	carol := seedUser(t, s, "carol", "carol@example.com")
	if err := s.Subscribe(ctx, carol.ID, bob.ID); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	bobNow, _ = s.GetByID(ctx, bob.ID)
	if bobNow.Subscribers != 2 {
		t.Fatalf("expected 2 subscribers, got %d", bobNow.Subscribers)
	}
}

func TestUpdateProfileMissingUser(t *testing.T) {
	s := NewMemoryUserStore()
	name := "new"
	_, err := s.UpdateProfile(context.Background(), "missing", ProfileUpdate{ChannelName: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPublicProfilesSkipsUnknownIDs(t *testing.T) {
	s := NewMemoryUserStore()
	u := seedUser(t, s, "alice", "alice@example.com")

	profiles, err := s.PublicProfiles(context.Background(), []string{u.ID, "ghost"})
	if err != nil {
		t.Fatalf("PublicProfiles: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	if profiles[u.ID].ChannelName != "alice" {
		t.Fatalf("unexpected profile %+v", profiles[u.ID])
	}
}

func TestVideoLikeDislikeSetSemantics(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVideoStore()
	v := seedVideo(t, s, "owner", "clip", "film")

	after, err := s.Like(ctx, v.ID, "u1")
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	if len(after.LikedBy) != 1 || len(after.DislikedBy) != 0 {
		t.Fatalf("after like: %v / %v", after.LikedBy, after.DislikedBy)
	}

	after, _ = s.Like(ctx, v.ID, "u1")
	if len(after.LikedBy) != 1 {
		t.Fatalf("like must be idempotent, got %v", after.LikedBy)
	}

	after, _ = s.Dislike(ctx, v.ID, "u1")
	if len(after.LikedBy) != 0 || len(after.DislikedBy) != 1 {
		t.Fatalf("dislike must clear the like: %v / %v", after.LikedBy, after.DislikedBy)
	}

	// A second user's vote is independent.
	after, _ = s.Like(ctx, v.ID, "u2")
	if len(after.LikedBy) != 1 || len(after.DislikedBy) != 1 {
		t.Fatalf("votes must be per-user: %v / %v", after.LikedBy, after.DislikedBy)
	}

	if _, err := s.Like(ctx, "missing", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVideoViewAndGetIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVideoStore()
	v := seedVideo(t, s, "owner", "clip", "film")

	for i := 0; i < 3; i++ {
		if _, err := s.ViewAndGet(ctx, v.ID, "viewer"); err != nil {
			t.Fatalf("ViewAndGet: %v", err)
		}
	}
	after, _ := s.GetByID(ctx, v.ID)
	if len(after.ViewedBy) != 1 {
		t.Fatalf("repeat views must count once, got %v", after.ViewedBy)
	}
}

func TestVideoListFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVideoStore()
	seedVideo(t, s, "o1", "oldest", "film", "indie")
	seedVideo(t, s, "o2", "middle", "music", "indie")
	newest := seedVideo(t, s, "o1", "newest", "film")

	all, err := s.List(ctx, VideoFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != newest.ID || all[2].Title != "oldest" {
		titles := []string{}
		for _, v := range all {
			titles = append(titles, v.Title)
		}
		t.Fatalf("expected newest first, got %v", titles)
	}

	byCategory, _ := s.List(ctx, VideoFilter{Category: "film"})
	if len(byCategory) != 2 {
		t.Fatalf("category filter: expected 2, got %d", len(byCategory))
	}
	byTag, _ := s.List(ctx, VideoFilter{Tag: "indie"})
	if len(byTag) != 2 {
		t.Fatalf("tag filter: expected 2, got %d", len(byTag))
	}
	byOwner, _ := s.List(ctx, VideoFilter{OwnerID: "o2"})
	if len(byOwner) != 1 || byOwner[0].Title != "middle" {
		t.Fatalf("owner filter: got %v", byOwner)
	}
	none, _ := s.List(ctx, VideoFilter{Category: "cooking"})
	if len(none) != 0 {
		t.Fatalf("expected empty list, got %d", len(none))
	}
}

func TestVideoUpdateMetaPartial(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVideoStore()
	v := seedVideo(t, s, "owner", "clip", "film", "indie")

	title := "renamed"
	after, err := s.UpdateMeta(ctx, v.ID, VideoUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdateMeta: %v", err)
	}
	if after.Title != "renamed" || after.Category != "film" || len(after.Tags) != 1 {
		t.Fatalf("partial update touched other fields: %+v", after)
	}
}

func TestVideoDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVideoStore()
	v := seedVideo(t, s, "owner", "clip", "film")

	if err := s.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCommentLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCommentStore()

	first := model.Comment{VideoID: "v1", UserID: "u1", Text: "first"}
	second := model.Comment{VideoID: "v1", UserID: "u2", Text: "second"}
	other := model.Comment{VideoID: "v2", UserID: "u1", Text: "elsewhere"}
	for _, cm := range []*model.Comment{&first, &second, &other} {
		if err := s.Create(ctx, cm); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	listed, err := s.ListByVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("ListByVideo: %v", err)
	}
	if len(listed) != 2 || listed[0].Text != "second" {
		t.Fatalf("expected newest first for v1, got %v", listed)
	}

	updated, err := s.UpdateText(ctx, first.ID, "edited")
	if err != nil {
		t.Fatalf("UpdateText: %v", err)
	}
	if updated.Text != "edited" || updated.VideoID != "v1" || updated.UserID != "u1" {
		t.Fatalf("UpdateText must only change text: %+v", updated)
	}

	if err := s.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.UpdateText(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVideoStore()
	v := seedVideo(t, s, "owner", "clip", "film", "indie")

	got, _ := s.GetByID(ctx, v.ID)
	got.Tags[0] = "mutated"
	got.Title = "mutated"

	again, _ := s.GetByID(ctx, v.ID)
	if again.Tags[0] != "indie" || again.Title != "clip" {
		t.Fatalf("store state leaked through returned value: %+v", again)
	}
}
