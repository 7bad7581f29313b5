package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/furs-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory repository fakes used across handler tests.

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	order []string
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	cp := *post
	r.posts[post.ID.Hex()] = &cp
	r.order = append(r.order, post.ID.Hex())
	return nil
}

func (r *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post not found")
	}
	cp := *post
	return &cp, nil
}

func (r *fakePostRepo) GetPostsByAuthor(ctx context.Context, authorUID string, skip, limit int64) ([]models.Post, error) {
	all, _ := r.GetAllPosts(ctx, 0, 0)
	var out []models.Post
	for _, p := range all {
		if p.AuthorUID == authorUID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) GetPostsByStatus(ctx context.Context, status string, skip, limit int64) ([]models.Post, error) {
	all, _ := r.GetAllPosts(ctx, 0, 0)
	var out []models.Post
	for _, p := range all {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, id := range r.order {
		out = append(out, *r.posts[id])
	}
	return out, nil
}

func (r *fakePostRepo) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("post not found")
	}
	cp := *post
	r.posts[id] = &cp
	return nil
}

func (r *fakePostRepo) DeletePost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("post not found")
	}
	delete(r.posts, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakePostRepo) IncrementCommentsCount(ctx context.Context, postID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post, ok := r.posts[postID]; ok {
		post.CommentsCount += delta
	}
	return nil
}

func (r *fakePostRepo) WatchPosts(ctx context.Context, limit int64) (<-chan []models.Post, error) {
	ch := make(chan []models.Post)
	close(ch)
	return ch, nil
}

type fakeLikeRepo struct {
	mu          sync.Mutex
	likes       map[string]bool // postID|userUID
	posts       *fakePostRepo
	toggleCalls int
}

func newFakeLikeRepo(posts *fakePostRepo) *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]bool), posts: posts}
}

func likeKey(postID, userUID string) string { return postID + "|" + userUID }

// ToggleLike mirrors the production transaction: record and counter flip
// together.
func (r *fakeLikeRepo) ToggleLike(ctx context.Context, postID, userUID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggleCalls++

	key := likeKey(postID, userUID)
	r.posts.mu.Lock()
	defer r.posts.mu.Unlock()
	post, ok := r.posts.posts[postID]
	if !ok {
		return false, fmt.Errorf("post not found")
	}

	if r.likes[key] {
		delete(r.likes, key)
		post.LikesCount--
		return false, nil
	}
	r.likes[key] = true
	post.LikesCount++
	return true, nil
}

func (r *fakeLikeRepo) HasUserLikedPost(ctx context.Context, postID, userUID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likes[likeKey(postID, userUID)], nil
}

func (r *fakeLikeRepo) CountByPostID(ctx context.Context, postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.likes {
		if strings.HasPrefix(key, postID+"|") {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) DeleteByPostID(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.likes {
		if strings.HasPrefix(key, postID+"|") {
			delete(r.likes, key)
		}
	}
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	cp := *comment
	r.comments[comment.ID.Hex()] = &cp
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment not found")
	}
	cp := *comment
	return &cp, nil
}

func (r *fakeCommentRepo) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID.Hex() == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) DeleteComment(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment not found")
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByPostID(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.PostID.Hex() == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (r *fakeProfileRepo) CreateProfile(profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *profile
	r.profiles[profile.FirebaseUID] = &cp
	return nil
}

func (r *fakeProfileRepo) GetProfileByUID(firebaseUID string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[firebaseUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *profile
	return &cp, nil
}

func (r *fakeProfileRepo) GetProfileByUsername(username string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) GetProfiles() ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Profile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProfileRepo) UpdateProfile(profile *models.Profile) error {
	return r.CreateProfile(profile)
}

func (r *fakeProfileRepo) DeleteProfile(firebaseUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, firebaseUID)
	return nil
}

func (r *fakeProfileRepo) SearchProfiles(query string) ([]models.Profile, error) {
	return r.GetProfiles()
}

func (r *fakeProfileRepo) SetRole(firebaseUID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[firebaseUID]; ok {
		p.Role = role
	}
	return nil
}

func (r *fakeProfileRepo) SetDisabled(firebaseUID string, disabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[firebaseUID]; ok {
		p.Disabled = disabled
	}
	return nil
}

func (r *fakeProfileRepo) AddRating(firebaseUID string, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[firebaseUID]; ok {
		p.TotalRatingSum += rating
		p.TotalRatingCount++
	}
	return nil
}

func (r *fakeProfileRepo) ResetRating(firebaseUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[firebaseUID]; ok {
		p.TotalRatingSum = 0
		p.TotalRatingCount = 0
	}
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientUID(ctx context.Context, recipientUID string, page, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.RecipientUID == recipientUID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, recipientUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientUID == recipientUID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID.Hex() == id {
			r.notifications[i].Read = true
			return nil
		}
	}
	return fmt.Errorf("notification not found")
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipientUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].RecipientUID == recipientUID {
			r.notifications[i].Read = true
		}
	}
	return nil
}
