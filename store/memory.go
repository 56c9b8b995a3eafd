package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MatsalakO/social-meda-api/models"
)

// Memory is an in-process Store. It enforces the same uniqueness and cascade
// rules as the relational schema and backs the "memory" database driver.
type Memory struct {
	mu sync.RWMutex

	seq      uint
	users    map[uint]models.User
	profiles map[uint]models.Profile
	posts    map[uint]models.Post
	comments map[uint]models.Comment
	likes    map[uint]models.Like
	follows  map[uint]models.Follow
	now      func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    map[uint]models.User{},
		profiles: map[uint]models.Profile{},
		posts:    map[uint]models.Post{},
		comments: map[uint]models.Comment{},
		likes:    map[uint]models.Like{},
		follows:  map[uint]models.Follow{},
		now:      time.Now,
	}
}

// nextID hands out ids from one sequence shared by every table. It also spaces
// timestamps so that ordering by creation time is stable.
func (m *Memory) nextID() (uint, time.Time) {
	m.seq++
	return m.seq, m.now().Add(time.Duration(m.seq) * time.Microsecond)
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	u.ID, u.CreatedAt = m.nextID()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) profileConflict(p *models.Profile) bool {
	for _, existing := range m.profiles {
		if existing.ID == p.ID {
			continue
		}
		if existing.UserID == p.UserID || existing.Username == p.Username {
			return true
		}
	}
	return false
}

func (m *Memory) CreateProfile(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profileConflict(p) {
		return ErrDuplicate
	}
	p.ID, p.CreatedAt = m.nextID()
	m.profiles[p.ID] = *p
	return nil
}

func (m *Memory) UpdateProfile(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.profiles[p.ID]
	if !ok {
		return ErrNotFound
	}
	if m.profileConflict(p) {
		return ErrDuplicate
	}
	current.Username = p.Username
	current.FirstName = p.FirstName
	current.LastName = p.LastName
	current.BirthDate = p.BirthDate
	current.Description = p.Description
	current.Image = p.Image
	m.profiles[p.ID] = current
	return nil
}

func (m *Memory) DeleteProfile(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(m.profiles, id)
	return nil
}

func (m *Memory) GetProfile(_ context.Context, id uint) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) GetProfileByUser(_ context.Context, userID uint) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListProfiles(_ context.Context, f ProfileFilter) ([]models.ProfileListItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := []models.ProfileListItem{}
	for _, p := range m.profiles {
		if f.Username != "" && !contains(p.Username, f.Username) {
			continue
		}
		if f.FirstName != "" && !contains(p.FirstName, f.FirstName) {
			continue
		}
		if f.LastName != "" && !contains(p.LastName, f.LastName) {
			continue
		}
		item := models.ProfileListItem{
			ID:        p.ID,
			UserID:    p.UserID,
			Username:  p.Username,
			Image:     p.Image,
			CreatedAt: p.CreatedAt,
		}
		for _, fl := range m.follows {
			if fl.FollowerID == p.UserID {
				item.FollowingCount++
			}
			if fl.FollowedID == p.UserID {
				item.FollowersCount++
			}
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *Memory) usernameOf(userID uint) (string, bool) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p.Username, true
		}
	}
	return "", false
}

func (m *Memory) sortedFollows() []models.Follow {
	out := make([]models.Follow, 0, len(m.follows))
	for _, f := range m.follows {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) FollowingUsernames(_ context.Context, userID uint) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := []string{}
	for _, f := range m.sortedFollows() {
		if f.FollowerID != userID {
			continue
		}
		if name, ok := m.usernameOf(f.FollowedID); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (m *Memory) FollowerUsernames(_ context.Context, userID uint) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := []string{}
	for _, f := range m.sortedFollows() {
		if f.FollowedID != userID {
			continue
		}
		if name, ok := m.usernameOf(f.FollowerID); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (m *Memory) FollowExists(_ context.Context, followerID, followedID uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) CreateFollow(_ context.Context, f *models.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.follows {
		if existing.FollowerID == f.FollowerID && existing.FollowedID == f.FollowedID {
			return ErrDuplicate
		}
	}
	f.ID, f.CreatedAt = m.nextID()
	m.follows[f.ID] = *f
	return nil
}

func (m *Memory) DeleteFollow(_ context.Context, followerID, followedID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, f := range m.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			delete(m.follows, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) CreatePost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID, p.Posted = m.nextID()
	m.posts[p.ID] = *p
	return nil
}

func (m *Memory) UpdatePost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.posts[p.ID]
	if !ok {
		return ErrNotFound
	}
	current.Content = p.Content
	current.Hashtag = p.Hashtag
	current.Image = p.Image
	m.posts[p.ID] = current
	return nil
}

func (m *Memory) DeletePost(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	for lid, l := range m.likes {
		if l.PostID == id {
			delete(m.likes, lid)
		}
	}
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
	delete(m.posts, id)
	return nil
}

func (m *Memory) GetPost(_ context.Context, id uint) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) postItem(p models.Post) models.PostListItem {
	item := models.PostListItem{
		ID:      p.ID,
		Content: p.Content,
		Image:   p.Image,
		Posted:  p.Posted,
	}
	item.ProfileName, _ = m.usernameOf(p.UserID)
	for _, l := range m.likes {
		if l.PostID == p.ID {
			item.LikesCount++
		}
	}
	for _, c := range m.comments {
		if c.PostID == p.ID {
			item.CommentsCount++
		}
	}
	return item
}

func (m *Memory) GetPostItem(_ context.Context, id uint) (*models.PostListItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	item := m.postItem(p)
	return &item, nil
}

func (m *Memory) ListPosts(_ context.Context, f PostFilter) ([]models.PostListItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := []models.PostListItem{}
	for _, p := range m.posts {
		if f.Hashtag != "" && !contains(p.Content, f.Hashtag) {
			continue
		}
		items = append(items, m.postItem(p))
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Posted.Equal(items[j].Posted) {
			return items[i].Posted.After(items[j].Posted)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (m *Memory) CreateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[c.PostID]; !ok {
		return ErrNotFound
	}
	c.ID, c.CreatedAt = m.nextID()
	m.comments[c.ID] = *c
	return nil
}

func (m *Memory) UpdateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.comments[c.ID]
	if !ok {
		return ErrNotFound
	}
	current.Text = c.Text
	m.comments[c.ID] = current
	return nil
}

func (m *Memory) DeleteComment(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *Memory) GetComment(_ context.Context, postID, commentID uint) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.comments[commentID]
	if !ok || c.PostID != postID {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) ListComments(_ context.Context, postID uint) ([]models.CommentListItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := []models.CommentListItem{}
	for _, c := range m.comments {
		if c.PostID != postID {
			continue
		}
		name, _ := m.usernameOf(c.UserID)
		items = append(items, models.CommentListItem{
			ID:          c.ID,
			ProfileName: name,
			Text:        c.Text,
			CreatedAt:   c.CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *Memory) LikeExists(_ context.Context, userID, postID uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.likes {
		if l.UserID == userID && l.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) CreateLike(_ context.Context, l *models.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[l.PostID]; !ok {
		return ErrNotFound
	}
	for _, existing := range m.likes {
		if existing.UserID == l.UserID && existing.PostID == l.PostID {
			return ErrDuplicate
		}
	}
	l.ID, l.CreatedAt = m.nextID()
	m.likes[l.ID] = *l
	return nil
}

func (m *Memory) DeleteLike(_ context.Context, userID, postID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, l := range m.likes {
		if l.UserID == userID && l.PostID == postID {
			delete(m.likes, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) filterLikes(keep func(models.Like) bool) []models.Like {
	out := []models.Like{}
	for _, l := range m.likes {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) ListLikesByPost(_ context.Context, postID uint) ([]models.Like, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterLikes(func(l models.Like) bool { return l.PostID == postID }), nil
}

func (m *Memory) ListLikesByUser(_ context.Context, userID uint) ([]models.Like, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterLikes(func(l models.Like) bool { return l.UserID == userID }), nil
}
