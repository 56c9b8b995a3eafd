package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MatsalakO/social-meda-api/models"
)

const (
	mysqlDuplicateEntry    = 1062
	postgresUniqueViolates = "23505"
)

// GormStore implements Store on a relational database through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// IsUniqueViolation reports whether err came from a unique index or primary key
// collision, whichever dialect produced it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicate) {
		return true
	}
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolates {
		return true
	}
	return false
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// containsPattern builds a LIKE pattern for a case-insensitive substring match.
// The column side must be wrapped in LOWER().
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) CreateProfile(ctx context.Context, p *models.Profile) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (s *GormStore) UpdateProfile(ctx context.Context, p *models.Profile) error {
	err := s.db.WithContext(ctx).Model(&models.Profile{ID: p.ID}).Updates(map[string]interface{}{
		"username":    p.Username,
		"first_name":  p.FirstName,
		"last_name":   p.LastName,
		"birth_date":  p.BirthDate,
		"description": p.Description,
		"image":       p.Image,
	}).Error
	return translate(err)
}

func (s *GormStore) DeleteProfile(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Profile{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) GetProfileByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) ListProfiles(ctx context.Context, f ProfileFilter) ([]models.ProfileListItem, error) {
	q := s.db.WithContext(ctx).Model(&models.Profile{}).Select(`profiles.id, profiles.user_id, profiles.username,
		profiles.image, profiles.created_at,
		(SELECT COUNT(*) FROM follows WHERE follows.follower_id = profiles.user_id) AS following_count,
		(SELECT COUNT(*) FROM follows WHERE follows.followed_id = profiles.user_id) AS followers_count`)
	if f.Username != "" {
		q = q.Where("LOWER(profiles.username) LIKE ?", containsPattern(f.Username))
	}
	if f.FirstName != "" {
		q = q.Where("LOWER(profiles.first_name) LIKE ?", containsPattern(f.FirstName))
	}
	if f.LastName != "" {
		q = q.Where("LOWER(profiles.last_name) LIKE ?", containsPattern(f.LastName))
	}

	items := []models.ProfileListItem{}
	if err := q.Order("profiles.id ASC").Scan(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (s *GormStore) FollowingUsernames(ctx context.Context, userID uint) ([]string, error) {
	return s.followUsernames(ctx, "follows.followed_id", "follows.follower_id", userID)
}

func (s *GormStore) FollowerUsernames(ctx context.Context, userID uint) ([]string, error) {
	return s.followUsernames(ctx, "follows.follower_id", "follows.followed_id", userID)
}

// followUsernames resolves the profile usernames on the far side of userID's follows.
func (s *GormStore) followUsernames(ctx context.Context, joinCol, whereCol string, userID uint) ([]string, error) {
	names := []string{}
	err := s.db.WithContext(ctx).Table("follows").
		Joins("JOIN profiles ON profiles.user_id = "+joinCol).
		Where(whereCol+" = ?", userID).
		Order("follows.id ASC").
		Pluck("profiles.username", &names).Error
	if err != nil {
		return nil, translate(err)
	}
	return names, nil
}

func (s *GormStore) FollowExists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (s *GormStore) CreateFollow(ctx context.Context, f *models.Follow) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error)
}

func (s *GormStore) DeleteFollow(ctx context.Context, followerID, followedID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	return res.RowsAffected, translate(res.Error)
}

func (s *GormStore) CreatePost(ctx context.Context, p *models.Post) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (s *GormStore) UpdatePost(ctx context.Context, p *models.Post) error {
	err := s.db.WithContext(ctx).Model(&models.Post{ID: p.ID}).Updates(map[string]interface{}{
		"content": p.Content,
		"hashtag": p.Hashtag,
		"image":   p.Image,
	}).Error
	return translate(err)
}

// DeletePost removes dependents explicitly so the cascade holds even on
// schemas created without foreign keys.
func (s *GormStore) DeletePost(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) postItems(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Post{}).Select(`posts.id,
		COALESCE(profiles.username, '') AS profile_name,
		posts.content, posts.image, posts.posted,
		(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count,
		(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count`).
		Joins("LEFT JOIN profiles ON profiles.user_id = posts.user_id")
}

func (s *GormStore) GetPostItem(ctx context.Context, id uint) (*models.PostListItem, error) {
	var items []models.PostListItem
	if err := s.postItems(ctx).Where("posts.id = ?", id).Limit(1).Scan(&items).Error; err != nil {
		return nil, translate(err)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

func (s *GormStore) ListPosts(ctx context.Context, f PostFilter) ([]models.PostListItem, error) {
	q := s.postItems(ctx)
	if f.Hashtag != "" {
		q = q.Where("LOWER(posts.content) LIKE ?", containsPattern(f.Hashtag))
	}
	items := []models.PostListItem{}
	if err := q.Order("posts.posted DESC, posts.id DESC").Scan(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (s *GormStore) CreateComment(ctx context.Context, c *models.Comment) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (s *GormStore) UpdateComment(ctx context.Context, c *models.Comment) error {
	return translate(s.db.WithContext(ctx).Model(&models.Comment{ID: c.ID}).Update("text", c.Text).Error)
}

func (s *GormStore) DeleteComment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	var c models.Comment
	err := s.db.WithContext(ctx).Where("id = ? AND post_id = ?", commentID, postID).First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *GormStore) ListComments(ctx context.Context, postID uint) ([]models.CommentListItem, error) {
	items := []models.CommentListItem{}
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("comments.id, COALESCE(profiles.username, '') AS profile_name, comments.text, comments.created_at").
		Joins("LEFT JOIN profiles ON profiles.user_id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (s *GormStore) LikeExists(ctx context.Context, userID, postID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (s *GormStore) CreateLike(ctx context.Context, l *models.Like) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error)
}

func (s *GormStore) DeleteLike(ctx context.Context, userID, postID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	return res.RowsAffected, translate(res.Error)
}

func (s *GormStore) ListLikesByPost(ctx context.Context, postID uint) ([]models.Like, error) {
	likes := []models.Like{}
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&likes).Error
	if err != nil {
		return nil, translate(err)
	}
	return likes, nil
}

func (s *GormStore) ListLikesByUser(ctx context.Context, userID uint) ([]models.Like, error) {
	likes := []models.Like{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&likes).Error
	if err != nil {
		return nil, translate(err)
	}
	return likes, nil
}
