package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aloraops/alora-site/internal/content"
	"github.com/aloraops/alora-site/internal/logger"
	"github.com/aloraops/alora-site/internal/models"
)

// ErrPostNotFound is returned when no indexed post matches a slug.
var ErrPostNotFound = errors.New("blog post not found")

// BlogService maintains a SQLite index of the markdown posts on disk and
// serves list/detail queries from it.
type BlogService struct {
	db  *gorm.DB
	dir string
}

// NewBlogService indexes posts found under dir.
func NewBlogService(db *gorm.DB, dir string) *BlogService {
	return &BlogService{db: db, dir: dir}
}

// Reindex rescans the content directory, upserts every post by slug, and
// prunes rows whose file disappeared. Runs at startup and on a cron
// schedule so edits show up without a restart.
func (s *BlogService) Reindex() (int, error) {
	posts, err := content.LoadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("load posts: %w", err)
	}

	slugs := make([]string, 0, len(posts))
	for _, post := range posts {
		row := models.BlogPost{
			Slug:        post.Slug,
			Title:       post.Title,
			Description: post.Description,
			Date:        post.Date,
			Author:      post.Author,
			Category:    post.Category,
			Image:       post.Image,
			ReadingTime: post.ReadingTime,
			Content:     post.Content,
		}

		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "description", "date", "author", "category",
				"image", "reading_time", "content", "updated_at",
			}),
		}).Create(&row).Error
		if err != nil {
			return 0, fmt.Errorf("index post %s: %w", post.Slug, err)
		}

		slugs = append(slugs, post.Slug)
	}

	// An empty scan prunes every row; gorm refuses an unconditioned
	// delete, so the no-posts case needs an always-true predicate.
	query := s.db.Where("1 = 1")
	if len(slugs) > 0 {
		query = s.db.Where("slug NOT IN ?", slugs)
	}
	if err := query.Delete(&models.BlogPost{}).Error; err != nil {
		return 0, fmt.Errorf("prune removed posts: %w", err)
	}

	logger.WithFields(map[string]interface{}{"posts": len(posts)}).Debug("blog index refreshed")

	return len(posts), nil
}

// List returns post metadata newest first. Content is omitted; the
// detail endpoint serves it.
func (s *BlogService) List() ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := s.db.
		Select("slug", "title", "description", "date", "author", "category", "image", "reading_time").
		Order("date desc").
		Find(&posts).Error
	return posts, err
}

// Get returns one post with its full content.
func (s *BlogService) Get(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}
