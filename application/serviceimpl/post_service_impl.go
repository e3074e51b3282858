package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/ports"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/pagination"
)

type PostServiceImpl struct {
	*contentService[models.Post, *models.Post]
	postRepo     repositories.PostRepository
	categoryRepo repositories.CategoryRepository
	storage      ports.StoragePort
}

func NewPostService(
	postRepo repositories.PostRepository,
	categoryRepo repositories.CategoryRepository,
	storage ports.StoragePort,
	events ports.EventPublisherPort,
) services.PostService {
	return &PostServiceImpl{
		contentService: newContentService[models.Post, *models.Post]("post", postRepo, events),
		postRepo:       postRepo,
		categoryRepo:   categoryRepo,
		storage:        storage,
	}
}

func (s *PostServiceImpl) ensureSlugFree(ctx context.Context, slugStr string, selfID uuid.UUID) error {
	existing, err := s.postRepo.GetBySlug(ctx, slugStr)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		logger.WarnContext(ctx, "Post slug already exists", "slug", slugStr)
		return errs.Conflict("post slug already exists")
	}
	return nil
}

func (s *PostServiceImpl) liveCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id, repositories.TrashNone)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.Invalid("categoryId", "category not found")
	}
	return category, err
}

func (s *PostServiceImpl) Create(ctx context.Context, authorID *uuid.UUID, req *dto.CreatePostRequest) (*models.Post, error) {
	source := req.Slug
	if source == "" {
		source = req.Title
	}
	slugStr := slug.Make(source)
	if slugStr == "" {
		return nil, errs.Invalid("slug", "cannot be derived from title")
	}
	if err := s.ensureSlugFree(ctx, slugStr, uuid.Nil); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    req.Title,
		Slug:     slugStr,
		Summary:  req.Summary,
		Body:     req.Body,
		AuthorID: authorID,
	}
	if req.CategoryID != nil {
		category, err := s.liveCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		post.CategoryID = req.CategoryID
		post.Category = category
	}
	if req.Publish {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		logger.ErrorContext(ctx, "Failed to create post", "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Post created", "post_id", post.ID, "slug", post.Slug)
	s.publish(ctx, ports.ActionCreated, []uuid.UUID{post.ID})
	return post, nil
}

func (s *PostServiceImpl) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePostRequest) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		logger.WarnContext(ctx, "Post not found for update", "post_id", id)
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Summary != nil {
		post.Summary = *req.Summary
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Slug != nil {
		newSlug := slug.Make(*req.Slug)
		if newSlug == "" {
			return nil, errs.Invalid("slug", "must contain letters or digits")
		}
		if err := s.ensureSlugFree(ctx, newSlug, id); err != nil {
			return nil, err
		}
		post.Slug = newSlug
	}

	switch {
	case req.ClearCategory:
		post.CategoryID = nil
		post.Category = nil
	case req.CategoryID != nil:
		category, err := s.liveCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		post.CategoryID = req.CategoryID
		post.Category = category
	}

	if req.Publish != nil {
		switch {
		case *req.Publish && post.PublishedAt == nil:
			now := time.Now()
			post.PublishedAt = &now
		case !*req.Publish:
			post.PublishedAt = nil
		}
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		logger.ErrorContext(ctx, "Failed to update post", "post_id", id, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Post updated", "post_id", id)
	s.publish(ctx, ports.ActionUpdated, []uuid.UUID{id})
	return post, nil
}

func (s *PostServiceImpl) GetBySlug(ctx context.Context, slugStr string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slugStr)
	if err != nil {
		logger.WarnContext(ctx, "Post not found", "slug", slugStr)
		return nil, err
	}
	if post.DeletedAt.Valid {
		return nil, &errs.NotFoundError{Entity: "post", ID: slugStr}
	}
	return post, nil
}

func (s *PostServiceImpl) PaginateInCategory(ctx context.Context, categoryID uuid.UUID, opts services.ListOptions, page pagination.Options) (*pagination.Result[models.FlatNode[models.Post]], error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID, repositories.TrashAll); err != nil {
		return nil, err
	}
	opts.AddQuery = s.postRepo.InCategory(categoryID)
	return s.Paginate(ctx, opts, page)
}

// UploadCover เก็บรูปใหม่ก่อน แล้วค่อยลบรูปเดิม
func (s *PostServiceImpl) UploadCover(ctx context.Context, id uuid.UUID, file io.Reader, size int64, filename, contentType string) (*models.Post, error) {
	if s.storage == nil {
		return nil, errors.New("storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errs.Invalid("cover", "must be an image")
	}

	post, err := s.postRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	path := fmt.Sprintf("posts/%s/cover-%d%s", post.ID, time.Now().UnixNano(), ext)
	url, err := s.storage.UploadFile(ctx, file, size, path, contentType)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to upload cover", "post_id", id, "error", err)
		return nil, err
	}

	oldPath := post.CoverPath
	post.CoverPath = path
	post.CoverURL = url
	if err := s.postRepo.Save(ctx, post); err != nil {
		_ = s.storage.DeleteFile(ctx, path)
		return nil, err
	}

	if oldPath != "" {
		if err := s.storage.DeleteFile(ctx, oldPath); err != nil {
			logger.WarnContext(ctx, "Failed to delete old cover", "path", oldPath, "error", err)
		}
	}

	logger.InfoContext(ctx, "Post cover uploaded",
		"post_id", id,
		"provider", s.storage.GetProviderName(),
		"path", path,
	)
	s.publish(ctx, ports.ActionUpdated, []uuid.UUID{id})
	return post, nil
}
