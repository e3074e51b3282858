package serviceimpl

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/ports"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/pagination"
)

type CommentServiceImpl struct {
	*contentService[models.Comment, *models.Comment]
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, events ports.EventPublisherPort) services.CommentService {
	return &CommentServiceImpl{
		contentService: newContentService[models.Comment, *models.Comment]("comment", commentRepo, events),
		commentRepo:    commentRepo,
		postRepo:       postRepo,
	}
}

func (s *CommentServiceImpl) Create(ctx context.Context, postID uuid.UUID, authorID *uuid.UUID, req *dto.CreateCommentRequest) (*models.Comment, error) {
	post, err := s.postRepo.FindByID(ctx, postID, repositories.TrashNone)
	if err != nil {
		logger.WarnContext(ctx, "Post not found for comment", "post_id", postID)
		return nil, err
	}

	var parent *models.Comment
	if req.ParentID != nil {
		parent, err = s.commentRepo.FindByID(ctx, *req.ParentID, repositories.TrashNone)
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Invalid("parentId", "parent comment not found")
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, errs.Invalid("parentId", "parent comment belongs to another post")
		}
	}

	comment := &models.Comment{
		Body:     req.Body,
		PostID:   postID,
		AuthorID: authorID,
		ParentID: req.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		logger.ErrorContext(ctx, "Failed to create comment", "post_id", postID, "error", err)
		return nil, err
	}
	comment.Post = post
	comment.Parent = parent

	logger.InfoContext(ctx, "Comment created", "comment_id", comment.ID, "post_id", postID)
	s.publish(ctx, ports.ActionCreated, []uuid.UUID{comment.ID})
	return comment, nil
}

func (s *CommentServiceImpl) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		logger.WarnContext(ctx, "Comment not found for update", "comment_id", id)
		return nil, err
	}

	comment.Body = req.Body
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		logger.ErrorContext(ctx, "Failed to update comment", "comment_id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, ports.ActionUpdated, []uuid.UUID{id})
	return comment, nil
}

// PaginateForPost pages the flattened comment forest of one post.
func (s *CommentServiceImpl) PaginateForPost(ctx context.Context, postID uuid.UUID, opts services.ListOptions, page pagination.Options) (*pagination.Result[models.FlatNode[models.Comment]], error) {
	if _, err := s.postRepo.FindByID(ctx, postID, repositories.TrashNone); err != nil {
		return nil, err
	}
	opts.AddQuery = s.commentRepo.ForPost(postID)
	return s.Paginate(ctx, opts, page)
}

func (s *CommentServiceImpl) Thread(ctx context.Context, id uuid.UUID, opts services.ListOptions) ([]models.FlatNode[models.Comment], error) {
	opts, err := s.options(opts)
	if err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.FindByID(ctx, id, opts.Trashed)
	if err != nil {
		return nil, err
	}
	tree, err := s.commentRepo.FindDescendantsTree(ctx, comment, opts)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ToFlatTrees([]*models.TreeNode[models.Comment]{tree}, 0), nil
}
