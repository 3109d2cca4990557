package service

import (
	"context"
	"strings"

	"github.com/hatlonely/goblog/models"
	"github.com/hatlonely/goblog/pager"
)

type CommentPage struct {
	Page     pager.Page        `json:"page"`
	Comments []*models.Comment `json:"comments"`
}

func (s *Service) ListComments(ctx context.Context, pageIndex int) (*CommentPage, error) {
	page, comments, err := findPage(ctx, s.tables.Comments, pageIndex, s.options.PageSize)
	if err != nil {
		return nil, err
	}
	return &CommentPage{Page: page, Comments: comments}, nil
}

// CreateComment 需要登录，博客不存在时返回 value:notfound
func (s *Service) CreateComment(ctx context.Context, user *models.User, blogID string, content string) (*models.Comment, error) {
	if user == nil {
		return nil, NewPermissionError("Please signin first.")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewValueError("content", "content cannot be empty.")
	}

	blog, err := s.tables.Blogs.Find(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, NewNotFoundError("blog", "Blog not found.")
	}

	comment := s.tables.Comments.New(map[string]any{
		"blog_id":    blog.ID(),
		"user_id":    user.ID(),
		"user_name":  user.Name(),
		"user_image": user.Image(),
		"content":    content,
	})
	if err := s.tables.Comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, user *models.User, id string) error {
	if err := CheckAdmin(user); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "delete comment", "id", id)

	comment, err := s.tables.Comments.Find(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return NewNotFoundError("comment", "Comment not found.")
	}
	return s.tables.Comments.Remove(ctx, comment)
}
