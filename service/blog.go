package service

import (
	"context"
	"strings"

	"github.com/hatlonely/goblog/models"
	"github.com/hatlonely/goblog/orm"
	"github.com/hatlonely/goblog/pager"
)

type BlogRequest struct {
	Name    string `json:"name" validate:"required,max=50"`
	Summary string `json:"summary" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

func (r *BlogRequest) trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Content = strings.TrimSpace(r.Content)
}

type BlogPage struct {
	Page  pager.Page     `json:"page"`
	Blogs []*models.Blog `json:"blogs"`
}

type BlogDetail struct {
	Blog        *models.Blog      `json:"blog"`
	HTMLContent string            `json:"html_content"`
	Comments    []*models.Comment `json:"comments"`
	// CommentHTML 评论 id 到渲染后 html 的映射
	CommentHTML map[string]string `json:"comment_html"`
}

// IndexBlogs 首页的博客列表
func (s *Service) IndexBlogs(ctx context.Context, pageIndex int) (*BlogPage, error) {
	page, blogs, err := findPage(ctx, s.tables.Blogs, pageIndex, s.options.IndexPageSize)
	if err != nil {
		return nil, err
	}
	return &BlogPage{Page: page, Blogs: blogs}, nil
}

func (s *Service) ListBlogs(ctx context.Context, pageIndex int) (*BlogPage, error) {
	page, blogs, err := findPage(ctx, s.tables.Blogs, pageIndex, s.options.PageSize)
	if err != nil {
		return nil, err
	}
	return &BlogPage{Page: page, Blogs: blogs}, nil
}

// GetBlog 返回博客及其评论，评论按时间倒序
func (s *Service) GetBlog(ctx context.Context, id string) (*BlogDetail, error) {
	blog, err := s.tables.Blogs.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, NewNotFoundError("blog", "Blog not found.")
	}
	comments, err := s.tables.Comments.FindAll(ctx, orm.Where("`blog_id`=?", id), orm.OrderBy("`created_at` desc"))
	if err != nil {
		return nil, err
	}
	content, err := RenderMarkdown(blog.Content())
	if err != nil {
		return nil, err
	}
	commentHTML := make(map[string]string, len(comments))
	for _, c := range comments {
		commentHTML[c.ID()] = TextToHTML(c.Content())
	}
	return &BlogDetail{Blog: blog, HTMLContent: content, Comments: comments, CommentHTML: commentHTML}, nil
}

func (s *Service) CreateBlog(ctx context.Context, user *models.User, req BlogRequest) (*models.Blog, error) {
	if err := CheckAdmin(user); err != nil {
		return nil, err
	}
	req.trim()
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	blog := s.tables.Blogs.New(map[string]any{
		"user_id":    user.ID(),
		"user_name":  user.Name(),
		"user_image": user.Image(),
		"name":       req.Name,
		"summary":    req.Summary,
		"content":    req.Content,
	})
	if err := s.tables.Blogs.Save(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *Service) ModifyBlog(ctx context.Context, user *models.User, id string, req BlogRequest) (*models.Blog, error) {
	if err := CheckAdmin(user); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "modify blog", "id", id)

	req.trim()
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}
	blog, err := s.tables.Blogs.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, NewNotFoundError("blog", "Blog not found.")
	}

	blog.SetName(req.Name)
	blog.SetSummary(req.Summary)
	blog.SetContent(req.Content)
	if err := s.tables.Blogs.Update(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *Service) DeleteBlog(ctx context.Context, user *models.User, id string) error {
	if err := CheckAdmin(user); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "delete blog", "id", id)

	blog, err := s.tables.Blogs.Find(ctx, id)
	if err != nil {
		return err
	}
	if blog == nil {
		return NewNotFoundError("blog", "Blog not found.")
	}
	return s.tables.Blogs.Remove(ctx, blog)
}
