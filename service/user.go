package service

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hatlonely/goblog/models"
	"github.com/hatlonely/goblog/orm"
	"github.com/hatlonely/goblog/pager"
	"github.com/hatlonely/goblog/uid"
)

const maskedPasswd = "******"

// RegisterRequest Passwd 是客户端计算好的 sha1(email:password)
type RegisterRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
	Passwd string `json:"passwd" validate:"required,len=40,hexadecimal,lowercase"`
}

type UserPage struct {
	Page  pager.Page     `json:"page"`
	Users []*models.User `json:"users"`
}

// HashPasswd 库中保存 sha1(id:passwd)
func HashPasswd(id, passwd string) string {
	sum := sha1.Sum([]byte(id + ":" + passwd))
	return hex.EncodeToString(sum[:])
}

func gravatar(email string) string {
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("http://www.gravatar.com/avatar/%s?d=mm&s=120", hex.EncodeToString(sum[:]))
}

func mask(user *models.User) *models.User {
	if user != nil {
		user.SetPasswd(maskedPasswd)
	}
	return user
}

func (s *Service) RegisterUser(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	users, err := s.tables.Users.FindAll(ctx, orm.Where("`email`=?", req.Email))
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return nil, NewAPIError(CodeRegisterFailed, "email", "Email is already in use.")
	}

	id := uid.NextID()
	user := s.tables.Users.New(map[string]any{
		"id":     id,
		"name":   req.Name,
		"email":  req.Email,
		"passwd": HashPasswd(id, req.Passwd),
		"image":  gravatar(req.Email),
	})
	if err := s.tables.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", "id", id, "email", req.Email)
	return mask(user), nil
}

// Authenticate 校验邮箱与密码，成功时返回隐藏了密码的用户
func (s *Service) Authenticate(ctx context.Context, email, passwd string) (*models.User, error) {
	if email == "" {
		return nil, NewValueError("email", "Invalid email.")
	}
	if passwd == "" {
		return nil, NewValueError("passwd", "Invalid password.")
	}

	users, err := s.tables.Users.FindAll(ctx, orm.Where("`email`=?", email))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, NewValueError("email", "Email not exist.")
	}
	user := users[0]
	if user.Passwd() != HashPasswd(user.ID(), passwd) {
		return nil, NewValueError("passwd", "Invalid password.")
	}
	return mask(user), nil
}

// FindUser 按 id 查询，不存在时返回 nil
func (s *Service) FindUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.tables.Users.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return mask(user), nil
}

// SetAdmin 修改用户的管理员标记
func (s *Service) SetAdmin(ctx context.Context, id string, admin bool) error {
	user, err := s.tables.Users.Find(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return NewNotFoundError("user", "User not found.")
	}
	user.SetAdmin(admin)
	return s.tables.Users.Update(ctx, user)
}

func (s *Service) ListUsers(ctx context.Context, pageIndex int) (*UserPage, error) {
	page, users, err := findPage(ctx, s.tables.Users, pageIndex, s.options.PageSize)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		mask(u)
	}
	return &UserPage{Page: page, Users: users}, nil
}

// CheckAdmin 未登录或非管理员返回 permission:forbidden
func CheckAdmin(user *models.User) error {
	if user == nil || !user.Admin() {
		return NewPermissionError("")
	}
	return nil
}
