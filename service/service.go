package service

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hatlonely/goblog/cfg"
	"github.com/hatlonely/goblog/log"
	"github.com/hatlonely/goblog/models"
	"github.com/hatlonely/goblog/orm"
	"github.com/hatlonely/goblog/pager"
	"github.com/pkg/errors"
)

type Options struct {
	PageSize      int `cfg:"pageSize" def:"10" validate:"gte=1"`
	IndexPageSize int `cfg:"indexPageSize" def:"5" validate:"gte=1"`
	// StrictRowCount 为 true 时写操作影响行数不为 1 返回错误
	StrictRowCount bool `cfg:"strictRowCount"`
}

// Service 博客、用户、评论相关的业务操作，HTTP 层只负责编解码
type Service struct {
	tables   *models.Tables
	logger   log.Logger
	validate *validator.Validate
	options  Options
}

func NewServiceWithOptions(exec *orm.Executor, options *Options) (*Service, error) {
	if exec == nil {
		return nil, errors.New("executor cannot be nil")
	}
	if options == nil {
		options = &Options{}
	}
	if err := cfg.SetDefaults(options); err != nil {
		return nil, errors.WithMessage(err, "set defaults failed")
	}
	if err := cfg.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "invalid service options")
	}

	policy := orm.RowCountWarn
	if options.StrictRowCount {
		policy = orm.RowCountStrict
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return &Service{
		tables:   models.NewTables(exec, orm.WithRowCountPolicy(policy)),
		logger:   exec.Logger(),
		validate: validate,
		options:  *options,
	}, nil
}

func (s *Service) Tables() *models.Tables {
	return s.tables
}

// CreateTables 初始化数据表
func (s *Service) CreateTables(ctx context.Context) error {
	return s.tables.CreateTables(ctx)
}

// Stats 各表的行数
type Stats struct {
	Users    int64 `json:"users"`
	Blogs    int64 `json:"blogs"`
	Comments int64 `json:"comments"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var err error
	if stats.Users, err = s.tables.Users.Count(ctx, ""); err != nil {
		return nil, err
	}
	if stats.Blogs, err = s.tables.Blogs.Count(ctx, ""); err != nil {
		return nil, err
	}
	if stats.Comments, err = s.tables.Comments.Count(ctx, ""); err != nil {
		return nil, err
	}
	return &stats, nil
}

// validateRequest 校验失败时返回第一个出错字段对应的 value:invalid
func (s *Service) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return NewValueError(verrs[0].Field(), verrs[0].Field()+" is invalid.")
	}
	return err
}

// findPage 按 created_at 倒序取一页
func findPage[T any, P orm.EntityPtr[T]](ctx context.Context, table *orm.Table[T, P], pageIndex, pageSize int) (pager.Page, []P, error) {
	count, err := table.Count(ctx, "")
	if err != nil {
		return pager.Page{}, nil, err
	}
	page := pager.NewPage(int(count), pageIndex, pageSize)
	if page.Empty() {
		return page, []P{}, nil
	}
	items, err := table.FindAll(ctx, orm.OrderBy("`created_at` desc"), orm.LimitOffset(page.Offset, page.Limit))
	if err != nil {
		return pager.Page{}, nil, err
	}
	return page, items, nil
}
