package models

import (
	"context"
	"time"

	"github.com/hatlonely/goblog/orm"
	"github.com/hatlonely/goblog/uid"
)

func nextID() any {
	return uid.NextID()
}

// now 秒级时间戳，带小数部分
func now() any {
	return float64(time.Now().UnixNano()) / 1e9
}

type User struct {
	orm.Record
}

func (*User) TableName() string { return "users" }

func (u *User) ID() string         { return u.GetString("id") }
func (u *User) Email() string      { return u.GetString("email") }
func (u *User) Passwd() string     { return u.GetString("passwd") }
func (u *User) Admin() bool        { return u.GetBool("admin") }
func (u *User) Name() string       { return u.GetString("name") }
func (u *User) Image() string      { return u.GetString("image") }
func (u *User) CreatedAt() float64 { return u.GetFloat64("created_at") }

func (u *User) SetPasswd(passwd string) { u.Set("passwd", passwd) }
func (u *User) SetAdmin(admin bool)     { u.Set("admin", admin) }

type Blog struct {
	orm.Record
}

func (*Blog) TableName() string { return "blogs" }

func (b *Blog) ID() string         { return b.GetString("id") }
func (b *Blog) UserID() string     { return b.GetString("user_id") }
func (b *Blog) UserName() string   { return b.GetString("user_name") }
func (b *Blog) UserImage() string  { return b.GetString("user_image") }
func (b *Blog) Name() string       { return b.GetString("name") }
func (b *Blog) Summary() string    { return b.GetString("summary") }
func (b *Blog) Content() string    { return b.GetString("content") }
func (b *Blog) CreatedAt() float64 { return b.GetFloat64("created_at") }

func (b *Blog) SetName(name string)       { b.Set("name", name) }
func (b *Blog) SetSummary(summary string) { b.Set("summary", summary) }
func (b *Blog) SetContent(content string) { b.Set("content", content) }

type Comment struct {
	orm.Record
}

func (*Comment) TableName() string { return "comments" }

func (c *Comment) ID() string         { return c.GetString("id") }
func (c *Comment) BlogID() string     { return c.GetString("blog_id") }
func (c *Comment) UserID() string     { return c.GetString("user_id") }
func (c *Comment) UserName() string   { return c.GetString("user_name") }
func (c *Comment) UserImage() string  { return c.GetString("user_image") }
func (c *Comment) Content() string    { return c.GetString("content") }
func (c *Comment) CreatedAt() float64 { return c.GetFloat64("created_at") }

func init() {
	orm.MustRegister[User](
		orm.StringField("id", orm.PrimaryKey(), orm.Default(nextID), orm.DDL("varchar(50)")),
		orm.StringField("email", orm.DDL("varchar(50)")),
		orm.StringField("passwd", orm.DDL("varchar(50)")),
		orm.BooleanField("admin"),
		orm.StringField("name", orm.DDL("varchar(50)")),
		orm.StringField("image", orm.DDL("varchar(500)")),
		orm.FloatField("created_at", orm.Default(now)),
	)
	orm.MustRegister[Blog](
		orm.StringField("id", orm.PrimaryKey(), orm.Default(nextID), orm.DDL("varchar(50)")),
		orm.StringField("user_id", orm.DDL("varchar(50)")),
		orm.StringField("user_name", orm.DDL("varchar(50)")),
		orm.StringField("user_image", orm.DDL("varchar(500)")),
		orm.StringField("name", orm.DDL("varchar(50)")),
		orm.StringField("summary", orm.DDL("varchar(200)")),
		orm.TextField("content"),
		orm.FloatField("created_at", orm.Default(now)),
	)
	orm.MustRegister[Comment](
		orm.StringField("id", orm.PrimaryKey(), orm.Default(nextID), orm.DDL("varchar(50)")),
		orm.StringField("blog_id", orm.DDL("varchar(50)")),
		orm.StringField("user_id", orm.DDL("varchar(50)")),
		orm.StringField("user_name", orm.DDL("varchar(50)")),
		orm.StringField("user_image", orm.DDL("varchar(500)")),
		orm.TextField("content"),
		orm.FloatField("created_at", orm.Default(now)),
	)
}

// Tables 三张表的访问入口
type Tables struct {
	Users    *orm.Table[User, *User]
	Blogs    *orm.Table[Blog, *Blog]
	Comments *orm.Table[Comment, *Comment]
}

func NewTables(exec *orm.Executor, opts ...orm.TableOption) *Tables {
	return &Tables{
		Users:    orm.MustNewTable[User](exec, opts...),
		Blogs:    orm.MustNewTable[Blog](exec, opts...),
		Comments: orm.MustNewTable[Comment](exec, opts...),
	}
}

// CreateTables 表不存在时创建
func (t *Tables) CreateTables(ctx context.Context) error {
	if err := t.Users.CreateTable(ctx); err != nil {
		return err
	}
	if err := t.Blogs.CreateTable(ctx); err != nil {
		return err
	}
	return t.Comments.CreateTable(ctx)
}
