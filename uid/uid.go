package uid

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Generator 生成博客主键：15 位毫秒时间戳 + 32 位 uuid 十六进制 + 000，共 50 个字符
// 同一毫秒内生成的 id 依靠 uuid 区分，按字符串排序近似按时间排序
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock 使用自定义时钟，用于测试
func NewGeneratorWithClock(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

func (g *Generator) Generate() string {
	u := uuid.New()
	return fmt.Sprintf("%015d%s000", g.now().UnixMilli(), hex.EncodeToString(u[:]))
}

var defaultGenerator = NewGenerator()

// NextID 使用默认生成器
func NextID() string {
	return defaultGenerator.Generate()
}
