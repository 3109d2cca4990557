package pager

import (
	"fmt"
	"strconv"
)

const DefaultPageSize = 10

// Page 分页信息，Offset/Limit 直接用于 limit 子句
type Page struct {
	ItemCount   int  `json:"item_count"`
	PageIndex   int  `json:"page_index"`
	PageSize    int  `json:"page_size"`
	PageCount   int  `json:"page_count"`
	Offset      int  `json:"offset"`
	Limit       int  `json:"limit"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPage pageSize <= 0 时使用 DefaultPageSize
// 没有数据或页码超出范围时 Offset、Limit 为 0，页码回到 1
func NewPage(itemCount, pageIndex, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if itemCount < 0 {
		itemCount = 0
	}

	p := Page{
		ItemCount: itemCount,
		PageSize:  pageSize,
		PageCount: (itemCount + pageSize - 1) / pageSize,
	}
	if itemCount == 0 || pageIndex > p.PageCount || pageIndex < 1 {
		p.PageIndex = 1
	} else {
		p.PageIndex = pageIndex
		p.Offset = pageSize * (pageIndex - 1)
		p.Limit = pageSize
	}
	p.HasNext = p.PageIndex < p.PageCount
	p.HasPrevious = p.PageIndex > 1
	return p
}

// Empty 当前页没有可查询的数据
func (p Page) Empty() bool {
	return p.Limit == 0
}

func (p Page) String() string {
	return fmt.Sprintf("item_count: %d, page_count: %d, page_index: %d, page_size: %d, offset: %d, limit: %d",
		p.ItemCount, p.PageCount, p.PageIndex, p.PageSize, p.Offset, p.Limit)
}

// PageIndex 解析页码，非法或小于 1 时返回 1
func PageIndex(s string) int {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 {
		return 1
	}
	return p
}
