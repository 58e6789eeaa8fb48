package gp

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gp-miner/utils"
)

// Pattern 梯度模式，一组作用在不同列上的梯度项，按列号有序，创建后不再修改
type Pattern struct {
	items []GradualItem
}

// NewPattern 空模式、同一列出现两次(重复或方向矛盾)都返回 ErrInvalidPattern
func NewPattern(items ...GradualItem) (Pattern, error) {
	if len(items) == 0 {
		return Pattern{}, errors.Wrap(utils.ErrInvalidPattern, "empty pattern")
	}
	sorted := make([]GradualItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Attr == sorted[i-1].Attr {
			if sorted[i].Dir == sorted[i-1].Dir {
				return Pattern{}, errors.Wrapf(utils.ErrInvalidPattern, "duplicate item %v", sorted[i])
			}
			return Pattern{}, errors.Wrapf(utils.ErrInvalidPattern, "contradictory items on attribute %d", sorted[i].Attr)
		}
	}
	return Pattern{items: sorted}, nil
}

// MustPattern 测试和常量构造用
func MustPattern(items ...GradualItem) Pattern {
	p, err := NewPattern(items...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) Size() int {
	return len(p.items)
}

func (p Pattern) IsEmpty() bool {
	return len(p.items) == 0
}

// Items 返回副本
func (p Pattern) Items() []GradualItem {
	res := make([]GradualItem, len(p.items))
	copy(res, p.items)
	return res
}

func (p Pattern) Item(i int) GradualItem {
	return p.items[i]
}

func (p Pattern) Last() GradualItem {
	return p.items[len(p.items)-1]
}

// Signature 规范签名，例如 "0+,2-"
func (p Pattern) Signature() string {
	var sb strings.Builder
	for i, gi := range p.items {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(gi.String())
	}
	return sb.String()
}

func (p Pattern) String() string {
	return "{" + p.Signature() + "}"
}

// Inverse 所有方向取反，支持度与原模式相同
func (p Pattern) Inverse() Pattern {
	items := make([]GradualItem, len(p.items))
	for i, gi := range p.items {
		items[i] = gi.Inverse()
	}
	return Pattern{items: items}
}

// Canonical P 与其逆模式中首项为 + 的那一个
func (p Pattern) Canonical() Pattern {
	if len(p.items) > 0 && p.items[0].Dir == Decreasing {
		return p.Inverse()
	}
	return p
}

func (p Pattern) IsCanonical() bool {
	return len(p.items) == 0 || p.items[0].Dir == Increasing
}

func (p Pattern) Contains(gi GradualItem) bool {
	i := sort.Search(len(p.items), func(i int) bool {
		return !p.items[i].Less(gi)
	})
	return i < len(p.items) && p.items[i] == gi
}

func (p Pattern) HasAttr(attr int) bool {
	i := sort.Search(len(p.items), func(i int) bool {
		return p.items[i].Attr >= attr
	})
	return i < len(p.items) && p.items[i].Attr == attr
}

// Extend 追加一项，列已存在时返回 false
func (p Pattern) Extend(gi GradualItem) (Pattern, bool) {
	if p.HasAttr(gi.Attr) {
		return p, false
	}
	items := make([]GradualItem, 0, len(p.items)+1)
	inserted := false
	for _, it := range p.items {
		if !inserted && gi.Less(it) {
			items = append(items, gi)
			inserted = true
		}
		items = append(items, it)
	}
	if !inserted {
		items = append(items, gi)
	}
	return Pattern{items: items}, true
}

// Without 去掉第i项
func (p Pattern) Without(i int) Pattern {
	items := make([]GradualItem, 0, len(p.items)-1)
	items = append(items, p.items[:i]...)
	items = append(items, p.items[i+1:]...)
	return Pattern{items: items}
}

// Prefix 前k项
func (p Pattern) Prefix(k int) Pattern {
	return Pattern{items: p.items[:k]}
}

// IsSubsetOf p 的每一项都出现在 q 中
func (p Pattern) IsSubsetOf(q Pattern) bool {
	if len(p.items) > len(q.items) {
		return false
	}
	j := 0
	for _, gi := range p.items {
		for j < len(q.items) && q.items[j].Less(gi) {
			j++
		}
		if j == len(q.items) || q.items[j] != gi {
			return false
		}
		j++
	}
	return true
}

// Render 按列名展示，如 ["age+", "salary-"]
func (p Pattern) Render(names []string) []string {
	res := make([]string, len(p.items))
	for i, gi := range p.items {
		res[i] = gi.Render(names)
	}
	return res
}

// Compare 按 (列, 方向) 元组做字典序比较
func Compare(a, b Pattern) int {
	for i := 0; i < len(a.items) && i < len(b.items); i++ {
		if a.items[i] == b.items[i] {
			continue
		}
		if a.items[i].Less(b.items[i]) {
			return -1
		}
		return 1
	}
	switch {
	case len(a.items) < len(b.items):
		return -1
	case len(a.items) > len(b.items):
		return 1
	}
	return 0
}

// ParsePattern 解析 "0+,2-" 形式的签名
func ParsePattern(signature string) (Pattern, error) {
	signature = strings.Trim(strings.TrimSpace(signature), "{}")
	if signature == "" {
		return Pattern{}, errors.Wrap(utils.ErrInvalidPattern, "empty pattern")
	}
	parts := strings.Split(signature, ",")
	items := make([]GradualItem, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) < 2 {
			return Pattern{}, errors.Wrapf(utils.ErrInvalidPattern, "bad item %q", part)
		}
		dir, err := ParseDirection(part[len(part)-1:])
		if err != nil {
			return Pattern{}, errors.Wrapf(utils.ErrInvalidPattern, "%v", err)
		}
		var attr int
		for _, c := range part[:len(part)-1] {
			if c < '0' || c > '9' {
				return Pattern{}, errors.Wrapf(utils.ErrInvalidPattern, "bad attribute in %q", part)
			}
			attr = attr*10 + int(c-'0')
		}
		items = append(items, GradualItem{Attr: attr, Dir: dir})
	}
	return NewPattern(items...)
}
