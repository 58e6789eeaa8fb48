package gp

import (
	"fmt"
	"strconv"
)

// Direction 梯度方向
type Direction int8

const (
	// Increasing 递增 "+"
	Increasing Direction = iota
	// Decreasing 递减 "-"
	Decreasing
)

func (d Direction) Symbol() string {
	if d == Decreasing {
		return "-"
	}
	return "+"
}

func (d Direction) Opposite() Direction {
	if d == Decreasing {
		return Increasing
	}
	return Decreasing
}

// ParseDirection 解析 "+"/"-"
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "+":
		return Increasing, nil
	case "-":
		return Decreasing, nil
	}
	return Increasing, fmt.Errorf("unknown direction %q", s)
}

// GradualItem 某一列上的一个梯度项，如 age+
type GradualItem struct {
	Attr int
	Dir  Direction
}

func Inc(attr int) GradualItem {
	return GradualItem{Attr: attr, Dir: Increasing}
}

func Dec(attr int) GradualItem {
	return GradualItem{Attr: attr, Dir: Decreasing}
}

func (gi GradualItem) Inverse() GradualItem {
	return GradualItem{Attr: gi.Attr, Dir: gi.Dir.Opposite()}
}

func (gi GradualItem) String() string {
	return strconv.Itoa(gi.Attr) + gi.Dir.Symbol()
}

// Render 用列名展示
func (gi GradualItem) Render(names []string) string {
	if gi.Attr >= 0 && gi.Attr < len(names) {
		return names[gi.Attr] + gi.Dir.Symbol()
	}
	return gi.String()
}

// Less 先按列，再按方向(+在前)
func (gi GradualItem) Less(other GradualItem) bool {
	if gi.Attr != other.Attr {
		return gi.Attr < other.Attr
	}
	return gi.Dir < other.Dir
}
