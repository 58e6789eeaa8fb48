package gp

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gp-miner/utils"
)

func TestPattern(t *testing.T) {
	Convey("梯度模式", t, func() {
		p := MustPattern(Dec(2), Inc(0))

		Convey("按列排序并生成签名", func() {
			So(p.Signature(), ShouldEqual, "0+,2-")
			So(p.Size(), ShouldEqual, 2)
			So(p.Render([]string{"age", "salary", "cars"}), ShouldResemble, []string{"age+", "cars-"})
		})

		Convey("空、重复、矛盾的模式不合法", func() {
			_, err := NewPattern()
			So(errors.Is(err, utils.ErrInvalidPattern), ShouldBeTrue)
			_, err = NewPattern(Inc(1), Inc(1))
			So(errors.Is(err, utils.ErrInvalidPattern), ShouldBeTrue)
			_, err = NewPattern(Inc(1), Dec(1))
			So(errors.Is(err, utils.ErrInvalidPattern), ShouldBeTrue)
		})

		Convey("逆模式与规范形式", func() {
			inv := p.Inverse()
			So(inv.Signature(), ShouldEqual, "0-,2+")
			So(inv.IsCanonical(), ShouldBeFalse)
			So(inv.Canonical().Signature(), ShouldEqual, p.Signature())
			So(p.Canonical().Signature(), ShouldEqual, p.Signature())
		})

		Convey("Extend、Without、子集", func() {
			q, ok := p.Extend(Inc(1))
			So(ok, ShouldBeTrue)
			So(q.Signature(), ShouldEqual, "0+,1+,2-")
			_, ok = p.Extend(Inc(2))
			So(ok, ShouldBeFalse)
			So(p.IsSubsetOf(q), ShouldBeTrue)
			So(q.IsSubsetOf(p), ShouldBeFalse)
			So(q.Without(1).Signature(), ShouldEqual, p.Signature())
			So(q.Contains(Inc(1)), ShouldBeTrue)
			So(q.Contains(Dec(1)), ShouldBeFalse)
			So(q.HasAttr(1), ShouldBeTrue)
			So(q.Prefix(2).Signature(), ShouldEqual, "0+,1+")
		})

		Convey("字典序比较", func() {
			So(Compare(MustPattern(Inc(0), Inc(1)), MustPattern(Inc(0), Dec(1))), ShouldEqual, -1)
			So(Compare(MustPattern(Inc(0), Inc(3)), MustPattern(Inc(1), Inc(2))), ShouldEqual, -1)
			So(Compare(MustPattern(Inc(0)), MustPattern(Inc(0), Inc(1))), ShouldEqual, -1)
			So(Compare(p, MustPattern(Inc(0), Dec(2))), ShouldEqual, 0)
		})

		Convey("解析签名", func() {
			q, err := ParsePattern("{2-, 0+}")
			So(err, ShouldBeNil)
			So(q.Signature(), ShouldEqual, "0+,2-")
			_, err = ParsePattern("x+")
			So(errors.Is(err, utils.ErrInvalidPattern), ShouldBeTrue)
			_, err = ParsePattern("1*")
			So(errors.Is(err, utils.ErrInvalidPattern), ShouldBeTrue)
		})
	})

	Convey("结果排序与极大模式", t, func() {
		results := []Result{
			{Pattern: MustPattern(Inc(0), Inc(1), Dec(3)), Support: 0.6},
			{Pattern: MustPattern(Inc(1), Dec(3)), Support: 0.6},
			{Pattern: MustPattern(Inc(0), Dec(3)), Support: 1},
			{Pattern: MustPattern(Inc(0), Inc(1)), Support: 0.6},
		}
		SortResults(results)
		So(results[0].Pattern.Signature(), ShouldEqual, "0+,3-")
		So(results[1].Pattern.Signature(), ShouldEqual, "0+,1+")
		So(results[2].Pattern.Signature(), ShouldEqual, "1+,3-")
		So(results[3].Pattern.Signature(), ShouldEqual, "0+,1+,3-")

		maximal := Maximal(results)
		So(len(maximal), ShouldEqual, 1)
		So(maximal[0].Pattern.Signature(), ShouldEqual, "0+,1+,3-")
	})
}
