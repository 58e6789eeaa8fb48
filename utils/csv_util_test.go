package utils

import (
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReadColumns(t *testing.T) {
	Convey("读取数值型csv", t, func() {
		Convey("按列返回，表头去空格", func() {
			data := "age, salary ,cars\n1,100,3\n2,90.5,1\n3,30,4\n"
			names, columns, err := ReadColumns(csv.NewReader(strings.NewReader(data)))
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"age", "salary", "cars"})
			So(columns, ShouldResemble, [][]float64{{1, 2, 3}, {100, 90.5, 30}, {3, 1, 4}})
		})

		Convey("有空值或列数不对的行跳过", func() {
			data := "a,b\n1,2\n3,\n4\n5, 6\n"
			_, columns, err := ReadColumns(csv.NewReader(strings.NewReader(data)))
			So(err, ShouldBeNil)
			So(columns, ShouldResemble, [][]float64{{1, 5}, {2, 6}})
		})

		Convey("非数值单元格报错", func() {
			data := "a,b\n1,2\n3,x\n"
			_, _, err := ReadColumns(csv.NewReader(strings.NewReader(data)))
			So(errors.Is(err, ErrWrongDataType), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "line 3 column b")
		})

		Convey("空输入报错", func() {
			_, _, err := ReadColumns(csv.NewReader(strings.NewReader("")))
			So(errors.Is(err, ErrReadCsv), ShouldBeTrue)
		})
	})

	Convey("写出后读回", t, func() {
		p := filepath.Join(t.TempDir(), "out.csv")
		So(CreateCsv(p, [][]string{{"x", "y"}, {"1", "2"}}), ShouldBeNil)
		names, columns, err := ReadCSVToColumns(p)
		So(err, ShouldBeNil)
		So(names, ShouldResemble, []string{"x", "y"})
		So(columns, ShouldResemble, [][]float64{{1}, {2}})

		_, _, err = ReadCSVToColumns(filepath.Join(t.TempDir(), "missing.csv"))
		So(errors.Is(err, ErrOpenCsv), ShouldBeTrue)
	})
}
