package table_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/condmi/table"
)

func ExampleReadCSV() {
	tb, err := table.ReadCSV(strings.NewReader("x,y,z\n1,2,3\n4,5,6\n"))
	if err != nil {
		fmt.Println(err)
		return
	}
	xz, _ := tb.Select("x", "z")
	fmt.Println(tb.Names(), xz.Rows())
	// Output: [x y z] [[1 3] [4 6]]
}
