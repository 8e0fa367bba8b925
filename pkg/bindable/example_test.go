package bindable_test

import (
	"fmt"

	"github.com/go-drift/stage/pkg/bindable"
)

func ExampleBindable_BindTo() {
	volume := bindable.New(0.5)
	display := bindable.New(0.0)
	_ = display.BindTo(volume)

	volume.MustSet(0.8)
	fmt.Println(display.Value(), display.Status())

	err := display.Set(1)
	fmt.Println(err != nil)
	// Output:
	// 0.8 unidirectional
	// true
}

func ExampleBindable_Bind() {
	a := bindable.New("left")
	b := bindable.New("right")
	_ = a.Bind(b, false)
	fmt.Println(b.Value())

	b.MustSet("both")
	fmt.Println(a.Value())
	// Output:
	// left
	// both
}
