// Package accessor implements the typed façade application code uses to work
// with transfer elements.
//
// An Accessor[T] forwards every operation to one transfer.Buffered[T]
// implementation and implements transfer.Handle, so accessors of different
// value types can be put into the same group:
//
//	temp, _ := dummy.Scalar[float64](dev, "TEMPERATURE")
//	mode, _ := dummy.Scalar[int32](dev, "MODE")
//
//	g := group.New()
//	_ = g.Add(temp)
//	_ = g.Add(mode)
//	_ = g.Read(ctx)
//	fmt.Println(temp.Get(), mode.Get())
//
// Where the value type is only known at run time, the Untyped interface and
// the Value variant expose the same accessor over a closed set of kinds.
package accessor
