package transfer_test

import (
	"testing"

	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/transfer/transfertest"
)

func TestEmbeddedCoreSatisfiesElement(t *testing.T) {
	reg := transfertest.NewRegister("r", 1)
	elems := []transfer.Element{
		transfertest.NewPoll(reg),
		transfertest.NewDecorator(transfertest.NewPoll(reg), 2),
		transfer.NewCopyDecorator[int64](transfertest.NewPoll(reg), 0),
	}
	for _, e := range elems {
		c := e.TransferCore()
		if c == nil {
			t.Fatalf("%T: TransferCore returned nil", e)
		}
		if c.ID() != e.ID() {
			t.Errorf("%T: core ID %v, element ID %v", e, c.ID(), e.ID())
		}
		c.SetInGroup(true)
		if !e.TransferCore().InGroup() {
			t.Errorf("%T: TransferCore does not return the embedded core", e)
		}
	}
}
