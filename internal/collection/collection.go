// Package collection implements the buffering, reordering and transport
// nodes sitting between iterators: store, sort, queue, grouping, bitset
// disintegration and the client connection sink.
package collection

import (
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Class ids 32..63 are reserved for collections.
const (
	ClassStore                int32 = 32
	ClassSort                 int32 = 33
	ClassQueue                int32 = 34
	ClassQueueSafe            int32 = 35
	ClassGrouping             int32 = 36
	ClassBitsetDisintegration int32 = 37
	ClassConnection           int32 = 38
)

// Put is the producer-side interface of a collection.
type Put interface {
	Finish(p *program.Program) error
	Terminate(p *program.Program)
	// PutData buffers one row; true asks the caller to drain.
	PutData(p *program.Program, d value.Data) (bool, error)
	// Put buffers an externalizable object where supported.
	Put(p *program.Program, obj serial.Externalizable) (bool, error)
	// Shift advances streaming collections by one input row.
	Shift(p *program.Program) error
	Flush() error
}

// Get is the consumer-side interface of a collection.
type Get interface {
	Finish(p *program.Program) error
	Terminate(p *program.Program)
	// GetData fills d with the next row; false means exhausted.
	GetData(p *program.Program, d value.Data) (bool, error)
	Get(p *program.Program, obj serial.Externalizable) (bool, error)
	Reset()
}

// RandomGet adds positional access for random-access stores.
type RandomGet interface {
	Get
	GetDataAt(p *program.Program, d value.Data, position int) (bool, error)
}

// Collection is an aggregation or transport node buffering rows.
type Collection interface {
	serial.Externalizable

	Explain(p *program.Program, e *program.Explain)
	Initialize(p *program.Program) error
	Terminate(p *program.Program)
	// Clear drops buffered data, returning to the initialized state.
	Clear()
	IsEmpty() bool
	// IsEmptyGrouping reports a degenerate single-group pass-through.
	IsEmptyGrouping() bool
	PutInterface() Put
	GetInterface() Get
}

// putBase supplies the defaults shared by put implementations.
type putBase struct{}

func (putBase) Finish(*program.Program) error    { return nil }
func (putBase) Terminate(*program.Program)       {}
func (putBase) Shift(*program.Program) error     { return nil }
func (putBase) Flush() error                     { return nil }
func (putBase) Put(*program.Program, serial.Externalizable) (bool, error) {
	return false, errors.New(errors.NotSupported)
}

// getBase supplies the defaults shared by get implementations.
type getBase struct{}

func (getBase) Finish(*program.Program) error { return nil }
func (getBase) Terminate(*program.Program)    {}
func (getBase) Reset()                        {}
func (getBase) Get(*program.Program, serial.Externalizable) (bool, error) {
	return false, errors.New(errors.NotSupported)
}

// asRow requires a heterogeneous row array.
func asRow(d value.Data) (*value.ArrayData, error) {
	row, ok := value.IsRow(d)
	if !ok {
		return nil, errors.New(errors.NotSupported)
	}
	return row, nil
}

// copyAsRow copies d into an owned row, wrapping a scalar into a
// single-column row.
func copyAsRow(d value.Data) *value.ArrayData {
	if row, ok := value.IsRow(d); ok {
		return row.Copy().(*value.ArrayData)
	}
	return value.NewArrayOf(d.Copy())
}

// assignRow assigns src's elements into the destination row in place.
func assignRow(dst value.Data, src *value.ArrayData) error {
	row, err := asRow(dst)
	if err != nil {
		return err
	}
	return row.AssignElements(src)
}
