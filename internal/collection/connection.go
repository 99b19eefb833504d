package collection

import (
	"github.com/VictoriaMetrics/metrics"

	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/transport"
	"github.com/kasuga-db/kasuga/internal/value"
)

var connectionRows = metrics.GetOrCreateCounter("kasuga_connection_rows_total")

// Connection is the sink forwarding result tuples to the client peer.
// It resolves its transport from the program's connection table at
// initialize, opens it lazily and closes it on terminate iff it was the
// opener. A nil object terminates the stream.
type Connection struct {
	connectionID int

	conn       transport.Conn
	openedByMe bool

	put connectionPut
	get connectionGet
}

// NewConnection creates a sink over the program connection id.
func NewConnection(connectionID int) *Connection {
	c := &Connection{connectionID: connectionID}
	c.put.outer = c
	c.get.outer = c
	return c
}

func (c *Connection) Explain(p *program.Program, e *program.Explain) {
	e.Put("connection#")
	e.PutInt(c.connectionID)
}

func (c *Connection) Initialize(p *program.Program) error {
	if c.conn != nil {
		return nil
	}
	conn, err := p.Connection(c.connectionID)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

func (c *Connection) Terminate(p *program.Program) {
	if c.conn != nil && c.openedByMe {
		_ = c.conn.Close()
		c.openedByMe = false
	}
	c.conn = nil
}

func (c *Connection) Clear()                {}
func (c *Connection) IsEmpty() bool         { return true }
func (c *Connection) IsEmptyGrouping() bool { return false }
func (c *Connection) PutInterface() Put     { return &c.put }
func (c *Connection) GetInterface() Get     { return &c.get }

func (c *Connection) ClassID() int32 { return ClassConnection }

func (c *Connection) Serialize(a *serial.Archive) error {
	a.Int(&c.connectionID)
	return a.Err()
}

func (c *Connection) open() error {
	if c.conn.IsOpened() {
		return nil
	}
	if err := c.conn.Open(); err != nil {
		return err
	}
	c.openedByMe = true
	return nil
}

func (c *Connection) write(p *program.Program, obj serial.Externalizable) error {
	if err := c.open(); err != nil {
		return err
	}
	if err := c.conn.WriteObject(obj); err != nil {
		return err
	}
	if obj != nil {
		p.SendRows().Add()
		connectionRows.Inc()
	}
	return nil
}

type connectionPut struct {
	putBase
	outer *Connection
}

func (pt *connectionPut) PutData(p *program.Program, d value.Data) (bool, error) {
	if err := pt.outer.write(p, d); err != nil {
		return false, err
	}
	return false, nil
}

func (pt *connectionPut) Put(p *program.Program, obj serial.Externalizable) (bool, error) {
	if err := pt.outer.write(p, obj); err != nil {
		return false, err
	}
	return false, nil
}

func (pt *connectionPut) Flush() error {
	if pt.outer.conn == nil {
		return nil
	}
	return pt.outer.conn.Flush()
}

// Finish terminates the result stream with the nil marker.
func (pt *connectionPut) Finish(p *program.Program) error {
	if pt.outer.conn == nil {
		return nil
	}
	if err := pt.outer.write(p, nil); err != nil {
		return err
	}
	return pt.outer.conn.Flush()
}

type connectionGet struct {
	getBase
	outer *Connection
}

// GetData never yields a row on a pure sink; it reports false without an
// error.
func (g *connectionGet) GetData(p *program.Program, d value.Data) (bool, error) {
	return false, nil
}

func init() {
	serial.Register(ClassConnection, func() serial.Externalizable { return NewConnection(-1) })
}
