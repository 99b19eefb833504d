// Package program owns the runtime state of one execution plan: the
// variable table, connections, iterators and stored functions that
// actions and collections reference by integer id.
package program

import (
	"github.com/google/uuid"
	"github.com/ledgerwatch/log/v3"
	"go.uber.org/atomic"

	"github.com/kasuga-db/kasuga/internal/config"
	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/transport"
	"github.com/kasuga-db/kasuga/internal/value"
)

// Program is the execution plan instance. Actions, collections and
// iterators never own each other; they all hang off the program and
// refer to one another through indices, so no ownership cycle exists.
type Program struct {
	id     uuid.UUID
	cfg    *config.ExecutionConfig
	logger log.Logger

	variables   []value.Data
	connections []transport.Conn
	iterators   []Iterator
	locators    []*Locator
	functions   map[string]*Function
	sendRows    SendRowCount
	normalizer  TextNormalizer
}

// TextNormalizer is the contract the normalize and expand-synonym
// actions need from the Japanese text normalizer.
type TextNormalizer interface {
	// Normalize rewrites input under the named option profile.
	Normalize(input, option string) (string, error)
	// Expand returns the synonym alternatives of input; empty input
	// yields none.
	Expand(input, option string) ([]string, error)
}

// New creates an empty program with the given configuration; nil picks
// the defaults.
func New(cfg *config.ExecutionConfig) *Program {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Program{
		id:        uuid.New(),
		cfg:       cfg,
		logger:    log.New("program", uuid.New().String()[:8]),
		functions: map[string]*Function{},
	}
}

// ID identifies this program instance.
func (p *Program) ID() uuid.UUID { return p.id }

// Config returns the execution configuration.
func (p *Program) Config() *config.ExecutionConfig { return p.cfg }

// Log returns the program logger.
func (p *Program) Log() log.Logger { return p.logger }

// AddVariable appends a variable slot and returns its id.
func (p *Program) AddVariable(d value.Data) int {
	p.variables = append(p.variables, d)
	return len(p.variables) - 1
}

// Variable resolves a variable id; unknown ids return nil.
func (p *Program) Variable(id int) value.Data {
	if id < 0 || id >= len(p.variables) {
		return nil
	}
	return p.variables[id]
}

// SetVariable replaces the slot contents.
func (p *Program) SetVariable(id int, d value.Data) error {
	if id < 0 || id >= len(p.variables) {
		return errors.Newf(errors.BadArgument, "variable id %d", id)
	}
	p.variables[id] = d
	return nil
}

// AddConnection appends a client connection and returns its id.
func (p *Program) AddConnection(c transport.Conn) int {
	p.connections = append(p.connections, c)
	return len(p.connections) - 1
}

// Connection resolves a connection id.
func (p *Program) Connection(id int) (transport.Conn, error) {
	if id < 0 || id >= len(p.connections) {
		return nil, errors.Newf(errors.BadArgument, "connection id %d", id)
	}
	return p.connections[id], nil
}

// AddIterator appends an iterator and returns its id.
func (p *Program) AddIterator(it Iterator) int {
	p.iterators = append(p.iterators, it)
	return len(p.iterators) - 1
}

// GetIterator resolves an iterator id.
func (p *Program) GetIterator(id int) (Iterator, error) {
	if id < 0 || id >= len(p.iterators) {
		return nil, errors.Newf(errors.BadArgument, "iterator id %d", id)
	}
	return p.iterators[id], nil
}

// AddLocator appends a locator slot and returns its id.
func (p *Program) AddLocator(l *Locator) int {
	p.locators = append(p.locators, l)
	return len(p.locators) - 1
}

// GetLocator resolves a locator id.
func (p *Program) GetLocator(id int) (*Locator, error) {
	if id < 0 || id >= len(p.locators) {
		return nil, errors.Newf(errors.BadArgument, "locator id %d", id)
	}
	return p.locators[id], nil
}

// RegisterFunction installs a stored function.
func (p *Program) RegisterFunction(f *Function) {
	p.functions[functionKey(f.Name, f.Language)] = f
}

// LookupFunction finds a stored function by name and language.
func (p *Program) LookupFunction(name, language string) (*Function, error) {
	f, ok := p.functions[functionKey(name, language)]
	if !ok {
		return nil, errors.Newf(errors.StoredFunctionNotFound, "%s (%s)", name, language)
	}
	return f, nil
}

func functionKey(name, language string) string { return language + ":" + name }

// SendRowCount tracks the rows shipped through connection collections
// for the owning transaction. Parallel producer tasks share it, so the
// counter is atomic.
type SendRowCount struct {
	count atomic.Int64
}

func (s *SendRowCount) Add()         { s.count.Inc() }
func (s *SendRowCount) Value() int64 { return s.count.Load() }

// SetNormalizer installs the text normalizer used by normalize actions.
func (p *Program) SetNormalizer(n TextNormalizer) { p.normalizer = n }

// Normalizer returns the installed text normalizer, or nil.
func (p *Program) Normalizer() TextNormalizer { return p.normalizer }

// SendRows returns the transaction's sent-row counter. Connection
// collections increment it once per shipped tuple.
func (p *Program) SendRows() *SendRowCount { return &p.sendRows }
