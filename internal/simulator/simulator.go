// internal/simulator/simulator.go
package simulator

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tbrandon/mbserver"
)

// DefaultTableSize is the number of holding registers served by default.
const DefaultTableSize = 100

// maxReadQuantity is the FC3 protocol limit.
const maxReadQuantity = 125

// Function codes the simulator overrides.
const (
	fcReadHoldingRegisters   uint8 = 3
	fcWriteSingleRegister    uint8 = 6
	fcWriteMultipleRegisters uint8 = 16
)

// DefaultTable returns n registers with value[i] = i*100.
// Values wrap at 16 bits for tables larger than 656 entries.
func DefaultTable(n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(i * 100)
	}
	return out
}

// Config describes one simulated device.
type Config struct {
	Host  string
	Port  uint16
	Table []uint16
}

// Simulator serves a fixed holding register table over Modbus TCP.
// The table is copied at construction and never written, so any number of
// sessions read it without locking.
type Simulator struct {
	addr  string
	table []uint16
	log   zerolog.Logger

	mu  sync.Mutex
	srv *mbserver.Server
}

// New validates cfg and copies the table.
func New(cfg Config, log zerolog.Logger) (*Simulator, error) {
	if len(cfg.Table) == 0 {
		return nil, errors.New("simulator: register table must not be empty")
	}
	if cfg.Port == 0 {
		return nil, errors.New("simulator: port must be 1..65535")
	}
	if len(cfg.Table) > 65536 {
		return nil, fmt.Errorf("simulator: register table of %d entries exceeds address space", len(cfg.Table))
	}

	table := make([]uint16, len(cfg.Table))
	copy(table, cfg.Table)

	return &Simulator{
		addr:  net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port))),
		table: table,
		log:   log,
	}, nil
}

// Addr is the listen address. Port 0 is rejected by New, so this is
// also the bound address.
func (s *Simulator) Addr() string { return s.addr }

// Table returns a copy of the served registers.
func (s *Simulator) Table() []uint16 {
	out := make([]uint16, len(s.table))
	copy(out, s.table)
	return out
}

// Start binds the listener and begins serving. It does not retry:
// a bind failure is returned to the caller.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return errors.New("simulator: already started")
	}

	srv := s.newServer()

	s.log.Info().
		Str("addr", s.addr).
		Int("registers", len(s.table)).
		Msg("starting Modbus TCP server")

	if err := srv.ListenTCP(s.addr); err != nil {
		srv.Close()
		s.log.Error().Err(err).Str("addr", s.addr).Msg("failed to start Modbus TCP server")
		return fmt.Errorf("simulator: listen %s: %w", s.addr, err)
	}

	s.srv = srv
	return nil
}

// Close stops accepting new connections. Sessions already accepted are
// served by mbserver until the client hangs up; mbserver offers no way to
// cut them, and its dispatch goroutine lives until the process exits.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return
	}
	s.srv.Close()
	s.srv = nil
	s.log.Info().Str("addr", s.addr).Msg("Modbus TCP server stopped")
}

// newServer builds an mbserver whose holding registers hold the table.
// Register writes are disabled so the table stays immutable.
func (s *Simulator) newServer() *mbserver.Server {
	srv := mbserver.NewServer()
	copy(srv.HoldingRegisters, s.table)

	srv.RegisterFunctionHandler(fcReadHoldingRegisters, s.readHoldingRegisters)
	srv.RegisterFunctionHandler(fcWriteSingleRegister, nil)
	srv.RegisterFunctionHandler(fcWriteMultipleRegisters, nil)
	return srv
}

// readHoldingRegisters bounds FC3 to the table, then lets mbserver answer.
// mbserver alone would serve the whole 65536 register map.
func (s *Simulator) readHoldingRegisters(srv *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	data := frame.GetData()
	if len(data) < 4 {
		return []byte{}, &mbserver.IllegalDataValue
	}

	req := mbserver.BytesToUint16(data[:4])
	addr, qty := int(req[0]), int(req[1])

	if qty < 1 || qty > maxReadQuantity {
		return []byte{}, &mbserver.IllegalDataValue
	}
	if addr+qty > len(s.table) {
		s.log.Debug().Int("address", addr).Int("quantity", qty).Msg("illegal data address")
		return []byte{}, &mbserver.IllegalDataAddress
	}

	return mbserver.ReadHoldingRegisters(srv, frame)
}
