package webapi

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/clifford-labs/stabsim/qc/stab/ir"
)

// program is a parsed instruction tree paired with the source text it
// was parsed from, so Get can echo back exactly what was uploaded.
type program struct {
	source string
	instrs []ir.Instr
}

// ProgramStore holds uploaded stabilizer-circuit programs keyed by a
// generated id.
type ProgramStore interface {
	Save(source string, instrs []ir.Instr) string
	Get(id string) (source string, instrs []ir.Instr, err error)
}

type memStore struct {
	mu       sync.RWMutex
	programs map[string]program
}

// NewProgramStore returns an in-memory ProgramStore.
func NewProgramStore() ProgramStore {
	return &memStore{programs: make(map[string]program)}
}

func (s *memStore) Save(source string, instrs []ir.Instr) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.programs[id] = program{source: source, instrs: instrs}
	s.mu.Unlock()
	return id
}

func (s *memStore) Get(id string) (string, []ir.Instr, error) {
	s.mu.RLock()
	p, ok := s.programs[id]
	s.mu.RUnlock()
	if !ok {
		return "", nil, fmt.Errorf("webapi: program %s not found", id)
	}
	return p.source, p.instrs, nil
}
