// # internal/engine/parser/pool.go
package parser

import (
	"sync"
	"sync/atomic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool recycles tree-sitter parsers for one JS/TS dialect
// ("javascript", "typescript" or "tsx"). Parser holds one pool per dialect and
// ScanAll workers share them, so a worker never builds a parser per file.
//
//	sp := pool.Get()
//	defer pool.Put(sp)
//	tree := sp.Parse(source, nil)
//
// Safe for concurrent use.
type ParserPool struct {
	dialect string
	lang    *sitter.Language
	pool    sync.Pool
	leased  atomic.Int64
}

func NewParserPool(dialect string, lang *sitter.Language) *ParserPool {
	p := &ParserPool{dialect: dialect, lang: lang}
	p.pool.New = func() any {
		sp := sitter.NewParser()
		sp.SetLanguage(lang)
		return sp
	}
	return p
}

// Dialect names the grammar the pool's parsers are configured for.
func (p *ParserPool) Dialect() string {
	return p.dialect
}

// Get leases a parser set to the pool's dialect. The language is set again
// because a caller may have Reset the parser before returning it.
func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	sp.SetLanguage(p.lang)
	p.leased.Add(1)
	return sp
}

// Put resets sp and returns it to the pool. Callers must not use sp afterwards.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	p.leased.Add(-1)
	sp.Reset()
	p.pool.Put(sp)
}

// Leased returns the number of parsers currently out of the pool.
func (p *ParserPool) Leased() int {
	return int(p.leased.Load())
}
