// # internal/engine/parser/parser.go
package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"i18nscan/internal/core/errors"
	"i18nscan/internal/engine/syntax"
	"i18nscan/internal/shared/observability"
	"i18nscan/internal/shared/util"
)

// Parser turns JS/TS/TSX source into syntax.File trees for the rule engine.
type Parser struct {
	loader         *GrammarLoader
	pools          map[string]*ParserPool
	extensions     map[string]string
	testFileSuffix []string
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		pools:      make(map[string]*ParserPool),
		extensions: make(map[string]string),
	}
	for lang, spec := range loader.LanguageRegistry() {
		if !spec.Enabled {
			continue
		}
		if grammar, ok := loader.Language(lang); ok {
			p.pools[lang] = NewParserPool(lang, grammar)
		}
		for _, ext := range spec.Extensions {
			p.extensions[strings.ToLower(ext)] = lang
		}
		p.testFileSuffix = append(p.testFileSuffix, spec.TestFileSuffixes...)
	}
	sort.Strings(p.testFileSuffix)
	return p
}

func (p *Parser) ParseFile(path string, content []byte) (*syntax.File, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported language"), errors.CtxPath, path)
	}

	pool := p.pools[lang]
	if pool == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	start := time.Now()
	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeParseFailed, "parse failed"), errors.CtxPath, path)
	}
	defer tree.Close()

	file := &syntax.File{
		Path:     path,
		Language: lang,
		Source:   content,
		Root:     buildTree(tree.RootNode(), content),
	}
	observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	return file, nil
}

func (p *Parser) detectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return p.extensions[ext]
}

func (p *Parser) IsSupportedPath(filePath string) bool {
	return p.GetLanguage(filePath) != ""
}

func (p *Parser) GetLanguage(path string) string {
	return p.detectLanguage(path)
}

func (p *Parser) IsTestFile(path string) bool {
	slashed := filepath.ToSlash(path)
	if strings.Contains(slashed, "/__tests__/") || strings.HasPrefix(slashed, "__tests__/") {
		return true
	}
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range p.testFileSuffix {
		if strings.HasSuffix(base, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

func (p *Parser) SupportedExtensions() []string {
	return util.SortedStringKeys(p.extensions)
}
