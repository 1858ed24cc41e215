package compiler

import (
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// blockIndent is the extra depth given to blocks opened by the arrow shorthand.
const blockIndent = 4

const (
	keywordRead  = "read"
	keywordWrite = "write"
	keywordMove  = "move"
	keywordGoto  = "goto"
)

// block is an open state or read block.
// indent is the depth of the header line; the block ends at the first line
// that starts at that depth or shallower.
type block struct {
	value  string
	indent int
}

// parseContext carries the parser state through the single pass.
type parseContext struct {
	tokens    []Token
	pos       int
	indent    int
	lineStart bool
	state     *block
	read      *block
	builder   *Builder
}

// Parse walks the token stream once, tracking nested state and read blocks,
// and feeds every write/move/goto directive to the builder.
func Parse(tokens []Token, builder *Builder) error {
	p := &parseContext{
		tokens:    significant(tokens),
		lineStart: true,
		builder:   builder,
	}
	return p.run()
}

// significant drops spacing between tokens; only line-leading indentation matters.
func significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != KindSpace {
			out = append(out, t)
		}
	}
	return out
}

func (p *parseContext) peek(offset int) Token {
	if i := p.pos + offset; i < len(p.tokens) {
		return p.tokens[i]
	}
	return Token{Kind: KindEOF}
}

func (p *parseContext) run() error {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok.Kind {
		case KindNewline:
			p.indent = 0
			p.lineStart = true
			p.pos++
			continue
		case KindIndent:
			p.indent = tok.Width
			p.pos++
			continue
		}

		if p.lineStart {
			p.leaveBlocks()
			p.lineStart = false
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
	return nil
}

// leaveBlocks closes the blocks whose header sits at or deeper than the current line.
// Leaving the state block always leaves its read block too.
func (p *parseContext) leaveBlocks() {
	if p.state != nil && p.indent <= p.state.indent {
		p.state, p.read = nil, nil
		return
	}
	if p.read != nil && p.indent <= p.read.indent {
		p.read = nil
	}
}

func (p *parseContext) openState(name string, indent int) {
	p.state = &block{value: strings.TrimSpace(name), indent: indent}
	p.read = nil
}

func (p *parseContext) openRead(symbol string, indent int) {
	p.read = &block{value: strings.TrimSpace(symbol), indent: indent}
}

func isOperand(t Token) bool {
	return t.Kind == KindWord || t.Kind == KindBracketed
}

func (p *parseContext) statement() error {
	tok := p.peek(0)
	next := p.peek(1)

	switch tok.Kind {
	case KindArrow:
		return syntaxErrorf(tok.Line, "'->' without a state or symbol before it")
	case KindColon:
		return syntaxErrorf(tok.Line, "':' without a header before it")
	}

	// header:
	if next.Kind == KindColon {
		if p.state == nil {
			p.openState(tok.Value(), p.indent)
		} else {
			p.openRead(tok.Value(), p.indent)
		}
		p.pos += 2
		return nil
	}

	// state(symbol) -> and state(symbol):
	if p.state == nil && tok.Kind == KindWord && next.Kind == KindBracketed {
		if after := p.peek(2).Kind; after == KindArrow || after == KindColon {
			p.openState(tok.Text, p.indent)
			p.openRead(next.Value(), p.indent+blockIndent)
			p.pos += 3
			return nil
		}
	}

	// state -> and symbol ->
	if next.Kind == KindArrow {
		if p.state == nil {
			p.openState(tok.Value(), p.indent)
			p.openRead(domain.Wildcard, p.indent+blockIndent)
		} else {
			p.openRead(tok.Value(), p.indent)
		}
		p.pos += 2
		return nil
	}

	if p.state == nil {
		return syntaxErrorf(tok.Line, "unexpected %q outside a state block", tok.Text)
	}

	if tok.Kind == KindWord && tok.Text == keywordRead {
		if !isOperand(next) {
			return syntaxErrorf(tok.Line, "read expects a symbol")
		}
		p.openRead(next.Value(), p.indent)
		p.pos += 2
		if k := p.peek(0).Kind; k == KindColon || k == KindArrow {
			p.pos++
		}
		return nil
	}

	if p.read == nil {
		return syntaxErrorf(tok.Line, "%q in state %s outside a read block", tok.Text, p.state.value)
	}

	return p.directive(tok, next)
}

func (p *parseContext) directive(tok, next Token) error {
	state, cell := p.state.value, p.read.value

	if tok.Kind == KindWord {
		switch tok.Text {
		case keywordWrite:
			if !isOperand(next) {
				return syntaxErrorf(tok.Line, "write expects a symbol")
			}
			p.builder.Write(state, cell, next.Value(), tok.Line)
			p.pos += 2
			return nil
		case keywordMove:
			if !isOperand(next) {
				return syntaxErrorf(tok.Line, "move expects a direction")
			}
			p.builder.Move(state, cell, next.Value(), tok.Line)
			p.pos += 2
			return nil
		case keywordGoto:
			if !isOperand(next) {
				return syntaxErrorf(tok.Line, "goto expects a state")
			}
			p.pos++
			return nil
		}
	}

	p.builder.Goto(state, cell, destination(tok.Value()), tok.Line)
	p.pos++
	return nil
}

// destination resolves a goto target; a trailing '!' names a halting state.
func destination(name string) string {
	if base, ok := strings.CutSuffix(name, "!"); ok {
		return domain.HaltingState(base)
	}
	return name
}
