package compiler

import (
	"fmt"
	"unicode"
)

// Kind classifies a token.
type Kind int

const (
	KindEOF       Kind = iota
	KindIndent         // whitespace at the start of a line
	KindSpace          // run of two or more blanks between tokens
	KindNewline        // end of line
	KindArrow          // ->
	KindColon          // block opener
	KindBracketed      // one symbol in parentheses, e.g. (1)
	KindWord           // identifiers, symbols and keywords
)

func (k Kind) String() string {
	switch k {
	case KindIndent:
		return "indent"
	case KindSpace:
		return "space"
	case KindNewline:
		return "newline"
	case KindArrow:
		return "arrow"
	case KindColon:
		return "colon"
	case KindBracketed:
		return "bracketed"
	case KindWord:
		return "word"
	default:
		return "eof"
	}
}

// tabWidth is the indentation width a tab counts for.
const tabWidth = 4

// Token is one lexeme. Width is set for indentation and spacing tokens.
type Token struct {
	Kind  Kind
	Text  string
	Line  int
	Width int
}

// Value is the text a token stands for as a header or operand.
// Bracketed tokens yield the symbol inside the parentheses.
func (t Token) Value() string {
	if t.Kind == KindBracketed {
		return t.Text[1 : len(t.Text)-1]
	}
	return t.Text
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

// isWordRune reports whether r can appear in a word. Hyphens are handled separately:
// they join two word runes but never start or end a word.
func isWordRune(r rune) bool {
	if unicode.IsSpace(r) || unicode.IsControl(r) {
		return false
	}
	switch r {
	case ':', '(', ')', '{', '}', '-':
		return false
	}
	return true
}

type lexer struct {
	src       []rune
	pos       int
	line      int
	lineStart bool
	tokens    []Token
}

// Tokenize splits comment-free, macro-expanded text into tokens.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: []rune(src), line: 1, lineStart: true}
	for l.pos < len(l.src) {
		if err := l.next(); err != nil {
			return nil, err
		}
	}
	return l.tokens, nil
}

func (l *lexer) emit(kind Kind, text string, width int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Line: l.line, Width: width})
	if kind != KindNewline {
		l.lineStart = false
	}
}

func (l *lexer) at(i int) rune {
	if i < len(l.src) {
		return l.src[i]
	}
	return 0
}

func (l *lexer) next() error {
	r := l.src[l.pos]
	switch {
	case r == '\r':
		l.pos++
	case r == '\n':
		l.emit(KindNewline, "\n", 0)
		l.pos++
		l.line++
		l.lineStart = true
	case r == ' ' || r == '\t':
		l.blanks()
	case r == '-' && l.at(l.pos+1) == '>':
		l.emit(KindArrow, "->", 0)
		l.pos += 2
	case r == ':':
		l.emit(KindColon, ":", 0)
		l.pos++
	case r == '(':
		inner := l.at(l.pos + 1)
		if l.at(l.pos+2) != ')' || inner == 0 || inner == ')' || unicode.IsSpace(inner) {
			return syntaxErrorf(l.line, "unexpected '('")
		}
		l.emit(KindBracketed, string(l.src[l.pos:l.pos+3]), 0)
		l.pos += 3
	case r == '{':
		end := l.pos
		for end < len(l.src) && l.src[end] != '}' && l.src[end] != '\n' {
			end++
		}
		return syntaxErrorf(l.line, "unexpanded macro call %s}", string(l.src[l.pos:end]))
	case r == ')' || r == '}':
		return syntaxErrorf(l.line, "unexpected %q", r)
	case unicode.IsSpace(r):
		l.pos++
	default:
		l.word()
	}
	return nil
}

func (l *lexer) blanks() {
	start := l.pos
	width := 0
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		if l.src[l.pos] == '\t' {
			width += tabWidth
		} else {
			width++
		}
		l.pos++
	}
	text := string(l.src[start:l.pos])

	switch {
	case l.lineStart:
		l.emit(KindIndent, text, width)
	case width >= 2 && l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r':
		l.emit(KindSpace, text, width)
	}
}

func (l *lexer) word() {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	} else {
		for l.pos < len(l.src) {
			r := l.src[l.pos]
			if isWordRune(r) {
				l.pos++
				continue
			}
			if next := l.at(l.pos + 1); r == '-' && next != '>' && isWordRune(next) {
				l.pos++
				continue
			}
			break
		}
	}
	l.emit(KindWord, string(l.src[start:l.pos]), 0)
}

// Normalize rewrites keyword aliases in one left-to-right pass:
// "else" becomes "read *", and "right"/"left" collapse to "r"/"l".
func Normalize(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != KindWord {
			out = append(out, t)
			continue
		}
		switch t.Text {
		case "else":
			read := t
			read.Text = "read"
			star := t
			star.Text = "*"
			out = append(out, read, star)
		case "right", "left":
			t.Text = t.Text[:1]
			out = append(out, t)
		default:
			out = append(out, t)
		}
	}
	return out
}
