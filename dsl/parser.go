// Package dsl parses chart files:
//
//	chart "工程" {
//	  rect 50mm 50mm
//	  arrow "→" ratio 0.5
//	  label "いいい" size 8mm
//	  "ううううう"
//	  labels: ["え", "お"]
//	}
//
// The parser only builds the syntax tree. Interpreting commands is left to the
// settings package.
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	chartLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Comment", Pattern: `(?://|#)[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\.\d+|\d+)(?:pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][,;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	kindNames   = invertSymbols(chartLexer.Symbols())
	newlineType = mustTokenType("Newline")
	lbraceType  = mustTokenType("LBrace")
	rbraceType  = mustTokenType("RBrace")
	punctType   = mustTokenType("Punct")
	stringType  = mustTokenType("String")

	chartParser = participle.MustBuild[Document](
		participle.Lexer(chartLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// Token kinds reported by Arg.Kind.
const (
	KindNumber = "Number"
	KindString = "String"
	KindIdent  = "Ident"
)

// Document is the root of a chart file.
type Document struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Title *StringLiteral `parser:"Newline* 'chart' @String?"`
	Body  *Block         `parser:"@@ Newline*"`
}

// Block is a braced list of statements separated by newlines or semicolons.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block. A bare string is shorthand for `label "…"`.
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment is `key: value`.
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command is a keyword with loose arguments, eg `rect 50mm 50mm`.
// Only `meta` takes a block.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Arg         `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral is a bare string statement.
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value is the right-hand side of an assignment.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Word   *string        `parser:"| @Ident"`
	Array  *ArrayValue    `parser:"| @@"`
}

// ArrayValue is `[a, b]`; newlines also separate items.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Arg is one command argument: a number with optional unit, a string or a word.
type Arg struct {
	Kind string         `json:"kind"`
	Text string         `json:"text"` // unquoted for strings
	Raw  string         `json:"raw"`
	Pos  lexer.Position `json:"-"`
}

func (a *Arg) IsNumber() bool { return a != nil && a.Kind == KindNumber }
func (a *Arg) IsString() bool { return a != nil && a.Kind == KindString }

// Parse implements participle.Parseable. Arguments run to the end of the line,
// a semicolon or a brace.
func (a *Arg) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if endOfArgs(tok) {
		return participle.NextMatch
	}
	tok = lex.Next()
	text := tok.Value
	if tok.Type == stringType {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", tok.Pos, err)
		}
		text = unquoted
	}
	kind, ok := kindNames[tok.Type]
	if !ok {
		kind = fmt.Sprintf("#%d", tok.Type)
	}
	*a = Arg{Kind: kind, Text: text, Raw: tok.Value, Pos: tok.Pos}
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a chart file. name is used in error positions and may be empty.
func Parse(name string, r io.Reader) (*Document, error) {
	return chartParser.Parse(name, r)
}

// ParseString parses a chart file held in memory.
func ParseString(input string) (*Document, error) {
	return chartParser.ParseString("", input)
}

func endOfArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineType, lbraceType, rbraceType:
		return true
	case punctType:
		return tok.Value == ";"
	}
	return false
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := chartLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
