// Package parser builds an astree.Sequence from Ivan source text via
// hand-written recursive descent, one function per grammar
// production, mirroring the grammar documented alongside this system.
package parser

import (
	"fmt"

	"github.com/impcheck/impcheck/internal/astree"
	"github.com/impcheck/impcheck/internal/lexer"
)

// Error is a parse/structural error; per the error-handling design,
// any Error aborts analysis.
type Error struct {
	Pos lexer.Pos
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

type parser struct {
	toks []lexer.Token
	pos  int
}

// Parse lexes and parses src, returning the root Sequence.
func Parse(src string) (*astree.Sequence, error) {
	toks, err := lexer.All(src)
	if err != nil {
		lerr := err.(*lexer.Error)
		return nil, &Error{Pos: lerr.Pos, Msg: lerr.Msg}
	}
	p := &parser{toks: toks}
	seq, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lexer.EOF {
		return nil, p.errorf("unexpected trailing token %q", p.cur().Text)
	}
	return seq, nil
}

func (p *parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *parser) pos_() astree.Pos  { t := p.cur(); return astree.Pos{Line: t.Pos.Line, Col: t.Pos.Col} }

func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{Pos: p.cur().Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, p.errorf("expected %v, found %q", k, p.cur().Text)
	}
	return p.advance(), nil
}

// parseProgram accepts a prefix run of `assume` blocks (concatenated
// into a single PreCon, per the parser contract that all precondition
// blocks precede every other statement), followed by ordinary
// statements.
func (p *parser) parseProgram() (*astree.Sequence, error) {
	start := p.pos_()
	seq := &astree.Sequence{Pos: start}

	var preConds []astree.Cond
	sawNonPre := false
	for p.cur().Kind == lexer.KwAssume {
		if sawNonPre {
			return nil, p.errorf("assume block must precede all other statements")
		}
		conds, err := p.parseAssume()
		if err != nil {
			return nil, err
		}
		preConds = append(preConds, conds...)
	}
	if len(preConds) > 0 {
		seq.Stmts = append(seq.Stmts, &astree.PreCon{Pos: start, Conds: preConds})
	}

	for p.cur().Kind != lexer.EOF && p.cur().Kind != lexer.RBrace {
		if p.cur().Kind == lexer.KwAssume {
			return nil, p.errorf("assume block must precede all other statements")
		}
		sawNonPre = true
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		seq.Stmts = append(seq.Stmts, stmt)
	}
	return seq, nil
}

func (p *parser) parseAssume() ([]astree.Cond, error) {
	if _, err := p.expect(lexer.KwAssume); err != nil {
		return nil, err
	}
	var conds []astree.Cond
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	conds = append(conds, cond)
	for p.cur().Kind == lexer.AndAnd {
		p.advance()
		c, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	if _, err := p.expect(lexer.Semi); err != nil {
		return nil, err
	}
	return conds, nil
}

func (p *parser) parseStmt() (astree.Stmt, error) {
	switch p.cur().Kind {
	case lexer.KwInt:
		return p.parseDecl()
	case lexer.IDENT:
		return p.parseAssign()
	case lexer.KwIf:
		return p.parseIfElse()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwAssert:
		return p.parseAssert()
	default:
		return nil, p.errorf("unexpected token %q at start of statement", p.cur().Text)
	}
}

func (p *parser) parseDecl() (astree.Stmt, error) {
	pos := p.pos_()
	p.advance() // 'int'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semi); err != nil {
		return nil, err
	}
	return &astree.Declaration{Pos: pos, Name: name.Text}, nil
}

func (p *parser) parseAssign() (astree.Stmt, error) {
	pos := p.pos_()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semi); err != nil {
		return nil, err
	}
	return &astree.Assignment{Pos: pos, Name: name.Text, Expr: expr}, nil
}

func (p *parser) parseBlock() (*astree.Sequence, error) {
	pos := p.pos_()
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	seq := &astree.Sequence{Pos: pos}
	for p.cur().Kind != lexer.RBrace {
		if p.cur().Kind == lexer.EOF {
			return nil, p.errorf("unterminated block")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		seq.Stmts = append(seq.Stmts, stmt)
	}
	p.advance() // '}'
	return seq, nil
}

func (p *parser) parseIfElse() (astree.Stmt, error) {
	pos := p.pos_()
	p.advance() // 'if'
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els *astree.Sequence
	if p.cur().Kind == lexer.KwElse {
		p.advance()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &astree.IfElse{Pos: pos, Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) parseWhile() (astree.Stmt, error) {
	pos := p.pos_()
	p.advance() // 'while'
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &astree.While{Pos: pos, Cond: cond, Body: body}, nil
}

func (p *parser) parseAssert() (astree.Stmt, error) {
	pos := p.pos_()
	p.advance() // 'assert'
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semi); err != nil {
		return nil, err
	}
	return &astree.PostCon{Pos: pos, Cond: cond}, nil
}

func (p *parser) parseCond() (astree.Cond, error) {
	pos := p.pos_()
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	op, err := p.parseCmpOp()
	if err != nil {
		return nil, err
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &astree.Comparison{Pos: pos, Op: op, Left: left, Right: right}, nil
}

func (p *parser) parseCmpOp() (astree.CmpOp, error) {
	switch p.cur().Kind {
	case lexer.Lt:
		p.advance()
		return astree.Lt, nil
	case lexer.Le:
		p.advance()
		return astree.Le, nil
	case lexer.Gt:
		p.advance()
		return astree.Gt, nil
	case lexer.Ge:
		p.advance()
		return astree.Ge, nil
	case lexer.EqEq:
		p.advance()
		return astree.Eq, nil
	case lexer.NotEq:
		p.advance()
		return astree.Ne, nil
	default:
		return 0, p.errorf("expected comparison operator, found %q", p.cur().Text)
	}
}

func (p *parser) parseExpr() (astree.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Plus || p.cur().Kind == lexer.Minus {
		pos := p.pos_()
		op := astree.Add
		if p.cur().Kind == lexer.Minus {
			op = astree.Sub
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &astree.ArithExpr{Pos: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (astree.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Star || p.cur().Kind == lexer.Slash {
		pos := p.pos_()
		op := astree.Mul
		if p.cur().Kind == lexer.Slash {
			op = astree.Div
		}
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &astree.ArithExpr{Pos: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseFactor() (astree.Expr, error) {
	pos := p.pos_()
	switch p.cur().Kind {
	case lexer.INT:
		tok := p.advance()
		return &astree.IntLit{Pos: pos, Value: tok.Int}, nil
	case lexer.IDENT:
		tok := p.advance()
		return &astree.VarRef{Pos: pos, Name: tok.Text}, nil
	case lexer.Minus:
		p.advance()
		inner, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &astree.ArithExpr{Pos: pos, Op: astree.Sub, Left: &astree.IntLit{Pos: pos, Value: 0}, Right: inner}, nil
	case lexer.LParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errorf("expected expression, found %q", p.cur().Text)
	}
}
