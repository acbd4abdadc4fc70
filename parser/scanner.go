package parser

import (
	"mox/diag"
	"mox/token"
	"mox/value"
	"strconv"
	"unicode/utf8"
)

const EOF_CHAR = '\x00'

type Scanner struct {
	source  string
	start   int
	current int
	line    int

	diags *diag.Collector
}

func MakeScanner(source string, diags *diag.Collector) Scanner {
	return Scanner{source: source, start: 0, current: 0, line: 1, diags: diags}
}

// Scans the whole source, the last token is always END_OF_FILE.
func (s *Scanner) ScanTokens() []token.Token {
	tokens := make([]token.Token, 0, len(s.source)/4+1)

	for {
		tok := s.NextToken()
		tokens = append(tokens, tok)

		if tok.Kind == token.END_OF_FILE {
			return tokens
		}
	}
}

// Returns the next valid token. Malformed input is reported and skipped.
func (s *Scanner) NextToken() token.Token {
	for {
		if tok, ok := s.scanToken(); ok {
			return tok
		}
	}
}

func (s *Scanner) scanToken() (token.Token, bool) {
	if !s.skipBlanksAndComments() {
		return token.Token{}, false
	}

	s.start = s.current

	if s.isAtEnd() {
		return s.makeTok(token.END_OF_FILE), true
	}

	c := s.advance()

	switch c {
	case '(':
		return s.makeTok(token.LEFT_PAREN), true
	case ')':
		return s.makeTok(token.RIGHT_PAREN), true
	case '{':
		return s.makeTok(token.LEFT_BRACE), true
	case '}':
		return s.makeTok(token.RIGHT_BRACE), true

	case '-':
		return s.makeTok(token.MINUS), true
	case '+':
		return s.makeTok(token.PLUS), true
	case '*':
		return s.makeTok(token.STAR), true
	case '/':
		return s.makeTok(token.SLASH), true

	case ',':
		return s.makeTok(token.COMMA), true
	case '.':
		return s.makeTok(token.DOT), true
	case ';':
		return s.makeTok(token.SEMICOLON), true
	case ':':
		return s.makeTok(token.COLON), true
	case '?':
		return s.makeTok(token.QUESTION), true

	case '!':
		return s.makeTok(s.either('=', token.BANG_EQUAL, token.BANG)), true
	case '=':
		return s.makeTok(s.either('=', token.EQUAL_EQUAL, token.EQUAL)), true
	case '<':
		return s.makeTok(s.either('=', token.LESS_EQUAL, token.LESS)), true
	case '>':
		return s.makeTok(s.either('=', token.GREATER_EQUAL, token.GREATER)), true

	case '"':
		return s.do_string()
	}

	if isDigit(c) {
		return s.do_number(), true
	}

	if isIdentFirstChar(c) {
		return s.do_identifier(), true
	}

	// Skip the whole character, a multi-byte one is reported once.
	_, size := utf8.DecodeRuneInString(s.source[s.start:])
	s.current = s.start + size

	s.diags.Report(s.line, "Unexpected character.")
	return token.Token{}, false
}

func (s *Scanner) do_string() (token.Token, bool) {
	for !s.isAtEnd() {
		if s.advance() == '"' {
			tok := s.makeTok(token.STRING)
			tok.Literal = value.String(s.source[s.start+1 : s.current-1])
			return tok, true
		}
	}

	s.diags.Report(s.line, "Unterminated string.")
	return token.Token{}, false
}

func (s *Scanner) do_number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	// A fractional part needs at least one digit after the '.'.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // Eat the '.'

		for isDigit(s.peek()) {
			s.advance()
		}
	}

	tok := s.makeTok(token.NUMBER)
	// Cannot fail: the lexeme is digits with an optional fraction.
	val, _ := strconv.ParseFloat(tok.Lexeme, 64)
	tok.Literal = value.Number(val)

	return tok
}

func (s *Scanner) do_identifier() token.Token {
	for isIdentChar(s.peek()) {
		s.advance()
	}

	tok := s.makeTok(token.IDENTIFIER)
	if k, ok := token.Keywords[tok.Lexeme]; ok {
		tok.Kind = k
	}

	return tok
}

// Utility methods
// -----------------------------------------------

// Skips whitespace, line comments and block comments.
// Returns false if an unterminated block comment was found.
func (s *Scanner) skipBlanksAndComments() bool {
	for !s.isAtEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()

		case '/':
			switch s.peekNext() {
			case '/':
				for !s.isAtEnd() && s.peek() != '\n' {
					s.advance()
				}
			case '*':
				if !s.skipBlockComment() {
					return false
				}
			default:
				return true
			}

		default:
			return true
		}
	}

	return true
}

func (s *Scanner) skipBlockComment() bool {
	s.advance() // '/'
	s.advance() // '*'

	for !s.isAtEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.advance()
			s.advance()
			return true
		}
		s.advance()
	}

	s.diags.Report(s.line, "Unterminated block comment.")
	return false
}

func (s *Scanner) makeTok(kind token.TokenKind) token.Token {
	return token.Token{Lexeme: s.source[s.start:s.current], Kind: kind, Line: s.line}
}

// Scanner character matching and processing methods
// --------------------------------------------------------
func (s *Scanner) either(expected byte, matched, otherwise token.TokenKind) token.TokenKind {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if !s.isAtEnd() && s.peek() == expected {
		s.advance()
		return true
	} else {
		return false
	}
}

func (s *Scanner) peekNext() byte {
	if s.current+1 < len(s.source) {
		return s.source[s.current+1]
	} else {
		return EOF_CHAR
	}
}

func (s *Scanner) peek() byte {
	if !s.isAtEnd() {
		return s.source[s.current]
	} else {
		return EOF_CHAR
	}
}

func (s *Scanner) advance() byte {
	if s.isAtEnd() {
		return EOF_CHAR
	}

	ret := s.source[s.current]
	s.current++
	if ret == '\n' {
		s.line++
	}

	return ret
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// Character class functions
// --------------------------------------------------------
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentChar(c byte) bool {
	return isIdentFirstChar(c) || isDigit(c)
}

func isIdentFirstChar(c byte) bool {
	return c == '_' ||
		'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z'
}
