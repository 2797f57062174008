package token

// Stream is a finite, restartable view over a lexed token sequence.
// The lexer materializes tokens once; parsers may peek ahead or Reset
// without re-lexing.
type Stream struct {
	tokens []Token
	pos    int
}

func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Next returns the next token, sticking on EOF once exhausted.
func (s *Stream) Next() Token {
	if s.pos >= len(s.tokens) {
		return s.eof()
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

// Peek returns up to n upcoming tokens without consuming them.
func (s *Stream) Peek(n int) []Token {
	end := s.pos + n
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	return s.tokens[s.pos:end]
}

func (s *Stream) Reset() {
	s.pos = 0
}

func (s *Stream) Len() int {
	return len(s.tokens)
}

func (s *Stream) eof() Token {
	if len(s.tokens) > 0 {
		last := s.tokens[len(s.tokens)-1]
		if last.Type == EOF {
			return last
		}
	}
	return Token{Type: EOF, Lexeme: ""}
}
