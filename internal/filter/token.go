package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Sign selects how a token's value is matched.
type Sign string

const (
	SignEqual   Sign = "="
	SignExclude Sign = "-"
	SignLess    Sign = "<"
	SignGreater Sign = ">"
)

var (
	// ErrUnknownAttribute is returned for a token naming an attribute outside
	// the filter vocabulary.
	ErrUnknownAttribute = errors.New("unknown filter attribute")

	// ErrEmptyValue is returned for a token without a value.
	ErrEmptyValue = errors.New("filter value is empty")

	// ErrInvalidValue is returned for a value that cannot survive a round trip
	// through the filter path, such as one containing a comma.
	ErrInvalidValue = errors.New("filter value may not contain a comma")
)

// Token is a single filter term as typed into the filter box or clicked in a
// table cell, e.g. "pilot:Foo Bar" or "ship:-Rifter".
type Token struct {
	Attribute string
	Value     string
	Sign      Sign
}

// signed reports whether attr accepts a sign prefix. Details and status are
// always exact.
func signed(attr string) bool {
	return attr != Details && attr != Status
}

// ParseToken parses the "attribute:value" text form. A leading -, < or > on
// the value selects the sign; = is accepted and means exact match.
func ParseToken(text string) (Token, error) {
	attr, value, ok := strings.Cut(text, ":")
	if !ok {
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, text)
	}
	return NewToken(attr, value)
}

// NewToken validates and normalizes a token built from its parts.
func NewToken(attr, value string) (Token, error) {
	attr = strings.ToLower(strings.TrimSpace(attr))
	if !IsAttribute(attr) {
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
	}
	value = strings.TrimSpace(value)
	t := Token{Attribute: attr, Sign: SignEqual}
	if signed(attr) && value != "" {
		switch s := Sign(value[:1]); s {
		case SignEqual, SignExclude, SignLess, SignGreater:
			t.Sign = s
			value = strings.TrimSpace(value[1:])
		}
	}
	if attr == Status {
		value = strings.ToLower(value)
	}
	if value == "" {
		return Token{}, ErrEmptyValue
	}
	if attr != Details && strings.Contains(value, ",") {
		return Token{}, ErrInvalidValue
	}
	t.Value = value
	return t, nil
}

// FilterValue is the value stored in a State: the sign prefixed onto the
// value for anything but an exact match.
func (t Token) FilterValue() string {
	if t.Sign == SignEqual || t.Sign == "" {
		return t.Value
	}
	return string(t.Sign) + t.Value
}

// String returns the text form accepted by ParseToken.
func (t Token) String() string {
	return t.Attribute + ":" + t.FilterValue()
}

// Apply adds the token's value to s.
func (s *State) Apply(t Token) {
	s.Add(t.Attribute, t.FilterValue())
}

// Unapply removes the token's value from s, dropping the attribute when it
// was the last value.
func (s *State) Unapply(t Token) bool {
	return s.Remove(t.Attribute, t.FilterValue())
}

// Tokens decomposes every filter value in s back into tokens, ordered by
// attribute name and then by first-seen value order.
func (s *State) Tokens() []Token {
	var tokens []Token
	for _, attr := range s.Names() {
		for _, v := range s.attrs[attr] {
			t := Token{Attribute: attr, Value: v, Sign: SignEqual}
			if signed(attr) && len(v) > 1 {
				switch sign := Sign(v[:1]); sign {
				case SignExclude, SignLess, SignGreater:
					t.Sign = sign
					t.Value = v[1:]
				}
			}
			tokens = append(tokens, t)
		}
	}
	return tokens
}
