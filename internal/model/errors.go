package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTime токен времени не соответствует формату "9h", "9h30" или "9:30"
	ErrInvalidTime = errors.New("invalid time token")
	// ErrInvalidRange диапазон с концом раньше начала или с лишними частями
	ErrInvalidRange = errors.New("invalid time range")
)

// ParseError ошибка разбора текста ячейки доступности
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
