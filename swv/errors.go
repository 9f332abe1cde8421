package swv

import "errors"

var (
	// ErrParserConfigNil indicates that a nil ParserConfig was provided.
	ErrParserConfigNil = errors.New("parser config is nil")

	// ErrSinkNil indicates that a nil run sink was provided.
	ErrSinkNil = errors.New("run sink is nil")
)
