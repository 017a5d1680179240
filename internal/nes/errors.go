package nes

import "errors"

var (
	ErrInvalidCart       = errors.New("invalid cartridge")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)
