package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (mongo, memory) inside this directory.

import "errors"

// ErrUnsupportedOperator is returned by stores that cannot evaluate a query operator.
var ErrUnsupportedOperator = errors.New("unsupported query operator")
