package domain

import "time"

// Token is cached ERC-20 metadata keyed by token address.
// Created lazily on first reference by any order, immutable thereafter.
type Token struct {
	ID        string // EIP-55 checksummed address
	Name      string
	Symbol    string
	Decimals  uint8
	CreatedAt time.Time
}
