package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// Ownership is enforced here: queries for stores, products, and
// recommendations always scope by the owning user's ID so a merchant can
// never read another merchant's rows.
