package model

// Package model contains domain models shared across layers.
// Models carry no persistence tags or business logic.
