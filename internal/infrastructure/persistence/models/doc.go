// Package models contains the GORM persistence models for the settlement
// engine. Models are kept separate from domain entities so schema concerns
// (column types, indexes) never leak into the domain layer.
package models
