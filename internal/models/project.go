package models

import "time"

// Project represents a named development with exactly one active layout.
type Project struct {
	ID            string `gorm:"primaryKey;size:36"`
	Name          string `gorm:"uniqueIndex;size:255;not null"`
	LayoutRows    int    `gorm:"not null;default:0"`
	LayoutColumns int    `gorm:"not null;default:0"`
	// LayoutTemplate keeps the last applied template for regeneration,
	// stored as-is; the plots table remains the source of truth.
	LayoutTemplate JSON
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Plots          []Plot `gorm:"foreignKey:ProjectID"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}
