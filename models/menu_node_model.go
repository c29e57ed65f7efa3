package models

import (
	"time"

	"admin-app/types"
)

const (
	MenuStatusActive = "ACTIVE"
	MenuStatusDelete = "DELETE"
)

// MenuNode is a nested-set row: Lft/Rgt are the boundary integers, Level is
// the depth with roots at 1. ParentID and MenuOrder are the authoritative
// side channel used by RebuildTree when boundaries need repair.
type MenuNode struct {
	ID        types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name      string            `json:"name"`
	Path      string            `json:"path"`
	Icon      string            `json:"icon"`
	Type      string            `json:"type"`
	Lft       int               `json:"lft" gorm:"column:lft;index"`
	Rgt       int               `json:"rgt" gorm:"column:rgt;index"`
	Level     int               `json:"level"`
	ParentID  types.SnowflakeID `json:"parent_id" gorm:"index"`
	MenuOrder int               `json:"menu_order" gorm:"column:menu_order"`
	Status    string            `json:"status" gorm:"default:ACTIVE"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	CreatedBy int
	UpdatedBy int
}

func (MenuNode) TableName() string {
	return "menu_nodes"
}
