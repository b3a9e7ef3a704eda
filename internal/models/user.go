package models

import (
	"time"
)

type Position string

const (
	PositionResearcher Position = "researcher"
	PositionPartLead   Position = "part_lead"
	PositionTeamLead   Position = "team_lead"
	PositionDirector   Position = "director"
	PositionCenterHead Position = "center_head"
)

// PositionRank describes the authority derived from a position at
// registration time. RoleLevel 1 is the highest rank, 5 the lowest.
type PositionRank struct {
	RoleLevel     int
	AdminEligible bool
}

// PositionTable is the closed position enumeration. Positions outside this
// table are rejected at registration.
var PositionTable = map[Position]PositionRank{
	PositionResearcher: {RoleLevel: 5, AdminEligible: false},
	PositionPartLead:   {RoleLevel: 4, AdminEligible: true},
	PositionTeamLead:   {RoleLevel: 3, AdminEligible: true},
	PositionDirector:   {RoleLevel: 2, AdminEligible: true},
	PositionCenterHead: {RoleLevel: 1, AdminEligible: true},
}

type User struct {
	ID          string   `json:"id" gorm:"primaryKey;size:64"`
	Name        string   `json:"name" gorm:"not null;size:100"`
	Affiliation string   `json:"affiliation" gorm:"not null;size:200"`
	Position    Position `json:"position" gorm:"not null;size:32"`

	PasswordHash string `json:"-" gorm:"not null;size:255"`

	IsPending bool `json:"is_pending" gorm:"not null;default:true"`
	IsAdmin   bool `json:"is_admin" gorm:"not null;default:false"`
	RoleLevel int  `json:"role_level" gorm:"not null;default:5"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// DeletedUser is the tombstone kept after a rejection or admin deletion.
// Rows older than the retention window are removed by the purge job.
type DeletedUser struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	UserID      string   `json:"user_id" gorm:"not null;size:64;index"`
	Name        string   `json:"name" gorm:"size:100"`
	Affiliation string   `json:"affiliation" gorm:"size:200"`
	Position    Position `json:"position" gorm:"size:32"`
	RoleLevel   int      `json:"role_level"`

	Reason    string    `json:"reason" gorm:"size:500"`
	DeletedBy string    `json:"deleted_by" gorm:"size:64"`
	DeletedAt time.Time `json:"deleted_at" gorm:"index"`
}

func (DeletedUser) TableName() string {
	return "deleted_users"
}
