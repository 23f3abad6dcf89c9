package model

import "time"

// Project statuses
const (
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
)

// Team role keys, in the order they are displayed and resolved
const (
	RoleRM     = "RM"
	RoleFDD    = "FDD"
	RoleSec    = "Sec"
	RolePC     = "PC"
	RoleAM     = "AM"
	RoleMember = "Member"
)

// Project is a container of tracker tasks with a role-to-members mapping.
// The current week is never stored; it is always derived from StartDate.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// Role mappings. Each holds zero or more member emails.
	RM          []string `json:"rm,omitempty"`
	FDD         []string `json:"fdd,omitempty"`
	Sec         []string `json:"sec,omitempty"`
	PC          []string `json:"pc,omitempty"`
	AM          []string `json:"am,omitempty"`
	Additional1 []string `json:"additional_1,omitempty"`
	Additional2 []string `json:"additional_2,omitempty"`
	Additional3 []string `json:"additional_3,omitempty"`
}

// RoleMapping pairs a role label with its members
type RoleMapping struct {
	Role    string
	Members []string
}

// TeamRoles returns the project's role mappings in display order. The three
// additional slots all carry the generic Member label.
func (p *Project) TeamRoles() []RoleMapping {
	return []RoleMapping{
		{Role: RoleRM, Members: p.RM},
		{Role: RoleFDD, Members: p.FDD},
		{Role: RoleSec, Members: p.Sec},
		{Role: RolePC, Members: p.PC},
		{Role: RoleAM, Members: p.AM},
		{Role: RoleMember, Members: p.Additional1},
		{Role: RoleMember, Members: p.Additional2},
		{Role: RoleMember, Members: p.Additional3},
	}
}

// MembersForRole returns the members mapped to a template role key
func (p *Project) MembersForRole(role string) []string {
	switch role {
	case RoleRM:
		return p.RM
	case RoleFDD:
		return p.FDD
	case RoleSec:
		return p.Sec
	case RolePC:
		return p.PC
	case RoleAM:
		return p.AM
	default:
		return nil
	}
}
