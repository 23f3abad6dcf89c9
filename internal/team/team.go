// Package team expands a project's role-to-members mapping into the flat
// roster the board and reports display.
package team

import "github.com/getfive/trackboard/internal/model"

// Directory resolves member emails to display names. The store implements
// this; tests can use a map.
type Directory interface {
	LookupName(email string) (string, bool)
}

// DirectoryFunc adapts a function to the Directory interface
type DirectoryFunc func(email string) (string, bool)

// LookupName calls f
func (f DirectoryFunc) LookupName(email string) (string, bool) { return f(email) }

// Member is one roster entry. A person holding two roles appears once per
// role; entries are not deduplicated.
type Member struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Resolve flattens the project team in role order. Unknown emails fall back
// to the raw address as the display name; blanks are skipped.
func Resolve(p *model.Project, dir Directory) []Member {
	var roster []Member
	for _, rm := range p.TeamRoles() {
		for _, email := range rm.Members {
			if email == "" {
				continue
			}
			name := email
			if dir != nil {
				if n, ok := dir.LookupName(email); ok && n != "" {
					name = n
				}
			}
			roster = append(roster, Member{Role: rm.Role, Name: name, Email: email})
		}
	}
	return roster
}

// Emails returns the distinct addresses in a roster, preserving first
// encounter order.
func Emails(roster []Member) []string {
	seen := make(map[string]bool, len(roster))
	var out []string
	for _, m := range roster {
		if !seen[m.Email] {
			seen[m.Email] = true
			out = append(out, m.Email)
		}
	}
	return out
}
