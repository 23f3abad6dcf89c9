package team

import (
	"testing"

	"github.com/getfive/trackboard/internal/model"
	"github.com/stretchr/testify/assert"
)

func dir(names map[string]string) Directory {
	return DirectoryFunc(func(email string) (string, bool) {
		n, ok := names[email]
		return n, ok
	})
}

func TestResolveOrderAndRoles(t *testing.T) {
	p := &model.Project{
		RM:  []string{"rm@x.com"},
		PC:  []string{"a@x.com", "b@x.com"},
		AM:  []string{"am@x.com"},
		Sec: []string{},
	}
	roster := Resolve(p, dir(map[string]string{
		"rm@x.com": "Rhea",
		"a@x.com":  "Asha",
	}))

	assert.Equal(t, []Member{
		{Role: "RM", Name: "Rhea", Email: "rm@x.com"},
		{Role: "PC", Name: "Asha", Email: "a@x.com"},
		{Role: "PC", Name: "b@x.com", Email: "b@x.com"},
		{Role: "AM", Name: "am@x.com", Email: "am@x.com"},
	}, roster)
}

func TestResolveDuplicateRolesKept(t *testing.T) {
	// The same person in two role fields appears twice, once per role
	p := &model.Project{
		RM: []string{"dual@x.com"},
		PC: []string{"dual@x.com"},
	}
	roster := Resolve(p, nil)

	assert.Len(t, roster, 2)
	assert.Equal(t, "RM", roster[0].Role)
	assert.Equal(t, "PC", roster[1].Role)
}

func TestResolveSkipsBlanks(t *testing.T) {
	p := &model.Project{PC: []string{"", "a@x.com", ""}}
	roster := Resolve(p, nil)
	assert.Len(t, roster, 1)
}

func TestResolveAdditionalMembers(t *testing.T) {
	p := &model.Project{
		Additional1: []string{"x@x.com"},
		Additional3: []string{"y@x.com"},
	}
	roster := Resolve(p, nil)

	assert.Len(t, roster, 2)
	for _, m := range roster {
		assert.Equal(t, model.RoleMember, m.Role)
	}
}

func TestEmailsDeduplicates(t *testing.T) {
	roster := []Member{
		{Role: "RM", Email: "dual@x.com"},
		{Role: "PC", Email: "dual@x.com"},
		{Role: "AM", Email: "am@x.com"},
	}
	assert.Equal(t, []string{"dual@x.com", "am@x.com"}, Emails(roster))
}
