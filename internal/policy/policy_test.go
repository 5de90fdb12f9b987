package policy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/mediahub-api/internal/models"
)

var roles = []models.UserRole{models.RoleAdmin, models.RoleMediaHead, models.RoleTeamMember}

func TestScopeTable(t *testing.T) {
	n, o, a := ScopeNone, ScopeOwn, ScopeAll
	cases := []struct {
		resource Resource
		actions  []Action
		want     [3]Scope
	}{
		{ResourceUsers, []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}, [3]Scope{a, n, n}},
		{ResourceTeamMembers, []Action{ActionRead}, [3]Scope{a, a, n}},
		{ResourceInstitutions, []Action{ActionRead}, [3]Scope{a, a, n}},
		{ResourceInstitutions, []Action{ActionCreate, ActionUpdate, ActionDelete}, [3]Scope{a, n, n}},
		{ResourceEvents, []Action{ActionRead}, [3]Scope{a, a, a}},
		{ResourceEvents, []Action{ActionCreate, ActionUpdate, ActionDelete}, [3]Scope{a, a, n}},
		{ResourceTasks, []Action{ActionRead}, [3]Scope{a, a, o}},
		{ResourceTasks, []Action{ActionCreate, ActionDelete}, [3]Scope{a, a, n}},
		{ResourceTasks, []Action{ActionUpdate}, [3]Scope{a, a, o}},
		{ResourceEquipment, []Action{ActionRead}, [3]Scope{a, a, a}},
		{ResourceEquipment, []Action{ActionCreate, ActionUpdate, ActionDelete}, [3]Scope{a, n, n}},
		{ResourceAllocations, []Action{ActionRead}, [3]Scope{a, a, a}},
		{ResourceAllocations, []Action{ActionCreate}, [3]Scope{a, a, n}},
		{ResourcePublicDelivery, []Action{ActionRead}, [3]Scope{a, a, a}},
		{ResourceDashboard, []Action{ActionRead}, [3]Scope{a, a, n}},
		{ResourceNotifications, []Action{ActionRead, ActionUpdate}, [3]Scope{o, o, o}},
	}

	p := New()
	for _, tc := range cases {
		for _, action := range tc.actions {
			for i, role := range roles {
				name := fmt.Sprintf("%s/%s/%s", tc.resource, action, role)
				assert.Equal(t, tc.want[i], p.ScopeFor(role, tc.resource, action), name)
			}
		}
	}
}

func TestUnlistedCellsDenied(t *testing.T) {
	p := New()
	cases := []struct {
		resource Resource
		action   Action
	}{
		{ResourceTeamMembers, ActionCreate},
		{ResourceAllocations, ActionUpdate},
		{ResourceAllocations, ActionDelete},
		{ResourcePublicDelivery, ActionCreate},
		{ResourceDashboard, ActionUpdate},
		{ResourceNotifications, ActionCreate},
		{ResourceNotifications, ActionDelete},
		{Resource("unknown"), ActionRead},
	}
	for _, tc := range cases {
		for _, role := range roles {
			assert.False(t, p.CanAccess(role, tc.resource, tc.action, Context{Subject: "u1", Owner: "u1"}), "%s/%s/%s", tc.resource, tc.action, role)
		}
	}
	assert.Equal(t, ScopeNone, p.ScopeFor(models.UserRole("guest"), ResourceEvents, ActionRead))
}

func TestCanAccessOwnership(t *testing.T) {
	p := New()

	assert.True(t, p.CanAccess(models.RoleTeamMember, ResourceTasks, ActionUpdate, Context{Subject: "tm-1", Owner: "tm-1"}))
	assert.False(t, p.CanAccess(models.RoleTeamMember, ResourceTasks, ActionUpdate, Context{Subject: "tm-1", Owner: "tm-2"}))
	assert.False(t, p.CanAccess(models.RoleTeamMember, ResourceTasks, ActionRead, Context{}))
	assert.True(t, p.CanAccess(models.RoleMediaHead, ResourceTasks, ActionUpdate, Context{Subject: "mh-1", Owner: "tm-2"}))

	assert.True(t, p.CanAccess(models.RoleAdmin, ResourceNotifications, ActionRead, Context{Subject: "a", Owner: "a"}))
	assert.False(t, p.CanAccess(models.RoleAdmin, ResourceNotifications, ActionRead, Context{Subject: "a", Owner: "b"}))

	assert.True(t, p.Permits(models.RoleTeamMember, ResourceTasks, ActionRead))
	assert.False(t, p.Permits(models.RoleTeamMember, ResourceTasks, ActionCreate))
	assert.Equal(t, "own", ScopeOwn.String())
}
