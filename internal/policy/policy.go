// Package policy holds the fixed role × resource × action authorization table.
package policy

import "github.com/noah-isme/mediahub-api/internal/models"

// Resource names a guarded collection.
type Resource string

const (
	ResourceUsers          Resource = "users"
	ResourceTeamMembers    Resource = "team_members"
	ResourceInstitutions   Resource = "institutions"
	ResourceEvents         Resource = "events"
	ResourceTasks          Resource = "tasks"
	ResourceEquipment      Resource = "equipment"
	ResourceAllocations    Resource = "equipment_allocations"
	ResourcePublicDelivery Resource = "public_deliveries"
	ResourceDashboard      Resource = "dashboard_stats"
	ResourceNotifications  Resource = "notifications"
)

// Action is an operation on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Scope describes how much of a resource a role may touch.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeOwn
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeOwn:
		return "own"
	case ScopeAll:
		return "all"
	default:
		return "none"
	}
}

// Context carries ownership for ScopeOwn decisions.
type Context struct {
	Subject string
	Owner   string
}

type grant struct {
	admin      Scope
	mediaHead  Scope
	teamMember Scope
}

var (
	adminOnly    = grant{admin: ScopeAll}
	managers     = grant{admin: ScopeAll, mediaHead: ScopeAll}
	everyone     = grant{admin: ScopeAll, mediaHead: ScopeAll, teamMember: ScopeAll}
	managersOwn  = grant{admin: ScopeAll, mediaHead: ScopeAll, teamMember: ScopeOwn}
	everyoneOwns = grant{admin: ScopeOwn, mediaHead: ScopeOwn, teamMember: ScopeOwn}
)

// Policy evaluates the authorization table. Anything not listed is denied.
type Policy struct {
	rules map[Resource]map[Action]grant
}

// New builds the authorization table.
func New() *Policy {
	return &Policy{rules: map[Resource]map[Action]grant{
		ResourceUsers: {
			ActionRead:   adminOnly,
			ActionCreate: adminOnly,
			ActionUpdate: adminOnly,
			ActionDelete: adminOnly,
		},
		ResourceTeamMembers: {
			ActionRead: managers,
		},
		ResourceInstitutions: {
			ActionRead:   managers,
			ActionCreate: adminOnly,
			ActionUpdate: adminOnly,
			ActionDelete: adminOnly,
		},
		ResourceEvents: {
			ActionRead:   everyone,
			ActionCreate: managers,
			ActionUpdate: managers,
			ActionDelete: managers,
		},
		ResourceTasks: {
			ActionRead:   managersOwn,
			ActionCreate: managers,
			ActionUpdate: managersOwn,
			ActionDelete: managers,
		},
		ResourceEquipment: {
			ActionRead:   everyone,
			ActionCreate: adminOnly,
			ActionUpdate: adminOnly,
			ActionDelete: adminOnly,
		},
		ResourceAllocations: {
			ActionRead:   everyone,
			ActionCreate: managers,
		},
		ResourcePublicDelivery: {
			ActionRead: everyone,
		},
		ResourceDashboard: {
			ActionRead: managers,
		},
		ResourceNotifications: {
			ActionRead:   everyoneOwns,
			ActionUpdate: everyoneOwns,
		},
	}}
}

// ScopeFor returns the scope role holds for action on resource.
func (p *Policy) ScopeFor(role models.UserRole, resource Resource, action Action) Scope {
	actions, ok := p.rules[resource]
	if !ok {
		return ScopeNone
	}
	g, ok := actions[action]
	if !ok {
		return ScopeNone
	}
	switch role {
	case models.RoleAdmin:
		return g.admin
	case models.RoleMediaHead:
		return g.mediaHead
	case models.RoleTeamMember:
		return g.teamMember
	default:
		return ScopeNone
	}
}

// CanAccess reports whether role may perform action on resource. ScopeOwn
// grants access only when the context owner is the subject.
func (p *Policy) CanAccess(role models.UserRole, resource Resource, action Action, ctx Context) bool {
	switch p.ScopeFor(role, resource, action) {
	case ScopeAll:
		return true
	case ScopeOwn:
		return ctx.Subject != "" && ctx.Owner == ctx.Subject
	default:
		return false
	}
}

// Permits reports whether role holds any scope for action on resource. It is
// the gate applied before ownership is known.
func (p *Policy) Permits(role models.UserRole, resource Resource, action Action) bool {
	return p.ScopeFor(role, resource, action) != ScopeNone
}
