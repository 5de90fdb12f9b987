package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mediahub-api/internal/middleware"
	"github.com/noah-isme/mediahub-api/internal/policy"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Institutions  *InstitutionHandler
	Events        *EventHandler
	Tasks         *TaskHandler
	Equipment     *EquipmentHandler
	Deliverables  *DeliverableHandler
	Dashboard     *DashboardHandler
	Notifications *NotificationHandler
}

// RegisterRoutes mounts the API on group. auth guards every non-public route.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, auth gin.HandlerFunc, pol *policy.Policy) {
	allow := func(resource policy.Resource, action policy.Action) gin.HandlerFunc {
		return middleware.Authorize(pol, resource, action)
	}

	authGroup := group.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/me", auth, h.Auth.Me)
	authGroup.POST("/change-password", auth, h.Auth.ChangePassword)

	group.GET("/institutions", h.Institutions.List)
	group.GET("/deliveries/public", h.Deliverables.List)
	group.GET("/deliveries/public/export", h.Deliverables.Export)

	secured := group.Group("")
	secured.Use(auth)

	users := secured.Group("/users")
	users.GET("", allow(policy.ResourceUsers, policy.ActionRead), h.Users.List)
	users.POST("", allow(policy.ResourceUsers, policy.ActionCreate), h.Users.Create)
	users.GET("/:id", allow(policy.ResourceUsers, policy.ActionRead), h.Users.Get)
	users.PUT("/:id", allow(policy.ResourceUsers, policy.ActionUpdate), h.Users.Update)
	users.DELETE("/:id", allow(policy.ResourceUsers, policy.ActionDelete), h.Users.Delete)
	secured.GET("/team-members", allow(policy.ResourceTeamMembers, policy.ActionRead), h.Users.TeamMembers)

	institutions := secured.Group("/institutions")
	institutions.POST("", allow(policy.ResourceInstitutions, policy.ActionCreate), h.Institutions.Create)
	institutions.GET("/:id", allow(policy.ResourceInstitutions, policy.ActionRead), h.Institutions.Get)
	institutions.PUT("/:id", allow(policy.ResourceInstitutions, policy.ActionUpdate), h.Institutions.Update)
	institutions.DELETE("/:id", allow(policy.ResourceInstitutions, policy.ActionDelete), h.Institutions.Delete)

	events := secured.Group("/events")
	events.GET("", allow(policy.ResourceEvents, policy.ActionRead), h.Events.List)
	events.POST("", allow(policy.ResourceEvents, policy.ActionCreate), h.Events.Create)
	events.GET("/:id", allow(policy.ResourceEvents, policy.ActionRead), h.Events.Get)
	events.PUT("/:id", allow(policy.ResourceEvents, policy.ActionUpdate), h.Events.Update)
	events.DELETE("/:id", allow(policy.ResourceEvents, policy.ActionDelete), h.Events.Delete)

	tasks := secured.Group("/tasks")
	tasks.GET("", allow(policy.ResourceTasks, policy.ActionRead), h.Tasks.List)
	tasks.POST("", allow(policy.ResourceTasks, policy.ActionCreate), h.Tasks.Create)
	tasks.GET("/:id", allow(policy.ResourceTasks, policy.ActionRead), h.Tasks.Get)
	tasks.PUT("/:id", allow(policy.ResourceTasks, policy.ActionUpdate), h.Tasks.Update)
	tasks.DELETE("/:id", allow(policy.ResourceTasks, policy.ActionDelete), h.Tasks.Delete)

	equipment := secured.Group("/equipment")
	equipment.GET("", allow(policy.ResourceEquipment, policy.ActionRead), h.Equipment.List)
	equipment.POST("", allow(policy.ResourceEquipment, policy.ActionCreate), h.Equipment.Create)
	equipment.GET("/:id", allow(policy.ResourceEquipment, policy.ActionRead), h.Equipment.Get)
	equipment.PUT("/:id", allow(policy.ResourceEquipment, policy.ActionUpdate), h.Equipment.Update)
	equipment.DELETE("/:id", allow(policy.ResourceEquipment, policy.ActionDelete), h.Equipment.Delete)

	allocations := secured.Group("/equipment-allocations")
	allocations.GET("", allow(policy.ResourceAllocations, policy.ActionRead), h.Equipment.ListAllocations)
	allocations.POST("", allow(policy.ResourceAllocations, policy.ActionCreate), h.Equipment.Allocate)

	secured.GET("/dashboard/stats", allow(policy.ResourceDashboard, policy.ActionRead), h.Dashboard.Stats)

	notifications := secured.Group("/notifications")
	notifications.GET("", allow(policy.ResourceNotifications, policy.ActionRead), h.Notifications.List)
	notifications.GET("/unread-count", allow(policy.ResourceNotifications, policy.ActionRead), h.Notifications.UnreadCount)
	notifications.PUT("/mark-all-read", allow(policy.ResourceNotifications, policy.ActionUpdate), h.Notifications.MarkAllRead)
	notifications.PUT("/:id/read", allow(policy.ResourceNotifications, policy.ActionUpdate), h.Notifications.MarkRead)
}
