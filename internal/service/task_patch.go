package service

import "github.com/noah-isme/mediahub-api/internal/models"

var (
	allTaskFields = []models.TaskField{
		models.TaskFieldEventID,
		models.TaskFieldType,
		models.TaskFieldAssignedTo,
		models.TaskFieldDueDate,
		models.TaskFieldStatus,
		models.TaskFieldDeliverableLink,
		models.TaskFieldComments,
	}
	assigneeTaskFields = []models.TaskField{
		models.TaskFieldStatus,
		models.TaskFieldDeliverableLink,
		models.TaskFieldComments,
	}
)

// AllowedTaskFields returns the task fields role may change.
func AllowedTaskFields(role models.UserRole) []models.TaskField {
	switch role {
	case models.RoleAdmin, models.RoleMediaHead:
		return append([]models.TaskField(nil), allTaskFields...)
	case models.RoleTeamMember:
		return append([]models.TaskField(nil), assigneeTaskFields...)
	default:
		return nil
	}
}

// PresentTaskFields lists the fields carried by patch, in canonical order.
func PresentTaskFields(patch models.TaskPatch) []models.TaskField {
	var present []models.TaskField
	for _, f := range allTaskFields {
		if patchHas(patch, f) {
			present = append(present, f)
		}
	}
	return present
}

// FilterTaskPatch returns a copy of patch holding only the fields in allowed.
func FilterTaskPatch(patch models.TaskPatch, allowed []models.TaskField) models.TaskPatch {
	var filtered models.TaskPatch
	for _, f := range allowed {
		switch f {
		case models.TaskFieldEventID:
			filtered.EventID = patch.EventID
		case models.TaskFieldType:
			filtered.Type = patch.Type
		case models.TaskFieldAssignedTo:
			filtered.AssignedTo = patch.AssignedTo
		case models.TaskFieldDueDate:
			filtered.DueDate = patch.DueDate
		case models.TaskFieldStatus:
			filtered.Status = patch.Status
		case models.TaskFieldDeliverableLink:
			filtered.DeliverableLink = patch.DeliverableLink
		case models.TaskFieldComments:
			filtered.Comments = patch.Comments
		}
	}
	return filtered
}

// ApplyTaskPatch copies onto task the fields present in patch that are also
// in allowed. Everything else is dropped silently. The applied fields are
// returned in canonical order.
func ApplyTaskPatch(task *models.Task, patch models.TaskPatch, allowed []models.TaskField) []models.TaskField {
	permitted := make(map[models.TaskField]struct{}, len(allowed))
	for _, f := range allowed {
		permitted[f] = struct{}{}
	}

	applied := []models.TaskField{}
	for _, f := range PresentTaskFields(patch) {
		if _, ok := permitted[f]; !ok {
			continue
		}
		switch f {
		case models.TaskFieldEventID:
			task.EventID = *patch.EventID
		case models.TaskFieldType:
			task.Type = *patch.Type
		case models.TaskFieldAssignedTo:
			task.AssignedTo = *patch.AssignedTo
		case models.TaskFieldDueDate:
			task.DueDate = patch.DueDate.Time
		case models.TaskFieldStatus:
			task.Status = *patch.Status
		case models.TaskFieldDeliverableLink:
			task.DeliverableLink = patch.DeliverableLink
		case models.TaskFieldComments:
			task.Comments = patch.Comments
		}
		applied = append(applied, f)
	}
	return applied
}

func patchHas(patch models.TaskPatch, f models.TaskField) bool {
	switch f {
	case models.TaskFieldEventID:
		return patch.EventID != nil
	case models.TaskFieldType:
		return patch.Type != nil
	case models.TaskFieldAssignedTo:
		return patch.AssignedTo != nil
	case models.TaskFieldDueDate:
		return patch.DueDate.Set
	case models.TaskFieldStatus:
		return patch.Status != nil
	case models.TaskFieldDeliverableLink:
		return patch.DeliverableLink != nil
	case models.TaskFieldComments:
		return patch.Comments != nil
	default:
		return false
	}
}
