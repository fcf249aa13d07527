// Package authz holds the access decision functions for projects and tasks.
//
// Every function is pure: it decides from the actor, the already-loaded
// resource, and explicitly supplied facts (membership, task count). Nothing
// here touches the database, so the full decision table is testable without
// fixtures. Admin short-circuits ownership and membership checks but not
// structural guards such as the project task-count rule.
package authz

import (
	"github.com/acalderon/project-management-api/internal/models"
)

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID    uint64
	Admin bool
}

// CanViewProject allows admins, the owner, and explicit members.
func CanViewProject(actor Actor, project *models.Project, isMember bool) bool {
	if actor.Admin {
		return true
	}
	return actor.ID == project.OwnerID || isMember
}

// CanCreateProject allows any authenticated actor.
func CanCreateProject(actor Actor) bool {
	return true
}

// CanUpdateProject allows admins and the owner. Membership alone does not
// grant project updates.
func CanUpdateProject(actor Actor, project *models.Project) bool {
	if actor.Admin {
		return true
	}
	return actor.ID == project.OwnerID
}

// CanDeleteProject allows admins and the owner, but only while the project
// has no tasks. The task-count guard applies to admins too.
func CanDeleteProject(actor Actor, project *models.Project, taskCount int64) bool {
	if !actor.Admin && actor.ID != project.OwnerID {
		return false
	}
	return taskCount == 0
}

// CanCreateTask allows admins, the project owner, and project members.
func CanCreateTask(actor Actor, project *models.Project, isMember bool) bool {
	if actor.Admin {
		return true
	}
	return actor.ID == project.OwnerID || isMember
}

// CanViewTask extends project visibility to the task's assignee.
func CanViewTask(actor Actor, task *models.Task, project *models.Project, isMember bool) bool {
	if CanViewProject(actor, project, isMember) {
		return true
	}
	return task.AssignedTo != nil && *task.AssignedTo == actor.ID
}

// CanUpdateTask allows admins, the project owner, project members, and the
// task's assignee.
func CanUpdateTask(actor Actor, task *models.Task, project *models.Project, isMember bool) bool {
	return CanViewTask(actor, task, project, isMember)
}

// CanDeleteTask allows admins only.
func CanDeleteTask(actor Actor) bool {
	return actor.Admin
}
