package models

import (
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"administrator role", RoleAdministrator, true},
		{"supervisor role", RoleSupervisor, true},
		{"technician role", RoleTechnician, true},
		{"viewer role", RoleViewer, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestRole_QualifiedForAssignment(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"administrator qualifies", RoleAdministrator, true},
		{"supervisor qualifies", RoleSupervisor, true},
		{"technician qualifies", RoleTechnician, true},
		{"viewer does not qualify", RoleViewer, false},
		{"unknown role does not qualify", "unassigned_role", false},
		{"empty role does not qualify", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.role.QualifiedForAssignment()
			if result != tt.expected {
				t.Errorf("QualifiedForAssignment(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	administrator := &User{Role: RoleAdministrator}
	supervisor := &User{Role: RoleSupervisor}
	technician := &User{Role: RoleTechnician}
	viewer := &User{Role: RoleViewer}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		// Administrator - should have all permissions
		{"administrator can delete user", administrator, "delete_user", true},
		{"administrator can manage users", administrator, "manage_users", true},
		{"administrator can view equipment", administrator, "view_equipment", true},
		{"administrator can create work order", administrator, "create_work_order", true},

		// Supervisor - can do most things except user management
		{"supervisor cannot delete user", supervisor, "delete_user", false},
		{"supervisor cannot manage users", supervisor, "manage_users", false},
		{"supervisor can create equipment", supervisor, "create_equipment", true},
		{"supervisor can create schedule", supervisor, "create_schedule", true},

		// Technician - operational tasks only
		{"technician can view equipment", technician, "view_equipment", true},
		{"technician can view schedules", technician, "view_schedules", true},
		{"technician can create work order", technician, "create_work_order", true},
		{"technician can update work order", technician, "update_work_order", true},
		{"technician can create schedule", technician, "create_schedule", true},
		{"technician can record execution", technician, "record_execution", true},
		{"technician cannot create equipment", technician, "create_equipment", false},
		{"technician cannot delete user", technician, "delete_user", false},
		{"technician cannot manage users", technician, "manage_users", false},

		// Viewer - read-only access
		{"viewer can view equipment", viewer, "view_equipment", true},
		{"viewer can view schedules", viewer, "view_schedules", true},
		{"viewer can view work orders", viewer, "view_work_orders", true},
		{"viewer can view calendar", viewer, "view_calendar", true},
		{"viewer cannot create work order", viewer, "create_work_order", false},
		{"viewer cannot record execution", viewer, "record_execution", false},
		{"viewer cannot delete user", viewer, "delete_user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("HasPermission(%s) = %v, want %v", tt.action, result, tt.expected)
			}
		})
	}
}

func TestWorkOrderStatus(t *testing.T) {
	for _, status := range []WorkOrderStatus{StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled, StatusDeferred, StatusAwaitingParts} {
		if !IsValidWorkOrderStatus(status) {
			t.Errorf("IsValidWorkOrderStatus(%s) = false, want true", status)
		}
	}
	if IsValidWorkOrderStatus("paused") {
		t.Error("IsValidWorkOrderStatus(paused) = true, want false")
	}

	if !StatusCompleted.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Error("completed and cancelled must be terminal")
	}
	for _, status := range []WorkOrderStatus{StatusOpen, StatusInProgress, StatusDeferred, StatusAwaitingParts} {
		if status.IsTerminal() {
			t.Errorf("%s must not be terminal", status)
		}
	}
}
