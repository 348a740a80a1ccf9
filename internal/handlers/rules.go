package handlers

import (
	domain "github.com/cliniqon/clinic-scheduler/internal/domain/appointment"
	"github.com/cliniqon/clinic-scheduler/internal/models"
)

// applyRoleScope narrows a listing filter to what the actor may see:
// patients their own bookings, doctors their own schedule, staff the
// whole clinic.
func applyRoleScope(f *domain.ListFilter, actorID, clinicID uint, role string) {
	switch role {
	case models.RolePatient:
		f.PatientID = actorID
		f.ClinicID = 0
	case models.RoleDoctor:
		f.DoctorID = actorID
		f.ClinicID = clinicID
	default:
		f.ClinicID = clinicID
	}
}

// canManageAppointments reports whether the role may create, move or
// delete bookings on behalf of others.
func canManageAppointments(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleReceptionist, models.RoleDoctor:
		return true
	}
	return false
}
