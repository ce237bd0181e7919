package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soulconnect/clinic-console/internal/model"
)

const (
	msgPatientNotFound   = "Paciente no encontrado"
	msgDocumentConflict  = "Identificacion ya registrada"
	msgAppointmentAbsent = "Cita no encontrada"
)

func errorBody(message string) gin.H {
	return gin.H{"message": message}
}

func (s *Server) listPatients(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.ListPatients())
}

func (s *Server) getPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("id inválido"))
		return
	}
	patient, ok := s.store.GetPatient(id)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody(msgPatientNotFound))
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (s *Server) searchPatient(c *gin.Context) {
	document := c.Query("identificationNumber")
	patient, ok := s.store.FindPatientByDocument(document)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody(msgPatientNotFound))
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (s *Server) createPatient(c *gin.Context) {
	var payload model.Patient
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	created, ok := s.store.CreatePatient(payload)
	if !ok {
		c.JSON(http.StatusConflict, errorBody(msgDocumentConflict))
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *Server) updatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("id inválido"))
		return
	}
	var payload model.Patient
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	updated, found, unique := s.store.UpdatePatient(id, payload)
	if !found {
		c.JSON(http.StatusNotFound, errorBody(msgPatientNotFound))
		return
	}
	if !unique {
		c.JSON(http.StatusConflict, errorBody(msgDocumentConflict))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("id inválido"))
		return
	}
	s.store.DeletePatient(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) listAppointments(c *gin.Context) {
	var patientID *uuid.UUID
	if raw := c.Query("patientId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody("patientId inválido"))
			return
		}
		patientID = &id
	}
	c.JSON(http.StatusOK, s.store.ListAppointments(patientID))
}

func (s *Server) createAppointment(c *gin.Context) {
	var payload model.Appointment
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	created, ok := s.store.CreateAppointment(payload)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody(msgPatientNotFound))
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *Server) updateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("id inválido"))
		return
	}
	var payload model.Appointment
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	updated, ok := s.store.UpdateAppointment(id, payload)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody(msgAppointmentAbsent))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("id inválido"))
		return
	}
	s.store.DeleteAppointment(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) listAppointmentTypes(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.AppointmentTypes())
}

func (s *Server) serveLocations(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", locationsAsset)
}
