package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fees-ledger/internal/dto"
	"github.com/noah-isme/sma-fees-ledger/internal/service"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
	"github.com/noah-isme/sma-fees-ledger/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	ledger *service.LedgerStore
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(ledger *service.LedgerStore) *StudentHandler {
	return &StudentHandler{ledger: ledger}
}

// List godoc
// @Summary List students with class name and balance
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.ledger.StudentRows())
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, ok := h.ledger.Student(id)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "student not found"))
		return
	}
	className := dto.MissingClassLabel
	if class, found := h.ledger.Class(student.ClassID); found {
		className = class.Name
	}
	response.JSON(c, http.StatusOK, dto.StudentRow{
		Student:   student,
		ClassName: className,
		Balance:   h.ledger.StudentBalance(id),
	})
}

// Balance godoc
// @Summary Student balance
// @Description Billed minus paid. Unknown ids report zero.
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/balance [get]
func (h *StudentHandler) Balance(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.StudentBalance{StudentID: id, Balance: h.ledger.StudentBalance(id)})
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.ledger.AddStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.StudentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.ledger.UpdateStudent(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student with all bills and payments
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ledger.DeleteStudent(c.Request.Context(), id)
	response.NoContent(c)
}
