package handler

import (
	"net/http"

	"github.com/gdugdh24/techmate-hunt/internal/usecase/question"
	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionUseCase *question.QuestionUseCase
}

func NewQuestionHandler(questionUseCase *question.QuestionUseCase) *QuestionHandler {
	return &QuestionHandler{
		questionUseCase: questionUseCase,
	}
}

// ListQuestions handles GET /admin/questions
// @Summary List the question bank
// @Tags questions
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Question
// @Router /admin/questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionUseCase.ListQuestions(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list questions")
		return
	}

	c.JSON(http.StatusOK, questions)
}

// AddQuestion handles POST /admin/questions
// @Summary Add a question
// @Description Hints are generated when none are given and a generator is configured
// @Tags questions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body question.AddQuestionRequest true "Question data"
// @Success 201 {object} domain.Question
// @Failure 400 {object} ErrorResponse
// @Router /admin/questions [post]
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	var req question.AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "question and answer are required",
		})
		return
	}

	q, err := h.questionUseCase.AddQuestion(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to add question")
		return
	}

	c.JSON(http.StatusCreated, q)
}

// DeleteQuestion handles DELETE /admin/questions/:id
// @Summary Delete a question
// @Tags questions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	if err := h.questionUseCase.DeleteQuestion(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "failed to delete question")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "question deleted",
	})
}
