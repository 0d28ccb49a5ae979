// internal/handlers/student.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/lussekatt/internal/app"
	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

type StudentHandler struct {
	service *app.Service
}

func NewStudentHandler(service *app.Service) *StudentHandler {
	return &StudentHandler{
		service: service,
	}
}

// authorize resolves the bearer session and checks it belongs to the
// student named in the path. A valid session for a different student
// is forbidden, not unauthorized.
func (h *StudentHandler) authorize(w http.ResponseWriter, r *http.Request) (int64, bool) {
	studentID, err := pathID(r, "student_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}

	session, err := h.service.RequireSession(r)
	if err != nil {
		writeError(w, err)
		return 0, false
	}
	if session.StudentID != studentID {
		http.Error(w, "session does not match student", http.StatusForbidden)
		return 0, false
	}

	return studentID, true
}

func (h *StudentHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      session.Token,
		"student_id": session.StudentID,
	})
}

func (h *StudentHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.RequireSession(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Logout(session.Token); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *StudentHandler) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	quizzes, err := h.service.Engine.VisibleQuizzes(studentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes})
}

func (h *StudentHandler) HandleQuizQuestions(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	questions, err := h.service.Engine.QuestionsForStudent(studentID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (h *StudentHandler) HandleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Answers map[int64]int64 `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Engine.Submit(studentID, quizID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *StudentHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	results, err := h.service.Engine.ResultsForStudent(studentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *StudentHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	notifications, err := h.service.Store.ListNotificationsForStudent(studentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

func (h *StudentHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var msg models.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	msg.SenderID = studentID

	if err := msg.Validate(); err != nil {
		writeError(w, err)
		return
	}
	msg.CreatedAt = time.Now().Unix()

	if err := h.service.Store.CreateMessage(&msg); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *StudentHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	messages, err := h.service.Store.ListMessagesByStudent(studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(messages) == 0 {
		http.Error(w, "no messages found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// HandleMaterials lists the study materials of the student's class. A
// student without a class has nothing to see.
func (h *StudentHandler) HandleMaterials(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	student, err := h.service.Store.GetStudent(studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	if student.ClassID == nil {
		http.Error(w, "no study materials found", http.StatusNotFound)
		return
	}

	materials, err := h.service.Store.ListMaterialsByClass(*student.ClassID)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(materials) == 0 {
		http.Error(w, "no study materials found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"materials": materials})
}

func (h *StudentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/student/login", timed("/api/student/login", h.HandleLogin))
	mux.HandleFunc("POST /api/student/logout", timed("/api/student/logout", h.HandleLogout))
	mux.HandleFunc("GET /api/student/{student_id}/quizzes",
		timed("/api/student/{student_id}/quizzes", h.HandleListQuizzes))
	mux.HandleFunc("GET /api/student/{student_id}/quizzes/{quiz_id}/questions",
		timed("/api/student/{student_id}/quizzes/{quiz_id}/questions", h.HandleQuizQuestions))
	mux.HandleFunc("POST /api/student/{student_id}/quizzes/{quiz_id}/submit",
		timed("/api/student/{student_id}/quizzes/{quiz_id}/submit", h.HandleSubmitQuiz))
	mux.HandleFunc("GET /api/student/{student_id}/results",
		timed("/api/student/{student_id}/results", h.HandleResults))
	mux.HandleFunc("GET /api/student/{student_id}/notifications",
		timed("/api/student/{student_id}/notifications", h.HandleNotifications))
	mux.HandleFunc("POST /api/student/{student_id}/messages",
		timed("/api/student/{student_id}/messages", h.HandleSendMessage))
	mux.HandleFunc("GET /api/student/{student_id}/messages",
		timed("/api/student/{student_id}/messages", h.HandleListMessages))
	mux.HandleFunc("GET /api/student/{student_id}/materials",
		timed("/api/student/{student_id}/materials", h.HandleMaterials))
}
