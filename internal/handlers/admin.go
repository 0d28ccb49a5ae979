// internal/handlers/admin.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/lussekatt/internal/app"
	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

type AdminHandler struct {
	service *app.Service
}

func NewAdminHandler(service *app.Service) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	admin, err := h.service.AdminLogin(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, admin)
}

func (h *AdminHandler) HandleAdminName(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "admin_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name, err := h.service.Store.GetAdminName(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (h *AdminHandler) HandleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.Student
		Password string `json:"password" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Student.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if req.Password == "" {
		http.Error(w, "password is required", http.StatusBadRequest)
		return
	}

	hash, err := app.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	req.Student.PasswordHash = hash

	if err := h.service.Store.CreateStudent(&req.Student); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, req.Student)
}

func (h *AdminHandler) HandleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.Store.ListStudents()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"students": students})
}

func (h *AdminHandler) HandleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "student_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := h.service.Store.GetStudent(id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		models.Student
		Password string `json:"password"`
	}
	req.Student = *existing
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Student.ID = id

	if req.Password != "" {
		hash, err := app.HashPassword(req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		req.Student.PasswordHash = hash
	}

	if err := req.Student.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Store.UpdateStudent(&req.Student); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req.Student)
}

func (h *AdminHandler) HandleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "student_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Store.DeleteStudent(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) HandleStudentIDByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name query parameter is required", http.StatusBadRequest)
		return
	}
	id, err := h.service.Store.GetStudentIDByName(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"student_id": id})
}

func (h *AdminHandler) HandleCreateClass(w http.ResponseWriter, r *http.Request) {
	var class models.Class
	if err := json.NewDecoder(r.Body).Decode(&class); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := class.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Store.CreateClass(&class); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, class)
}

func (h *AdminHandler) HandleListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.service.Store.ListClasses()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"classes": classes})
}

func (h *AdminHandler) HandleUpdateClass(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "class_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var class models.Class
	if err := json.NewDecoder(r.Body).Decode(&class); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	class.ID = id

	if err := class.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Store.UpdateClass(&class); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, class)
}

func (h *AdminHandler) HandleDeleteClass(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "class_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Store.DeleteClass(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) HandleClassIDByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name query parameter is required", http.StatusBadRequest)
		return
	}
	id, err := h.service.Store.GetClassIDByName(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"class_id": id})
}

func (h *AdminHandler) HandleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	quiz := models.Quiz{AttemptLimit: 3}
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := quiz.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Store.CreateQuiz(&quiz); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *AdminHandler) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.Store.ListQuizzes()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes})
}

func (h *AdminHandler) HandleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "quiz_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := h.service.Store.GetQuiz(id)
	if err != nil {
		writeError(w, err)
		return
	}

	quiz := *existing
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	quiz.ID = id

	if err := quiz.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Store.UpdateQuiz(&quiz); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *AdminHandler) HandleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "quiz_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Store.DeleteQuiz(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.service.Store.GetQuiz(quizID); err != nil {
		writeError(w, err)
		return
	}

	var question models.Question
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	question.QuizID = quizID

	if err := question.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Store.CreateQuestion(&question); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (h *AdminHandler) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	questions, err := h.service.Store.ListQuestions(quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (h *AdminHandler) HandleListAllQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Store.ListAllQuestions()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (h *AdminHandler) HandleCreateOption(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r, "question_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var option models.Option
	if err := json.NewDecoder(r.Body).Decode(&option); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	option.QuestionID = questionID

	if err := option.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Store.CreateOption(&option); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, option)
}

func (h *AdminHandler) HandleListOptions(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r, "question_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	options, err := h.service.Store.ListOptions(questionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": options})
}

// HandleFullQuiz returns the quiz with questions, options and
// correctness flags. Admin view only.
func (h *AdminHandler) HandleFullQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quiz_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quiz, err := h.service.Store.GetQuiz(quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	questions, err := h.service.Store.QuizQuestions(quizID, true)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"quiz":      quiz,
		"questions": questions,
	})
}

func (h *AdminHandler) HandleAssignToStudent(w http.ResponseWriter, r *http.Request) {
	var a models.StudentAssignment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := a.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Store.CreateStudentAssignment(&a); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AdminHandler) HandleListStudentAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.Store.ListStudentAssignments()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

func (h *AdminHandler) HandleDeleteStudentAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "assignment_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Store.DeleteStudentAssignment(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) HandleAssignToClass(w http.ResponseWriter, r *http.Request) {
	var a models.ClassAssignment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := a.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Store.CreateClassAssignment(&a); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AdminHandler) HandleListClassAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.Store.ListClassAssignments()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

func (h *AdminHandler) HandleDeleteClassAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "assignment_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Store.DeleteClassAssignment(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) HandleAllResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Engine.AllResults()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *AdminHandler) HandleNotifyStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID int64  `json:"student_id"`
		Message   string `json:"message"`
		CreatedBy *int64 `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	report, err := h.service.Dispatcher.NotifyStudent(r.Context(), req.StudentID, req.Message, req.CreatedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *AdminHandler) HandleNotifyClass(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClassID   int64  `json:"class_id"`
		Message   string `json:"message"`
		CreatedBy *int64 `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	report, err := h.service.Dispatcher.NotifyClass(r.Context(), req.ClassID, req.Message, req.CreatedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *AdminHandler) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	student, err := h.service.Store.ListStudentNotifications()
	if err != nil {
		writeError(w, err)
		return
	}
	class, err := h.service.Store.ListClassNotifications()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"student_notifications": student,
		"class_notifications":   class,
	})
}

func (h *AdminHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.Store.ListAllMessages()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// HandleUploadMaterial takes a multipart form: title, description,
// class_id, uploaded_by and the file itself. The file reference comes
// back from whichever backend is configured.
func (h *AdminHandler) HandleUploadMaterial(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	material := models.StudyMaterial{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		CreatedAt:   time.Now().Unix(),
	}
	classID, err := strconv.ParseInt(r.FormValue("class_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid class_id", http.StatusBadRequest)
		return
	}
	material.ClassID = classID
	if v := r.FormValue("uploaded_by"); v != "" {
		adminID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid uploaded_by", http.StatusBadRequest)
			return
		}
		material.UploadedBy = &adminID
	}

	if err := material.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.service.Store.GetClass(material.ClassID); err != nil {
		writeError(w, err)
		return
	}

	ref, err := h.service.Files.Save(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	material.FileRef = ref

	if err := h.service.Store.CreateStudyMaterial(&material); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, material)
}

func (h *AdminHandler) HandleListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.service.Store.ListAllMaterials()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"materials": materials})
}

func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/login", timed("/api/admin/login", h.HandleLogin))
	mux.HandleFunc("GET /api/admin/admins/{admin_id}/name",
		timed("/api/admin/admins/{admin_id}/name", h.HandleAdminName))

	mux.HandleFunc("POST /api/admin/students", timed("/api/admin/students", h.HandleCreateStudent))
	mux.HandleFunc("GET /api/admin/students", timed("/api/admin/students", h.HandleListStudents))
	mux.HandleFunc("GET /api/admin/students/lookup",
		timed("/api/admin/students/lookup", h.HandleStudentIDByName))
	mux.HandleFunc("PUT /api/admin/students/{student_id}",
		timed("/api/admin/students/{student_id}", h.HandleUpdateStudent))
	mux.HandleFunc("DELETE /api/admin/students/{student_id}",
		timed("/api/admin/students/{student_id}", h.HandleDeleteStudent))

	mux.HandleFunc("POST /api/admin/classes", timed("/api/admin/classes", h.HandleCreateClass))
	mux.HandleFunc("GET /api/admin/classes", timed("/api/admin/classes", h.HandleListClasses))
	mux.HandleFunc("GET /api/admin/classes/lookup",
		timed("/api/admin/classes/lookup", h.HandleClassIDByName))
	mux.HandleFunc("PUT /api/admin/classes/{class_id}",
		timed("/api/admin/classes/{class_id}", h.HandleUpdateClass))
	mux.HandleFunc("DELETE /api/admin/classes/{class_id}",
		timed("/api/admin/classes/{class_id}", h.HandleDeleteClass))

	mux.HandleFunc("POST /api/admin/quizzes", timed("/api/admin/quizzes", h.HandleCreateQuiz))
	mux.HandleFunc("GET /api/admin/quizzes", timed("/api/admin/quizzes", h.HandleListQuizzes))
	mux.HandleFunc("PUT /api/admin/quizzes/{quiz_id}",
		timed("/api/admin/quizzes/{quiz_id}", h.HandleUpdateQuiz))
	mux.HandleFunc("DELETE /api/admin/quizzes/{quiz_id}",
		timed("/api/admin/quizzes/{quiz_id}", h.HandleDeleteQuiz))
	mux.HandleFunc("GET /api/admin/quizzes/{quiz_id}/full",
		timed("/api/admin/quizzes/{quiz_id}/full", h.HandleFullQuiz))

	mux.HandleFunc("POST /api/admin/quizzes/{quiz_id}/questions",
		timed("/api/admin/quizzes/{quiz_id}/questions", h.HandleCreateQuestion))
	mux.HandleFunc("GET /api/admin/quizzes/{quiz_id}/questions",
		timed("/api/admin/quizzes/{quiz_id}/questions", h.HandleListQuestions))
	mux.HandleFunc("GET /api/admin/questions", timed("/api/admin/questions", h.HandleListAllQuestions))
	mux.HandleFunc("POST /api/admin/questions/{question_id}/options",
		timed("/api/admin/questions/{question_id}/options", h.HandleCreateOption))
	mux.HandleFunc("GET /api/admin/questions/{question_id}/options",
		timed("/api/admin/questions/{question_id}/options", h.HandleListOptions))

	mux.HandleFunc("POST /api/admin/assignments/student",
		timed("/api/admin/assignments/student", h.HandleAssignToStudent))
	mux.HandleFunc("GET /api/admin/assignments/student",
		timed("/api/admin/assignments/student", h.HandleListStudentAssignments))
	mux.HandleFunc("DELETE /api/admin/assignments/student/{assignment_id}",
		timed("/api/admin/assignments/student/{assignment_id}", h.HandleDeleteStudentAssignment))
	mux.HandleFunc("POST /api/admin/assignments/class",
		timed("/api/admin/assignments/class", h.HandleAssignToClass))
	mux.HandleFunc("GET /api/admin/assignments/class",
		timed("/api/admin/assignments/class", h.HandleListClassAssignments))
	mux.HandleFunc("DELETE /api/admin/assignments/class/{assignment_id}",
		timed("/api/admin/assignments/class/{assignment_id}", h.HandleDeleteClassAssignment))

	mux.HandleFunc("GET /api/admin/results", timed("/api/admin/results", h.HandleAllResults))

	mux.HandleFunc("POST /api/admin/notifications/student",
		timed("/api/admin/notifications/student", h.HandleNotifyStudent))
	mux.HandleFunc("POST /api/admin/notifications/class",
		timed("/api/admin/notifications/class", h.HandleNotifyClass))
	mux.HandleFunc("GET /api/admin/notifications",
		timed("/api/admin/notifications", h.HandleListNotifications))

	mux.HandleFunc("GET /api/admin/messages", timed("/api/admin/messages", h.HandleListMessages))

	mux.HandleFunc("POST /api/admin/materials", timed("/api/admin/materials", h.HandleUploadMaterial))
	mux.HandleFunc("GET /api/admin/materials", timed("/api/admin/materials", h.HandleListMaterials))
}
