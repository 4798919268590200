package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"academy-manager/internal/billing"
	"academy-manager/internal/config"
	"academy-manager/internal/domain/ads"
	"academy-manager/internal/domain/alerts"
	"academy-manager/internal/domain/assistant"
	"academy-manager/internal/domain/documents"
	"academy-manager/internal/domain/finance"
	"academy-manager/internal/domain/instructor"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/settings"
	"academy-manager/internal/domain/stats"
	"academy-manager/internal/domain/training"
	"academy-manager/internal/handlers"
	"academy-manager/internal/httpjson"
	"academy-manager/internal/middleware"
	"academy-manager/internal/spreadsheet"
)

type RouterDeps struct {
	Cfg            config.Config
	Sessions       *middleware.Sessions
	TrainingSvc    *training.Service
	ParticipantSvc *participant.Service
	InstructorSvc  *instructor.Service
	SettingsSvc    *settings.Service
	FinanceSvc     *finance.Service
	AdsSvc         *ads.Service
	StatsSvc       *stats.Service
	AlertsSvc      *alerts.Service
	AssistantSvc   *assistant.Service
	DocumentsSvc   *documents.Service
	BillingSvc     *billing.Service
	Uploads        *handlers.Uploads
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.WriteJSON(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// ===== Auth (no token yet) =====
	r.Post("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			httpjson.Fail(w, 400, "invalid json")
			return
		}
		token, au, err := d.Sessions.Issue(in.Email, in.Password)
		if err != nil {
			httpjson.Fail(w, 401, "invalid credentials")
			return
		}
		httpjson.WriteJSON(w, 200, map[string]any{
			"token": token,
			"user":  map[string]any{"id": au.ID, "name": au.Name, "email": au.Email, "role": au.Role},
		})
	})

	// ===== Stripe webhook (no auth, Stripe signs the payload) =====
	if d.BillingSvc != nil {
		r.Post("/v1/billing/webhook", d.BillingSvc.HandleWebhook)
	}

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.Sessions))

		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			httpjson.WriteJSON(w, 200, map[string]any{"id": au.ID, "name": au.Name, "email": au.Email, "role": au.Role})
		})

		pr.Post("/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			d.Sessions.Revoke(strings.TrimSpace(token))
			httpjson.WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Trainings =====
		pr.Get("/v1/trainings", func(w http.ResponseWriter, r *http.Request) {
			all := d.TrainingSvc.All()
			switch r.URL.Query().Get("view") {
			case "active":
				httpjson.WriteJSON(w, 200, training.ActiveView(all))
			case "completed":
				httpjson.WriteJSON(w, 200, training.CompletedView(all))
			case "planned":
				httpjson.WriteJSON(w, 200, training.PlannedView(all))
			case "", "all":
				httpjson.WriteJSON(w, 200, all)
			default:
				httpjson.Fail(w, 400, "unknown view")
			}
		})

		pr.Post("/v1/trainings", func(w http.ResponseWriter, r *http.Request) {
			var in training.CreateTrainingInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.TrainingSvc.Create(in)
			if err != nil {
				status, msg := mapTrainingError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Get("/v1/trainings/{trainingId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.TrainingSvc.Get(chi.URLParam(r, "trainingId"))
			if err != nil {
				status, msg := mapTrainingError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Patch("/v1/trainings/{trainingId}", func(w http.ResponseWriter, r *http.Request) {
			var in training.UpdateTrainingInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.TrainingSvc.Update(chi.URLParam(r, "trainingId"), in)
			if err != nil {
				status, msg := mapTrainingError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		// catalog tree: children of a node ("" = roots) and the path back up
		pr.Get("/v1/trainings/tree", func(w http.ResponseWriter, r *http.Request) {
			parentID := r.URL.Query().Get("parentId")
			all := d.TrainingSvc.All()
			children := training.ChildrenOf(all, parentID)
			type node struct {
				training.Training
				IsFolder bool `json:"isFolder"`
			}
			out := make([]node, 0, len(children))
			for _, c := range children {
				out = append(out, node{Training: c, IsFolder: training.IsFolder(all, c)})
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Get("/v1/trainings/{trainingId}/breadcrumbs", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, training.Breadcrumbs(d.TrainingSvc.All(), chi.URLParam(r, "trainingId")))
		})

		pr.Post("/v1/trainings/{trainingId}/tasks", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Title string `json:"title"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.TrainingSvc.AddTask(chi.URLParam(r, "trainingId"), in.Title)
			if err != nil {
				status, msg := mapTrainingError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Post("/v1/trainings/{trainingId}/tasks/{taskId}/toggle", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.TrainingSvc.ToggleTask(chi.URLParam(r, "trainingId"), chi.URLParam(r, "taskId"))
			if err != nil {
				status, msg := mapTrainingError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/trainings/{trainingId}/tasks/{taskId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.TrainingSvc.RemoveTask(chi.URLParam(r, "trainingId"), chi.URLParam(r, "taskId"))
			if err != nil {
				status, msg := mapTrainingError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		// ===== Participants =====
		pr.Get("/v1/participants", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ParticipantSvc.List(participant.ListFilter{
				View:       r.URL.Query().Get("view"),
				TrainingID: r.URL.Query().Get("trainingId"),
				Search:     r.URL.Query().Get("q"),
			})
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Post("/v1/participants", func(w http.ResponseWriter, r *http.Request) {
			var in participant.CreateParticipantInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.ParticipantSvc.Create(r.Context(), in)
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Get("/v1/participants/{participantId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ParticipantSvc.Get(chi.URLParam(r, "participantId"))
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Patch("/v1/participants/{participantId}", func(w http.ResponseWriter, r *http.Request) {
			var in participant.UpdateParticipantInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.ParticipantSvc.Update(r.Context(), chi.URLParam(r, "participantId"), in)
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/participants/{participantId}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.ParticipantSvc.Delete(r.Context(), chi.URLParam(r, "participantId")); err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Post("/v1/participants/{participantId}/assignments", func(w http.ResponseWriter, r *http.Request) {
			var in participant.AssignmentInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			if in.TrainingID != "" {
				if _, err := d.TrainingSvc.Get(in.TrainingID); err != nil {
					httpjson.Fail(w, 400, "training does not exist")
					return
				}
			}
			out, err := d.ParticipantSvc.AddAssignment(r.Context(), chi.URLParam(r, "participantId"), in)
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Patch("/v1/participants/{participantId}/assignments/{trainingId}", func(w http.ResponseWriter, r *http.Request) {
			var in participant.UpdateAssignmentInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.ParticipantSvc.UpdateAssignment(r.Context(), chi.URLParam(r, "participantId"), chi.URLParam(r, "trainingId"), in)
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Post("/v1/participants/{participantId}/assignments/{trainingId}/payments", func(w http.ResponseWriter, r *http.Request) {
			var in participant.PaymentInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.ParticipantSvc.RecordPayment(r.Context(), chi.URLParam(r, "participantId"), chi.URLParam(r, "trainingId"), in)
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Put("/v1/participants/{participantId}/assignments/{trainingId}/attendance/{dayId}", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Attended bool `json:"attended"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.ParticipantSvc.SetAttendance(r.Context(), chi.URLParam(r, "participantId"), chi.URLParam(r, "trainingId"), chi.URLParam(r, "dayId"), in.Attended)
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Put("/v1/participants/{participantId}/assignments/{trainingId}/checklist/{itemId}", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Checked bool `json:"checked"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.ParticipantSvc.SetChecklistItem(r.Context(), chi.URLParam(r, "participantId"), chi.URLParam(r, "trainingId"), chi.URLParam(r, "itemId"), in.Checked)
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Post("/v1/participants/{participantId}/interactions", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			var in participant.InteractionInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			if in.PerformedBy == "" {
				in.PerformedBy = au.Name
			}
			out, err := d.ParticipantSvc.AddInteraction(r.Context(), chi.URLParam(r, "participantId"), in)
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Post("/v1/participants/{participantId}/documents", func(w http.ResponseWriter, r *http.Request) {
			var in participant.Document
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.ParticipantSvc.AddDocument(r.Context(), chi.URLParam(r, "participantId"), in)
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Delete("/v1/participants/{participantId}/documents/{docId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ParticipantSvc.RemoveDocument(r.Context(), chi.URLParam(r, "participantId"), chi.URLParam(r, "docId"))
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		// ===== Bulk import =====
		pr.Post("/v1/participants/import", func(w http.ResponseWriter, r *http.Request) {
			file, _, err := r.FormFile("file")
			if err != nil {
				httpjson.Fail(w, 400, "multipart field 'file' is required")
				return
			}
			defer file.Close()

			rows, err := spreadsheet.Parse(file)
			if err != nil {
				httpjson.Fail(w, 400, err.Error())
				return
			}

			all := d.TrainingSvc.All()
			importRows := make([]participant.ImportRow, 0, len(rows))
			for _, row := range rows {
				ir := participant.ImportRow{Name: row.Name, Phone: row.Phone, Email: row.Email}
				if row.TrainingTitle != "" {
					if id, ok := spreadsheet.MatchTraining(row.TrainingTitle, all); ok {
						ir.TrainingID = id
					}
				}
				importRows = append(importRows, ir)
			}

			httpjson.WriteJSON(w, 200, d.ParticipantSvc.Import(r.Context(), importRows))
		})

		pr.Get("/v1/participants/import/template", func(w http.ResponseWriter, r *http.Request) {
			f, err := spreadsheet.Template()
			if err != nil {
				httpjson.Fail(w, 500, "failed to build template")
				return
			}
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", `attachment; filename="participants-import.xlsx"`)
			_ = f.Write(w)
		})

		// ===== Instructors =====
		pr.Get("/v1/instructors", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.InstructorSvc.All())
		})

		pr.Post("/v1/instructors", func(w http.ResponseWriter, r *http.Request) {
			var in instructor.CreateInstructorInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.InstructorSvc.Create(in)
			if err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Get("/v1/instructors/{instructorId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.InstructorSvc.Get(chi.URLParam(r, "instructorId"))
			if err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Patch("/v1/instructors/{instructorId}", func(w http.ResponseWriter, r *http.Request) {
			var in instructor.UpdateInstructorInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.InstructorSvc.Update(chi.URLParam(r, "instructorId"), in)
			if err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/instructors/{instructorId}", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			if !middleware.CanManage(au) {
				httpjson.Fail(w, 403, "manager role required")
				return
			}
			if err := d.InstructorSvc.Delete(chi.URLParam(r, "instructorId")); err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Put("/v1/instructors/{instructorId}/resume", func(w http.ResponseWriter, r *http.Request) {
			var in instructor.Resume
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.InstructorSvc.SetResume(chi.URLParam(r, "instructorId"), in)
			if err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Post("/v1/instructors/{instructorId}/resume/parse", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Document string `json:"document"` // base64
				MimeType string `json:"mimeType"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Document == "" {
				httpjson.Fail(w, 400, "document is required")
				return
			}
			data, err := d.AssistantSvc.ParseResume(r.Context(), in.Document, in.MimeType)
			if err != nil {
				httpjson.Fail(w, 502, "resume parsing failed")
				return
			}
			out, err := d.InstructorSvc.SetResume(chi.URLParam(r, "instructorId"), data)
			if err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		// ===== Hiring candidates =====
		pr.Get("/v1/candidates", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.InstructorSvc.Candidates())
		})

		pr.Post("/v1/candidates", func(w http.ResponseWriter, r *http.Request) {
			var in instructor.CreateCandidateInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.InstructorSvc.CreateCandidate(in)
			if err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Patch("/v1/candidates/{candidateId}/status", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Status instructor.CandidateStatus `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.InstructorSvc.SetCandidateStatus(chi.URLParam(r, "candidateId"), in.Status)
			if err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Post("/v1/candidates/{candidateId}/notes", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Note string `json:"note"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.InstructorSvc.AddCandidateNote(chi.URLParam(r, "candidateId"), in.Note)
			if err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Post("/v1/candidates/{candidateId}/promote", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			if !middleware.CanManage(au) {
				httpjson.Fail(w, 403, "manager role required")
				return
			}
			var in struct {
				DefaultCommissionRate float64 `json:"defaultCommissionRate"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.InstructorSvc.Promote(chi.URLParam(r, "candidateId"), in.DefaultCommissionRate)
			if err != nil {
				status, msg := mapInstructorError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		// ===== Finance =====
		pr.Get("/v1/finance/summary", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.FinanceSvc.Summary())
		})

		pr.Get("/v1/trainings/{trainingId}/report", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.FinanceSvc.Report(chi.URLParam(r, "trainingId"))
			if err != nil {
				status, msg := mapFinanceError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Get("/v1/trainings/{trainingId}/split", func(w http.ResponseWriter, r *http.Request) {
			ratio, err := strconv.ParseFloat(r.URL.Query().Get("ratio"), 64)
			if err != nil {
				httpjson.Fail(w, 400, "ratio query parameter is required")
				return
			}
			out, err := d.FinanceSvc.Split(chi.URLParam(r, "trainingId"), ratio)
			if err != nil {
				status, msg := mapFinanceError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Get("/v1/trainings/{trainingId}/expenses", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.FinanceSvc.Expense(chi.URLParam(r, "trainingId")))
		})

		pr.Put("/v1/trainings/{trainingId}/expenses", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			if !middleware.CanManage(au) {
				httpjson.Fail(w, 403, "manager role required")
				return
			}
			var in finance.Expense
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			in.TrainingID = chi.URLParam(r, "trainingId")
			out, err := d.FinanceSvc.SetExpense(in)
			if err != nil {
				status, msg := mapFinanceError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		// ===== Ad campaigns =====
		pr.Get("/v1/campaigns", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.AdsSvc.All())
		})

		pr.Post("/v1/campaigns", func(w http.ResponseWriter, r *http.Request) {
			var in ads.CreateCampaignInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.AdsSvc.Create(in)
			if err != nil {
				status, msg := mapAdsError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 201, out)
		})

		pr.Patch("/v1/campaigns/{campaignId}", func(w http.ResponseWriter, r *http.Request) {
			var in ads.UpdateCampaignInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.AdsSvc.Update(chi.URLParam(r, "campaignId"), in)
			if err != nil {
				status, msg := mapAdsError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Delete("/v1/campaigns/{campaignId}", func(w http.ResponseWriter, r *http.Request) {
			if err := d.AdsSvc.Delete(chi.URLParam(r, "campaignId")); err != nil {
				status, msg := mapAdsError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Get("/v1/campaigns/{campaignId}/metrics", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.AdsSvc.MetricsFor(chi.URLParam(r, "campaignId"))
			if err != nil {
				status, msg := mapAdsError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Post("/v1/campaigns/analyze", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, map[string]any{"analysis": d.AssistantSvc.AnalyzeCampaigns(r.Context())})
		})

		// ===== Dashboard & alerts =====
		pr.Get("/v1/dashboard", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.StatsSvc.Dashboard())
		})

		pr.Get("/v1/alerts/payments", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.AlertsSvc.OverduePayments(time.Now().UTC()))
		})

		pr.Get("/v1/alerts/tasks", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.AlertsSvc.OverdueTasks(time.Now().UTC()))
		})

		pr.Get("/v1/alerts/risks", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.AlertsSvc.RiskWarnings(r.Context(), time.Now().UTC()))
		})

		// ===== Assistant =====
		pr.Post("/v1/assistant/ask", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Prompt   string `json:"prompt"`
				Thinking bool   `json:"thinking"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Prompt) == "" {
				httpjson.Fail(w, 400, "prompt is required")
				return
			}
			httpjson.WriteJSON(w, 200, map[string]any{"answer": d.AssistantSvc.Ask(r.Context(), in.Prompt, in.Thinking)})
		})

		pr.Post("/v1/assistant/training-plan", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Title       string `json:"title"`
				Content     string `json:"content"`
				Preferences string `json:"preferences"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Title) == "" {
				httpjson.Fail(w, 400, "title is required")
				return
			}
			out, err := d.AssistantSvc.GenerateTrainingPlan(r.Context(), in.Title, in.Content, in.Preferences)
			if err != nil {
				httpjson.Fail(w, 502, "plan generation failed")
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Post("/v1/assistant/training-plan/candidates", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Instructors []assistant.SuggestedInstructor `json:"instructors"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || len(in.Instructors) == 0 {
				httpjson.Fail(w, 400, "instructors are required")
				return
			}
			httpjson.WriteJSON(w, 201, d.AssistantSvc.AddSuggestedToCandidates(in.Instructors))
		})

		pr.Get("/v1/trainings/{trainingId}/goal-analysis", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.AssistantSvc.AnalyzeGoals(r.Context(), chi.URLParam(r, "trainingId"))
			if err != nil {
				status, msg := mapTrainingError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, map[string]any{"analysis": out})
		})

		// ===== Documents & certificates =====
		pr.Post("/v1/trainings/{trainingId}/certificates", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Template string `json:"template"` // base64 PNG
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			out, err := d.DocumentsSvc.GenerateCertificates(r.Context(), chi.URLParam(r, "trainingId"), in.Template)
			if err != nil {
				httpjson.Fail(w, 400, err.Error())
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Get("/v1/trainings/{trainingId}/documents", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.DocumentsSvc.ByTraining(chi.URLParam(r, "trainingId"))
			if err != nil {
				status, msg := mapParticipantError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		// ===== Settings =====
		pr.Get("/v1/settings/checklist", func(w http.ResponseWriter, r *http.Request) {
			httpjson.WriteJSON(w, 200, d.SettingsSvc.Checklist())
		})

		pr.Put("/v1/settings/checklist", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			if !middleware.CanManage(au) {
				httpjson.Fail(w, 403, "manager role required")
				return
			}
			var in []settings.ChecklistItem
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			if err := d.SettingsSvc.SetChecklist(in); err != nil {
				status, msg := mapSettingsError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, d.SettingsSvc.Checklist())
		})

		pr.Get("/v1/settings/options/{list}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.SettingsSvc.Options(chi.URLParam(r, "list"))
			if err != nil {
				status, msg := mapSettingsError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			httpjson.WriteJSON(w, 200, out)
		})

		pr.Put("/v1/settings/options/{list}", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			if !middleware.CanManage(au) {
				httpjson.Fail(w, 403, "manager role required")
				return
			}
			var in []settings.Option
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				httpjson.Fail(w, 400, "invalid json")
				return
			}
			list := chi.URLParam(r, "list")
			if err := d.SettingsSvc.SetOptions(list, in); err != nil {
				status, msg := mapSettingsError(err)
				httpjson.Fail(w, status, msg)
				return
			}
			out, _ := d.SettingsSvc.Options(list)
			httpjson.WriteJSON(w, 200, out)
		})

		// ===== Billing =====
		if d.BillingSvc != nil {
			pr.Post("/v1/billing/checkout", func(w http.ResponseWriter, r *http.Request) {
				if !d.BillingSvc.Enabled() {
					httpjson.Fail(w, 501, "STRIPE_SECRET_KEY not set")
					return
				}
				var in struct {
					ParticipantID string `json:"participantId"`
					TrainingID    string `json:"trainingId"`
				}
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ParticipantID == "" || in.TrainingID == "" {
					httpjson.Fail(w, 400, "participantId and trainingId are required")
					return
				}
				id, url, err := d.BillingSvc.CreateCheckout(r.Context(), in.ParticipantID, in.TrainingID)
				if err != nil {
					httpjson.Fail(w, 400, err.Error())
					return
				}
				httpjson.WriteJSON(w, 200, map[string]any{"id": id, "url": url})
			})
		}

		// ===== Uploads =====
		if d.Uploads != nil {
			pr.Post("/v1/uploads/signed-url", d.Uploads.CreateSignedUploadURL)
		}
	})

	return r
}

func mapTrainingError(err error) (int, string) {
	switch {
	case training.IsErrBadRequest(err):
		return 400, err.Error()
	case training.IsErrNotFound(err):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapParticipantError(err error) (int, string) {
	switch {
	case participant.IsErrBadRequest(err):
		return 400, err.Error()
	case participant.IsErrNotFound(err):
		return 404, err.Error()
	case participant.IsErrConflict(err):
		return 409, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapInstructorError(err error) (int, string) {
	switch {
	case instructor.IsErrBadRequest(err):
		return 400, err.Error()
	case instructor.IsErrNotFound(err):
		return 404, err.Error()
	case instructor.IsErrConflict(err):
		return 409, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapFinanceError(err error) (int, string) {
	switch {
	case finance.IsErrBadRequest(err):
		return 400, err.Error()
	case finance.IsErrNotFound(err) || training.IsErrNotFound(err):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapAdsError(err error) (int, string) {
	switch {
	case ads.IsErrBadRequest(err):
		return 400, err.Error()
	case ads.IsErrNotFound(err):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapSettingsError(err error) (int, string) {
	switch {
	case settings.IsErrBadRequest(err):
		return 400, err.Error()
	case settings.IsErrNotFound(err):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}
