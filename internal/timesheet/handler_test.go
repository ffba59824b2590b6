package timesheet_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/timesheet-management/internal"
	timesheetDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/timesheet-management/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/timesheet-management/internal/timesheet/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// withUser injects a session user the way the auth middleware does in
// production.
func withUser(u *internal.SessionUser, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), u)))
	})
}

var _ = Describe("Timesheet Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    *timesheetPostgres.TimesheetRepository
		handler *timesheet.Handler
		router  *chi.Mux

		alice = &internal.SessionUser{ID: 1, Username: "alice", Role: internal.RoleUser}
		bob   = &internal.SessionUser{ID: 2, Username: "bob", Role: internal.RoleManager}
	)

	newRouter := func(u *internal.SessionUser) *chi.Mux {
		r := chi.NewRouter()
		r.Method(http.MethodPost, "/timesheets", withUser(u, http.HandlerFunc(handler.CreateTimesheet)))
		r.Method(http.MethodGet, "/timesheets", withUser(u, http.HandlerFunc(handler.ListTimesheets)))
		r.Method(http.MethodGet, "/timesheets/rejected", withUser(u, http.HandlerFunc(handler.ListRejected)))
		r.Method(http.MethodGet, "/timesheets/pending", withUser(u, http.HandlerFunc(handler.ListPending)))
		r.Method(http.MethodGet, "/timesheets/{id}", withUser(u, http.HandlerFunc(handler.GetTimesheet)))
		r.Method(http.MethodPut, "/timesheets/{id}", withUser(u, http.HandlerFunc(handler.UpdateTimesheet)))
		r.Method(http.MethodDelete, "/timesheets/{id}", withUser(u, http.HandlerFunc(handler.DeleteTimesheet)))
		r.Method(http.MethodPost, "/timesheets/{id}/resubmit", withUser(u, http.HandlerFunc(handler.ResubmitTimesheet)))
		r.Method(http.MethodPatch, "/timesheets/{id}/approve", withUser(u, http.HandlerFunc(handler.ApproveTimesheet)))
		r.Method(http.MethodPatch, "/timesheets/{id}/reject", withUser(u, http.HandlerFunc(handler.RejectTimesheet)))
		return r
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&timesheetDatamodel.Timesheet{})
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = timesheetPostgres.NewTimesheetRepository(db)
		resolver := newMockProjectResolver()
		handler = timesheet.NewHandler(timesheet.NewService(repo, resolver, false, slogger))
		router = newRouter(alice)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	submitWeek := func(days int) map[string]interface{} {
		body, err := json.Marshal(timesheet.CreateTimesheetDTO{
			ProjectCode: "ENG-1",
			Entries:     weekEntries(days),
		})
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/timesheets", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var response map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		return response
	}

	Describe("POST /timesheets", func() {
		It("should create a weekly batch of pending entries", func() {
			response := submitWeek(5)

			Expect(response["batch_id"]).NotTo(BeEmpty())
			entries := response["timesheets"].([]interface{})
			Expect(entries).To(HaveLen(5))
			first := entries[0].(map[string]interface{})
			Expect(first["status"]).To(Equal("pending"))
		})

		It("should return 404 for an unknown project code", func() {
			body, _ := json.Marshal(timesheet.CreateTimesheetDTO{
				ProjectCode: "NOPE-9",
				Entries:     weekEntries(2),
			})
			req := httptest.NewRequest(http.MethodPost, "/timesheets", bytes.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 for an eight day week", func() {
			body, _ := json.Marshal(timesheet.CreateTimesheetDTO{
				ProjectCode: "ENG-1",
				Entries:     weekEntries(8),
			})
			req := httptest.NewRequest(http.MethodPost, "/timesheets", bytes.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ownership", func() {
		var entryID int64

		BeforeEach(func() {
			entry := &timesheet.Timesheet{
				UserID:        alice.ID,
				ProjectCodeID: 1,
				EntryDate:     time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
				Hours:         8,
				Status:        timesheet.StatusPending,
				SubmittedAt:   time.Now(),
			}
			Expect(repo.CreateBatch([]*timesheet.Timesheet{entry})).To(Succeed())
			entryID = entry.ID
		})

		It("should let the owner read their entry", func() {
			req := httptest.NewRequest(http.MethodGet, "/timesheets/1", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should answer 400 when an update omits the project code", func() {
			body, _ := json.Marshal(timesheet.UpdateTimesheetDTO{
				ProjectCode: "",
				Date:        "2026-01-06",
				Hours:       5,
			})
			req := httptest.NewRequest(http.MethodPut, "/timesheets/1", bytes.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("project_code is required"))
		})

		It("should answer 400 when an update carries a malformed date", func() {
			body, _ := json.Marshal(timesheet.UpdateTimesheetDTO{
				ProjectCode: "ENG-1",
				Date:        "06/01/2026",
				Hours:       5,
			})
			req := httptest.NewRequest(http.MethodPut, "/timesheets/1", bytes.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should answer 404 when another user deletes the entry", func() {
			carol := &internal.SessionUser{ID: 3, Username: "carol", Role: internal.RoleUser}
			otherRouter := newRouter(carol)

			req := httptest.NewRequest(http.MethodDelete, "/timesheets/1", nil)
			w := httptest.NewRecorder()
			otherRouter.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))

			kept, err := repo.GetByID(entryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(kept).NotTo(BeNil())
		})

		It("should let a manager read any entry", func() {
			managerRouter := newRouter(bob)

			req := httptest.NewRequest(http.MethodGet, "/timesheets/1", nil)
			w := httptest.NewRecorder()
			managerRouter.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("the review workflow over HTTP", func() {
		It("should reject, resubmit and approve an entry", func() {
			submitWeek(3)
			managerRouter := newRouter(bob)

			// bob rejects entry 2 with a reason
			body, _ := json.Marshal(timesheet.ReviewDTO{Comments: "wrong project"})
			req := httptest.NewRequest(http.MethodPatch, "/timesheets/2/reject", bytes.NewReader(body))
			w := httptest.NewRecorder()
			managerRouter.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			// alice sees it in her rejected list
			req = httptest.NewRequest(http.MethodGet, "/timesheets/rejected", nil)
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))
			var listResponse struct {
				Timesheets []*timesheet.Timesheet `json:"timesheets"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&listResponse)).To(Succeed())
			Expect(listResponse.Timesheets).To(HaveLen(1))
			Expect(*listResponse.Timesheets[0].Comments).To(Equal("wrong project"))

			// she resubmits with corrected hours
			body, _ = json.Marshal(timesheet.ResubmitDTO{Hours: 6})
			req = httptest.NewRequest(http.MethodPost, "/timesheets/2/resubmit", bytes.NewReader(body))
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			// bob approves the corrected entry
			req = httptest.NewRequest(http.MethodPatch, "/timesheets/2/approve", bytes.NewReader([]byte("{}")))
			w = httptest.NewRecorder()
			managerRouter.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			approved, err := repo.GetByID(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(timesheet.StatusApproved))
		})

		It("should refuse a rejection without a comment", func() {
			submitWeek(1)
			managerRouter := newRouter(bob)

			req := httptest.NewRequest(http.MethodPatch, "/timesheets/1/reject", bytes.NewReader([]byte("{}")))
			w := httptest.NewRecorder()
			managerRouter.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
