package postgres

import (
	"testing"
	"time"

	"github.com/frahmantamala/timesheet-management/internal/timesheet"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestTimesheetRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TimesheetRepository Suite")
}

type SQLiteTimesheet struct {
	ID            int64      `gorm:"primaryKey"`
	UserID        int64      `gorm:"column:user_id;not null"`
	ProjectCodeID int64      `gorm:"column:project_code_id;not null"`
	BatchID       string     `gorm:"column:batch_id"`
	EntryDate     time.Time  `gorm:"column:entry_date"`
	Hours         float64    `gorm:"column:hours;not null"`
	Status        string     `gorm:"column:status;default:'pending'"`
	Comments      *string    `gorm:"column:comments"`
	SubmittedAt   time.Time  `gorm:"column:submitted_at"`
	ProcessedAt   *time.Time `gorm:"column:processed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (SQLiteTimesheet) TableName() string {
	return "timesheets"
}

func pendingEntry(userID int64, date time.Time, hours float64) *timesheet.Timesheet {
	now := time.Now()
	return &timesheet.Timesheet{
		UserID:        userID,
		ProjectCodeID: 1,
		BatchID:       uuid.NewString(),
		EntryDate:     date,
		Hours:         hours,
		Status:        timesheet.StatusPending,
		SubmittedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

var _ = Describe("TimesheetRepository", func() {
	var (
		db   *gorm.DB
		repo *TimesheetRepository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteTimesheet{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewTimesheetRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("CreateBatch", func() {
		It("should insert all entries and assign IDs", func() {
			monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
			batchID := uuid.NewString()
			entries := make([]*timesheet.Timesheet, 0, 5)
			for i := 0; i < 5; i++ {
				entry := pendingEntry(1, monday.AddDate(0, 0, i), 8)
				entry.BatchID = batchID
				entries = append(entries, entry)
			}

			err := repo.CreateBatch(entries)
			Expect(err).NotTo(HaveOccurred())

			for _, entry := range entries {
				Expect(entry.ID).To(BeNumerically(">", 0))
			}

			stored, err := repo.GetByUserID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(HaveLen(5))
		})

		It("should store nothing when one entry in the batch fails to insert", func() {
			err := db.Exec("CREATE UNIQUE INDEX idx_timesheets_user_entry_date ON timesheets(user_id, entry_date)").Error
			Expect(err).NotTo(HaveOccurred())

			monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
			batchID := uuid.NewString()
			entries := []*timesheet.Timesheet{
				pendingEntry(1, monday, 8),
				pendingEntry(1, monday.AddDate(0, 0, 1), 8),
				// collides with the first row on (user_id, entry_date)
				pendingEntry(1, monday, 8),
			}
			for _, entry := range entries {
				entry.BatchID = batchID
			}

			err = repo.CreateBatch(entries)
			Expect(err).To(HaveOccurred())

			stored, err := repo.GetByUserID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(BeEmpty())
		})
	})

	Describe("GetByID", func() {
		It("should return ErrTimesheetNotFound for a missing ID", func() {
			retrieved, err := repo.GetByID(99999)
			Expect(err).To(Equal(timesheet.ErrTimesheetNotFound))
			Expect(retrieved).To(BeNil())
		})

		It("should retrieve a stored entry", func() {
			entry := pendingEntry(1, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 7.5)
			err := repo.CreateBatch([]*timesheet.Timesheet{entry})
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := repo.GetByID(entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.UserID).To(Equal(int64(1)))
			Expect(retrieved.Hours).To(Equal(7.5))
			Expect(retrieved.Status).To(Equal(timesheet.StatusPending))
		})
	})

	Describe("Update", func() {
		var entry *timesheet.Timesheet

		BeforeEach(func() {
			entry = pendingEntry(1, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 8)
			Expect(repo.CreateBatch([]*timesheet.Timesheet{entry})).To(Succeed())
		})

		It("should update an entry scoped to its owner", func() {
			entry.Hours = 6
			entry.ProjectCodeID = 2

			err := repo.Update(entry, 1)
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := repo.GetByID(entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.Hours).To(Equal(6.0))
			Expect(retrieved.ProjectCodeID).To(Equal(int64(2)))
		})

		It("should report not found for a different owner and leave the row untouched", func() {
			entry.Hours = 6

			err := repo.Update(entry, 2)
			Expect(err).To(Equal(timesheet.ErrTimesheetNotFound))

			retrieved, err := repo.GetByID(entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.Hours).To(Equal(8.0))
		})
	})

	Describe("Delete", func() {
		var entry *timesheet.Timesheet

		BeforeEach(func() {
			entry = pendingEntry(1, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 8)
			Expect(repo.CreateBatch([]*timesheet.Timesheet{entry})).To(Succeed())
		})

		It("should delete an entry scoped to its owner", func() {
			err := repo.Delete(entry.ID, 1)
			Expect(err).NotTo(HaveOccurred())

			_, err = repo.GetByID(entry.ID)
			Expect(err).To(Equal(timesheet.ErrTimesheetNotFound))
		})

		It("should report not found for a different owner and keep the row", func() {
			err := repo.Delete(entry.ID, 2)
			Expect(err).To(Equal(timesheet.ErrTimesheetNotFound))

			_, err = repo.GetByID(entry.ID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("UpdateStatus", func() {
		var entry *timesheet.Timesheet

		BeforeEach(func() {
			entry = pendingEntry(1, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 8)
			Expect(repo.CreateBatch([]*timesheet.Timesheet{entry})).To(Succeed())
		})

		It("should store status, comments and processed_at", func() {
			comments := "wrong project"
			processedAt := time.Now()

			err := repo.UpdateStatus(entry.ID, timesheet.StatusRejected, &comments, &processedAt)
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := repo.GetByID(entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.Status).To(Equal(timesheet.StatusRejected))
			Expect(*retrieved.Comments).To(Equal("wrong project"))
			Expect(retrieved.ProcessedAt).NotTo(BeNil())
		})

		It("should report not found for a missing ID", func() {
			comments := "nope"
			processedAt := time.Now()

			err := repo.UpdateStatus(99999, timesheet.StatusApproved, &comments, &processedAt)
			Expect(err).To(Equal(timesheet.ErrTimesheetNotFound))
		})
	})

	Describe("UpdateForResubmit", func() {
		It("should reset status and processed_at while keeping comments", func() {
			entry := pendingEntry(1, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 8)
			Expect(repo.CreateBatch([]*timesheet.Timesheet{entry})).To(Succeed())

			comments := "too many hours"
			processedAt := time.Now()
			Expect(repo.UpdateStatus(entry.ID, timesheet.StatusRejected, &comments, &processedAt)).To(Succeed())

			err := repo.UpdateForResubmit(entry.ID, 6)
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := repo.GetByID(entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.Status).To(Equal(timesheet.StatusPending))
			Expect(retrieved.Hours).To(Equal(6.0))
			Expect(retrieved.ProcessedAt).To(BeNil())
			Expect(*retrieved.Comments).To(Equal("too many hours"))
		})
	})

	Describe("GetPending", func() {
		It("should return pending entries oldest submission first", func() {
			older := pendingEntry(1, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 8)
			older.SubmittedAt = time.Now().Add(-2 * time.Hour)
			newer := pendingEntry(2, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), 8)
			newer.SubmittedAt = time.Now()

			Expect(repo.CreateBatch([]*timesheet.Timesheet{newer, older})).To(Succeed())

			pending, err := repo.GetPending(10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(2))
			Expect(pending[0].ID).To(Equal(older.ID))
		})

		It("should exclude processed entries", func() {
			entry := pendingEntry(1, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 8)
			Expect(repo.CreateBatch([]*timesheet.Timesheet{entry})).To(Succeed())

			comments := "ok"
			processedAt := time.Now()
			Expect(repo.UpdateStatus(entry.ID, timesheet.StatusApproved, &comments, &processedAt)).To(Succeed())

			pending, err := repo.GetPending(10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())
		})
	})

	Describe("reference counting", func() {
		It("should count entries by project code and by user", func() {
			a := pendingEntry(1, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 8)
			b := pendingEntry(1, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), 8)
			b.ProjectCodeID = 2
			c := pendingEntry(2, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 8)
			Expect(repo.CreateBatch([]*timesheet.Timesheet{a, b, c})).To(Succeed())

			byProject, err := repo.CountByProjectCodeID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(byProject).To(Equal(int64(2)))

			byUser, err := repo.CountByUserID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(byUser).To(Equal(int64(2)))
		})
	})
})
