package postgres

import (
	"testing"

	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	"github.com/frahmantamala/timesheet-management/internal/project"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestProjectPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Postgres Suite")
}

var _ = Describe("ProjectRepository", func() {
	var (
		db   *gorm.DB
		repo project.RepositoryAPI
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&projectDatamodel.ProjectCode{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewProjectRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create", func() {
		It("should create a project code and assign an ID", func() {
			desc := "Platform engineering"
			code := &project.ProjectCode{Code: "ENG-1", Description: &desc}

			err := repo.Create(code)

			Expect(err).NotTo(HaveOccurred())
			Expect(code.ID).To(BeNumerically(">", 0))
		})

		It("should reject a duplicate code at the store level", func() {
			Expect(repo.Create(&project.ProjectCode{Code: "ENG-1"})).To(Succeed())

			err := repo.Create(&project.ProjectCode{Code: "ENG-1"})

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("UNIQUE constraint"))
		})
	})

	Describe("GetByCode", func() {
		It("should return nil for an unknown code", func() {
			code, err := repo.GetByCode("NOPE-9")

			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(BeNil())
		})

		It("should retrieve a stored code", func() {
			Expect(repo.Create(&project.ProjectCode{Code: "OPS-1"})).To(Succeed())

			code, err := repo.GetByCode("OPS-1")

			Expect(err).NotTo(HaveOccurred())
			Expect(code).NotTo(BeNil())
			Expect(code.Code).To(Equal("OPS-1"))
		})
	})

	Describe("GetAll", func() {
		It("should list codes ordered alphabetically", func() {
			Expect(repo.Create(&project.ProjectCode{Code: "OPS-1"})).To(Succeed())
			Expect(repo.Create(&project.ProjectCode{Code: "ENG-1"})).To(Succeed())

			codes, err := repo.GetAll()

			Expect(err).NotTo(HaveOccurred())
			Expect(codes).To(HaveLen(2))
			Expect(codes[0].Code).To(Equal("ENG-1"))
		})
	})

	Describe("Delete", func() {
		It("should remove a stored code", func() {
			created := &project.ProjectCode{Code: "ENG-1"}
			Expect(repo.Create(created)).To(Succeed())

			Expect(repo.Delete(created.ID)).To(Succeed())

			code, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(BeNil())
		})
	})
})
