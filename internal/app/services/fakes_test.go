package services

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/repositories"
	"github.com/yigit/placementcrm/internal/config"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
)

var testToday = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

func matchCodes(codes []string, p idgen.Pattern) []string {
	var out []string
	for _, code := range codes {
		if !strings.HasPrefix(code, p.Prefix) {
			continue
		}
		if p.Segment != "" && !strings.Contains(code[len(p.Prefix):], "-"+p.Segment+"-") {
			continue
		}
		out = append(out, code)
	}
	return out
}

type fakeStudentStore struct {
	mu       sync.Mutex
	nextID   int64
	students map[int64]*models.Student
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: map[int64]*models.Student{}}
}

func (f *fakeStudentStore) codes() []string {
	var codes []string
	for _, s := range f.students {
		codes = append(codes, s.StudentCode)
	}
	return codes
}

func (f *fakeStudentStore) FindMatchingIdentifiers(_ context.Context, p idgen.Pattern) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return matchCodes(f.codes(), p), nil
}

func (f *fakeStudentStore) CreateWithCode(ctx context.Context, student *models.Student, _ string, next idgen.NextFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	code, err := next(ctx, idgen.SourceFunc(func(_ context.Context, p idgen.Pattern) ([]string, error) {
		return matchCodes(f.codes(), p), nil
	}))
	if err != nil {
		return err
	}
	for _, s := range f.students {
		if s.StudentCode == code {
			return apperrors.ErrUniquenessViolation
		}
		if s.Email == student.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	f.nextID++
	student.ID = f.nextID
	student.StudentCode = code
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	stored := *student
	f.students[student.ID] = &stored
	return nil
}

func (f *fakeStudentStore) add(s models.Student) *models.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	f.students[s.ID] = &s
	return &s
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) GetByCode(_ context.Context, code string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.StudentCode == strings.ToUpper(strings.TrimSpace(code)) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) List(_ context.Context, filter repositories.StudentFilter) ([]models.Student, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Student{}
	for _, s := range f.students {
		if filter.Branch == "" || strings.EqualFold(s.Branch, filter.Branch) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	start := int(filter.Offset)
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (f *fakeStudentStore) ListWithSkills(_ context.Context) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Student{}
	for _, s := range f.students {
		if len(s.Skills) > 0 {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) Update(_ context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	stored := *student
	f.students[student.ID] = &stored
	return nil
}

func (f *fakeStudentStore) SetResumeURL(_ context.Context, id int64, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.ResumeURL = &url
	return nil
}

func (f *fakeStudentStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, id)
	return nil
}

type fakeJobStore struct {
	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*models.Job
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[int64]*models.Job{}}
}

func (f *fakeJobStore) codes() []string {
	var codes []string
	for _, j := range f.jobs {
		codes = append(codes, j.JobCode)
	}
	return codes
}

func (f *fakeJobStore) FindMatchingIdentifiers(_ context.Context, p idgen.Pattern) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return matchCodes(f.codes(), p), nil
}

func (f *fakeJobStore) CreateWithCode(ctx context.Context, job *models.Job, _ string, next idgen.NextFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	code, err := next(ctx, idgen.SourceFunc(func(_ context.Context, p idgen.Pattern) ([]string, error) {
		return matchCodes(f.codes(), p), nil
	}))
	if err != nil {
		return err
	}
	f.nextID++
	job.ID = f.nextID
	job.JobCode = code
	stored := *job
	f.jobs[job.ID] = &stored
	return nil
}

func (f *fakeJobStore) add(j models.Job) *models.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	j.ID = f.nextID
	f.jobs[j.ID] = &j
	return &j
}

func (f *fakeJobStore) GetByID(_ context.Context, id int64) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperrors.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobStore) List(_ context.Context, _ repositories.JobFilter) ([]models.Job, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Job{}
	for _, j := range f.jobs {
		out = append(out, *j)
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[id]; !ok {
		return apperrors.ErrJobNotFound
	}
	delete(f.jobs, id)
	return nil
}

type fakeCourseStore struct {
	courses map[int64]*models.Course
}

func newFakeCourseStore(courses ...models.Course) *fakeCourseStore {
	f := &fakeCourseStore{courses: map[int64]*models.Course{}}
	for i := range courses {
		c := courses[i]
		f.courses[c.ID] = &c
	}
	return f
}

func (f *fakeCourseStore) Create(_ context.Context, course *models.Course) error {
	for _, c := range f.courses {
		if strings.EqualFold(c.Name, course.Name) {
			return apperrors.ErrCourseAlreadyExists
		}
	}
	course.ID = int64(len(f.courses) + 1)
	stored := *course
	f.courses[course.ID] = &stored
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseStore) List(_ context.Context, _ uint64, _ int) ([]models.Course, int64, error) {
	out := []models.Course{}
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCourseStore) Update(_ context.Context, course *models.Course) error {
	if _, ok := f.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	stored := *course
	f.courses[course.ID] = &stored
	return nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

type sentEmail struct {
	kind string
	to   string
	body string
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeEmailService) SendWelcomeEmail(toEmail, _, studentCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{kind: "welcome", to: toEmail, body: studentCode})
	return f.err
}

func (f *fakeEmailService) SendInvoiceEmail(toEmail, _, description string, _ float64, dueDate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{kind: "invoice", to: toEmail, body: description + " " + dueDate})
	return f.err
}

type fakeFileStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeFileStorage) SaveFile(fh *multipart.FileHeader) (string, error) {
	return f.SaveFileWithPath(fh, "")
}

func (f *fakeFileStorage) SaveFileWithPath(fh *multipart.FileHeader, path string) (string, error) {
	url := "http://localhost:8080/uploads/" + path + "/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeFileStorage) DeleteFile(fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

func (f *fakeFileStorage) GetFullPath(fileURL string) string {
	return fileURL
}

func newTestGenerator(students, jobs idgen.Source) *idgen.Generator {
	return idgen.NewGenerator(idgen.Options{
		Branches:    config.DefaultBranchCodes(),
		CourseTypes: config.DefaultCourseTypeCodes(),
		Now:         func() time.Time { return testToday },
	}, students, jobs)
}
