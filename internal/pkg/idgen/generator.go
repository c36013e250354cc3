// Package idgen derives the human-readable student and job codes stored on new records.
//
// Student codes look like CD-TM-1001 (course type, branch, sequence) and are sequenced per branch.
// Job codes look like INF-050324-01 (department, posting date, sequence) and are sequenced per
// department and day. Sequences are derived from the highest code already persisted in the
// partition, so callers must serialize generation and insert per partition to keep codes unique.
package idgen

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/logger"
)

const (
	// UnknownBranchCode is used when a student has no branch.
	UnknownBranchCode = "UNK"
	// DefaultCourseTypeName is the category a student without a course type belongs to.
	DefaultCourseTypeName = "Course"
	// DefaultCourseTypeCode stands for the DefaultCourseTypeName category.
	DefaultCourseTypeCode = "CR"
	// DefaultStudentSequenceSeed is the value the student sequence starts after.
	DefaultStudentSequenceSeed = 1000
	// DefaultJobSequenceWidth is the minimum zero-padded width of the job sequence.
	DefaultJobSequenceWidth = 2

	jobDateLayout = "020106"
	separator     = "-"
)

// Pattern describes an identifier partition to scan for.
// An identifier matches when it starts with Prefix and, if Segment is set,
// contains Segment as a whole dash-delimited middle segment.
type Pattern struct {
	Prefix  string
	Segment string
}

// LikePattern renders the pattern as a SQL LIKE expression, escaping LIKE wildcards with '\'.
func (p Pattern) LikePattern() string {
	var b strings.Builder
	b.WriteString(escapeLike(p.Prefix))
	b.WriteString("%")
	if p.Segment != "" {
		b.WriteString(escapeLike(separator + p.Segment + separator))
		b.WriteString("%")
	}
	return b.String()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Source returns every persisted identifier matching a pattern.
// Results must reflect all writes committed before the call.
type Source interface {
	FindMatchingIdentifiers(ctx context.Context, pattern Pattern) ([]string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, pattern Pattern) ([]string, error)

// FindMatchingIdentifiers implements Source.
func (f SourceFunc) FindMatchingIdentifiers(ctx context.Context, pattern Pattern) ([]string, error) {
	return f(ctx, pattern)
}

// NextFunc computes the next code from the identifiers visible through src.
// Repositories call it inside the transaction that inserts the record.
type NextFunc func(ctx context.Context, src Source) (string, error)

// Options configures a Generator.
type Options struct {
	Branches    map[string]string
	CourseTypes map[string]string
	Departments map[string]string
	// StudentSequenceSeed is the sequence value assumed when a branch has no students yet.
	StudentSequenceSeed int
	// JobSequenceWidth is the zero-padded width of the job sequence.
	JobSequenceWidth int
	// Now supplies the reference date when none is given. Defaults to time.Now.
	Now func() time.Time
}

// Generator produces student and job codes.
type Generator struct {
	branches    CodeTable
	courseTypes CodeTable
	departments CodeTable
	studentSeed int
	jobWidth    int
	now         func() time.Time
	students    Source
	jobs        Source
}

// NewGenerator creates a Generator scanning students and jobs for existing codes.
func NewGenerator(opts Options, students, jobs Source) *Generator {
	if opts.StudentSequenceSeed <= 0 {
		opts.StudentSequenceSeed = DefaultStudentSequenceSeed
	}
	if opts.JobSequenceWidth <= 0 {
		opts.JobSequenceWidth = DefaultJobSequenceWidth
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{
		branches:    NewCodeTable(opts.Branches, UnknownBranchCode, Prefix(2)),
		courseTypes: NewCodeTable(withDefaultCourseType(opts.CourseTypes), DefaultCourseTypeCode, Prefix(2)),
		departments: NewCodeTable(opts.Departments, "", CompactPrefix(3)),
		studentSeed: opts.StudentSequenceSeed,
		jobWidth:    opts.JobSequenceWidth,
		now:         opts.Now,
		students:    students,
		jobs:        jobs,
	}
}

// withDefaultCourseType copies entries and maps the generic category to the empty-name code,
// unless the table already names it.
func withDefaultCourseType(entries map[string]string) map[string]string {
	out := make(map[string]string, len(entries)+1)
	hasDefault := false
	for name, code := range entries {
		out[name] = code
		if normalizeName(name) == normalizeName(DefaultCourseTypeName) {
			hasDefault = true
		}
	}
	if !hasDefault {
		out[DefaultCourseTypeName] = DefaultCourseTypeCode
	}
	return out
}

// BranchCode resolves the abbreviation for a branch name.
func (g *Generator) BranchCode(branchName string) string {
	return g.branches.Resolve(branchName)
}

// CourseTypeCode resolves the abbreviation for a course type name.
func (g *Generator) CourseTypeCode(courseTypeName string) string {
	return g.courseTypes.Resolve(courseTypeName)
}

// DepartmentCode resolves the abbreviation for a department name.
func (g *Generator) DepartmentCode(departmentName string) (string, error) {
	if strings.TrimSpace(departmentName) == "" {
		return "", apperrors.NewInvalidArgumentError("department name is required")
	}
	return g.departments.Resolve(departmentName), nil
}

// Tables exposes copies of the configured code tables.
func (g *Generator) Tables() (branches, courseTypes, departments map[string]string) {
	return g.branches.Entries(), g.courseTypes.Entries(), g.departments.Entries()
}

// StudentPartition returns the key that serializes student code generation for a branch.
func (g *Generator) StudentPartition(branchName string) string {
	return "student" + separator + g.BranchCode(branchName)
}

// JobPartition returns the key that serializes job code generation for a department and day.
func (g *Generator) JobPartition(departmentName string, referenceDate time.Time) (string, error) {
	dept, err := g.DepartmentCode(departmentName)
	if err != nil {
		return "", err
	}
	return "job" + separator + dept + separator + g.jobDate(referenceDate), nil
}

// GenerateStudentID returns the next student code using the generator's own student source.
func (g *Generator) GenerateStudentID(ctx context.Context, branchName, courseTypeName string) (string, error) {
	return g.NextStudentID(ctx, g.students, branchName, courseTypeName)
}

// NextStudentID returns the next student code for the branch, scanning src for existing codes.
// Codes are sequenced per branch across all course types.
func (g *Generator) NextStudentID(ctx context.Context, src Source, branchName, courseTypeName string) (string, error) {
	branch := g.BranchCode(branchName)
	course := g.CourseTypeCode(courseTypeName)

	existing, err := src.FindMatchingIdentifiers(ctx, Pattern{Segment: branch})
	if err != nil {
		return "", fmt.Errorf("%w: scanning student codes for branch %s: %w", apperrors.ErrStorageUnavailable, branch, err)
	}

	maxSeen := g.studentSeed
	for _, id := range existing {
		seq, ok := studentSequence(id, branch)
		if ok && seq > maxSeen {
			maxSeen = seq
		}
	}

	return course + separator + branch + separator + strconv.Itoa(maxSeen+1), nil
}

// studentSequence extracts the trailing sequence from id when its middle segment is branch.
func studentSequence(id, branch string) (int, bool) {
	last := strings.LastIndex(id, separator)
	if last < 0 {
		return 0, false
	}
	head := id[:last]
	if !strings.HasSuffix(head, separator+branch) || len(head) == len(separator+branch) {
		return 0, false
	}
	seq, err := strconv.Atoi(id[last+1:])
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// StudentCodeFunc binds NextStudentID to a branch and course type.
func (g *Generator) StudentCodeFunc(branchName, courseTypeName string) NextFunc {
	return func(ctx context.Context, src Source) (string, error) {
		return g.NextStudentID(ctx, src, branchName, courseTypeName)
	}
}

// GenerateJobID returns the next job code using the generator's own job source.
// A zero referenceDate means today.
func (g *Generator) GenerateJobID(ctx context.Context, departmentName string, referenceDate time.Time) (string, error) {
	return g.NextJobID(ctx, g.jobs, departmentName, referenceDate)
}

// NextJobID returns the next job code for the department and day, scanning src for existing codes.
func (g *Generator) NextJobID(ctx context.Context, src Source, departmentName string, referenceDate time.Time) (string, error) {
	dept, err := g.DepartmentCode(departmentName)
	if err != nil {
		return "", err
	}

	prefix := dept + separator + g.jobDate(referenceDate) + separator
	existing, err := src.FindMatchingIdentifiers(ctx, Pattern{Prefix: prefix})
	if err != nil {
		return "", fmt.Errorf("%w: scanning job codes with prefix %s: %w", apperrors.ErrStorageUnavailable, prefix, err)
	}

	// Numeric max, so ordering stays correct once the sequence outgrows its padding.
	last := 0
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		seq, err := strconv.Atoi(id[len(prefix):])
		if err != nil || seq < 0 {
			continue
		}
		if seq > last {
			last = seq
		}
	}

	next := last + 1
	seqStr := fmt.Sprintf("%0*d", g.jobWidth, next)
	if len(seqStr) > g.jobWidth {
		logger.Warn().Str("prefix", prefix).Int("sequence", next).Int("width", g.jobWidth).
			Msg("Job code sequence exceeded its padded width")
	}

	return prefix + seqStr, nil
}

// JobCodeFunc binds NextJobID to a department and reference date.
func (g *Generator) JobCodeFunc(departmentName string, referenceDate time.Time) NextFunc {
	return func(ctx context.Context, src Source) (string, error) {
		return g.NextJobID(ctx, src, departmentName, referenceDate)
	}
}

// Today returns the current date at midnight in the generator clock's location.
func (g *Generator) Today() time.Time {
	now := g.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (g *Generator) jobDate(referenceDate time.Time) string {
	if referenceDate.IsZero() {
		referenceDate = g.now()
	}
	return referenceDate.Format(jobDateLayout)
}
